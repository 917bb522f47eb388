// Package mutate implements a small mutation tester: it flips
// arithmetic and comparison operators in package source one at a
// time, runs the test suite against each mutant, and reports which
// mutants the tests kill. A surviving mutant marks behavior the
// tests never pin down.
package mutate

import (
	"crypto/sha256"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"regexp"
	"sort"
	"strings"

	"github.com/fzipp/gocyclo"
	"golang.org/x/tools/go/packages"
)

// operators maps each mutable binary operator to its replacement.
// Every pair either inverts the operation or shifts its boundary,
// so any test that exercises the operator with a discriminating
// input kills the mutant.
var operators = map[token.Token]token.Token{
	token.ADD:  token.SUB,
	token.SUB:  token.ADD,
	token.MUL:  token.QUO,
	token.QUO:  token.MUL,
	token.REM:  token.MUL,
	token.LSS:  token.LEQ,
	token.LEQ:  token.LSS,
	token.GTR:  token.GEQ,
	token.GEQ:  token.GTR,
	token.EQL:  token.NEQ,
	token.NEQ:  token.EQL,
	token.LAND: token.LOR,
	token.LOR:  token.LAND,
}

// Site is one mutable operator occurrence in a source file.
type Site struct {
	// File is the absolute path of the source file.
	File string

	// Offset is the byte offset of the operator token in the file.
	Offset int

	// Line is the 1-based source line of the operator.
	Line int

	// Function is the enclosing function or method name.
	Function string

	// Complexity is the cyclomatic complexity of the enclosing
	// function. Sites in riskier functions are tested first.
	Complexity int

	// From and To are the original and replacement operators.
	From, To token.Token
}

// ID returns a stable identifier for the site, usable for diffing
// mutation runs. sha256 of file:offset:from:to, truncated.
func (s Site) ID() string {
	input := fmt.Sprintf("%s:%d:%s:%s", s.File, s.Offset, s.From, s.To)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("mu-%x", hash[:4])
}

// DiscoverSites finds every mutable operator in the loaded packages.
// Sites are ordered by enclosing-function complexity, descending,
// then by file and offset for determinism.
func DiscoverSites(pkgs []*packages.Package, fset *token.FileSet) []Site {
	var sites []Site
	for _, pkg := range pkgs {
		complexity := complexityIndex(pkg, fset)
		for _, file := range pkg.Syntax {
			name := fset.Position(file.Pos()).Filename
			if strings.HasSuffix(name, "_test.go") {
				continue
			}
			sites = append(sites, sitesInFile(fset, file, pkg.TypesInfo, complexity)...)
		}
	}

	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Complexity != sites[j].Complexity {
			return sites[i].Complexity > sites[j].Complexity
		}
		if sites[i].File != sites[j].File {
			return sites[i].File < sites[j].File
		}
		return sites[i].Offset < sites[j].Offset
	})
	return sites
}

// sitesInFile walks the function bodies of one file and collects
// mutable operator occurrences. The types info is used to skip
// string concatenation, whose + has no - counterpart; a nil info
// skips that filter.
func sitesInFile(fset *token.FileSet, file *ast.File, info *types.Info, complexity map[funcKey]int) []Site {
	var sites []Site

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}

		declPos := fset.Position(fd.Pos())
		key := funcKey{file: declPos.Filename, line: declPos.Line}

		ast.Inspect(fd.Body, func(n ast.Node) bool {
			be, ok := n.(*ast.BinaryExpr)
			if !ok {
				return true
			}
			to, ok := operators[be.Op]
			if !ok {
				return true
			}
			if be.Op == token.ADD && isString(info, be.X) {
				return true
			}

			pos := fset.Position(be.OpPos)
			sites = append(sites, Site{
				File:       pos.Filename,
				Offset:     pos.Offset,
				Line:       pos.Line,
				Function:   funcName(fd),
				Complexity: complexity[key],
				From:       be.Op,
				To:         to,
			})
			return true
		})
	}

	return sites
}

// Apply splices the site's replacement operator into the original
// source bytes. Working at the byte level keeps the rest of the file,
// comments and formatting included, untouched.
func (s Site) Apply(src []byte) ([]byte, error) {
	from := s.From.String()
	end := s.Offset + len(from)
	if s.Offset < 0 || end > len(src) || string(src[s.Offset:end]) != from {
		return nil, fmt.Errorf("source drift at %s:%d: expected %q", s.File, s.Line, from)
	}

	mutated := make([]byte, 0, len(src)+1)
	mutated = append(mutated, src[:s.Offset]...)
	mutated = append(mutated, s.To.String()...)
	mutated = append(mutated, src[end:]...)
	return mutated, nil
}

// funcKey identifies a function declaration by file and line for
// joining with gocyclo stats.
type funcKey struct {
	file string
	line int
}

// complexityIndex computes per-function cyclomatic complexity for a
// package's source files, keyed by declaration position.
func complexityIndex(pkg *packages.Package, fset *token.FileSet) map[funcKey]int {
	files := make([]string, 0, len(pkg.CompiledGoFiles))
	for _, f := range pkg.CompiledGoFiles {
		if !strings.HasSuffix(f, ".go") {
			continue
		}
		files = append(files, f)
	}

	ignoreTests := regexp.MustCompile(`_test\.go$`)
	stats := gocyclo.Analyze(files, ignoreTests)

	index := make(map[funcKey]int, len(stats))
	for _, stat := range stats {
		index[funcKey{file: stat.Pos.Filename, line: stat.Pos.Line}] = stat.Complexity
	}
	return index
}

// funcName renders a declaration name, with the receiver type for
// methods.
func funcName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	return fmt.Sprintf("(%s).%s", recvTypeString(fd.Recv.List[0].Type), fd.Name.Name)
}

// recvTypeString renders a receiver type expression.
func recvTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + recvTypeString(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return recvTypeString(t.X)
	default:
		return "?"
	}
}

// isString reports whether the expression has string type.
func isString(info *types.Info, expr ast.Expr) bool {
	if info == nil {
		return false
	}
	typ := info.TypeOf(expr)
	if typ == nil {
		return false
	}
	basic, ok := typ.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsString != 0
}
