// Package loader wraps go/packages to load Go packages with type
// information for mutation analysis.
package loader

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the minimum set of flags needed to discover and
// type-check mutation sites.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Load loads the Go packages matching the given patterns, rooted at
// dir (the working directory when dir is empty). Test variants are
// excluded; mutating the tests themselves would be self-defeating.
func Load(dir string, patterns ...string) ([]*packages.Package, *token.FileSet, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   dir,
		Fset:  fset,
		Tests: false,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading packages %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, nil, fmt.Errorf("no packages found for patterns %v", patterns)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, nil, fmt.Errorf("loading package %q: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}

	return pkgs, fset, nil
}
