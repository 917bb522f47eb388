package mutate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/unbound-force/spindle/internal/loader"
)

// Status is the outcome of testing one mutant.
type Status string

// Mutant outcomes. A timeout counts as killed in the score: an
// infinite-loop mutant that hangs the suite is still a detected one.
const (
	StatusKilled   Status = "killed"
	StatusSurvived Status = "survived"
	StatusTimedOut Status = "timed_out"
)

// Options configures a mutation run.
type Options struct {
	// Patterns are Go package patterns to mutate (e.g. "./...").
	Patterns []string

	// ModuleDir is the root directory of the module under test.
	ModuleDir string

	// TestTimeout bounds each go test run against a mutant.
	TestTimeout time.Duration

	// MinScore causes CheckThreshold to fail when the mutation
	// score falls below it. Zero means report-only.
	MinScore float64
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Patterns:    []string{"./..."},
		TestTimeout: 2 * time.Minute,
	}
}

// Run discovers mutation sites in the target packages and tests each
// mutant by running go test with the mutated file spliced in through
// a build overlay. The original tree is never touched.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"./..."}
	}
	if opts.TestTimeout <= 0 {
		opts.TestTimeout = 2 * time.Minute
	}

	// A red suite would kill every mutant and report a perfect score,
	// so the baseline must pass before any mutant is worth testing.
	if err := verifyBaseline(ctx, opts); err != nil {
		return nil, err
	}

	pkgs, fset, err := loader.Load(opts.ModuleDir, opts.Patterns...)
	if err != nil {
		return nil, err
	}

	sites := DiscoverSites(pkgs, fset)

	report := &Report{Mutants: make([]Mutant, 0, len(sites))}

	// Cache source bytes per file; every site in a file splices
	// into the same original.
	sources := make(map[string][]byte)

	for _, site := range sites {
		src, ok := sources[site.File]
		if !ok {
			src, err = os.ReadFile(site.File)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", site.File, err)
			}
			sources[site.File] = src
		}

		status, err := testMutant(ctx, opts, site, src)
		if err != nil {
			return nil, err
		}

		report.Mutants = append(report.Mutants, Mutant{
			ID:         site.ID(),
			File:       site.File,
			Line:       site.Line,
			Function:   site.Function,
			Complexity: site.Complexity,
			From:       site.From.String(),
			To:         site.To.String(),
			Status:     status,
		})
	}

	report.finalize(opts.MinScore)
	return report, nil
}

// verifyBaseline runs the suite once without any overlay.
func verifyBaseline(ctx context.Context, opts Options) error {
	runCtx, cancel := context.WithTimeout(ctx, opts.TestTimeout)
	defer cancel()

	args := []string{"test", "-count=1"}
	args = append(args, opts.Patterns...)

	cmd := exec.CommandContext(runCtx, "go", args...)
	cmd.Dir = opts.ModuleDir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("test suite fails before mutation: timed out after %s", opts.TestTimeout)
		}
		return fmt.Errorf("test suite fails before mutation: %w\n%s",
			err, strings.TrimSpace(out.String()))
	}
	return nil
}

// testMutant writes one mutant to a temp dir and runs go test against
// it via -overlay. A failing suite means the mutant is killed.
func testMutant(ctx context.Context, opts Options, site Site, src []byte) (Status, error) {
	mutated, err := site.Apply(src)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "spindle-mutant-*")
	if err != nil {
		return "", fmt.Errorf("creating mutant dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	mutFile := filepath.Join(tmpDir, filepath.Base(site.File))
	if err := os.WriteFile(mutFile, mutated, 0o600); err != nil {
		return "", fmt.Errorf("writing mutant: %w", err)
	}

	overlay := struct {
		Replace map[string]string `json:"Replace"`
	}{
		Replace: map[string]string{site.File: mutFile},
	}
	overlayBytes, err := json.Marshal(overlay)
	if err != nil {
		return "", fmt.Errorf("encoding overlay: %w", err)
	}
	overlayPath := filepath.Join(tmpDir, "overlay.json")
	if err := os.WriteFile(overlayPath, overlayBytes, 0o600); err != nil {
		return "", fmt.Errorf("writing overlay: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.TestTimeout)
	defer cancel()

	// -count=1 defeats test result caching; a cached pass against
	// the unmutated build would report every mutant as surviving.
	args := []string{"test", "-count=1", "-overlay", overlayPath}
	args = append(args, opts.Patterns...)

	cmd := exec.CommandContext(runCtx, "go", args...)
	cmd.Dir = opts.ModuleDir
	err = cmd.Run()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return StatusTimedOut, nil
	case err != nil:
		// Compile errors and test failures both count: the mutant
		// was detected either way.
		return StatusKilled, nil
	default:
		return StatusSurvived, nil
	}
}
