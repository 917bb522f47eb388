package mutate

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Report styles (package-level for consistent terminal output).
var (
	mutHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutBorderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	mutKilledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	mutSurvivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutLabelStyle    = lipgloss.NewStyle().Bold(true)
	mutMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Mutant is the tested outcome of one mutation site.
type Mutant struct {
	// ID is a stable identifier for diffing across runs.
	ID string `json:"id"`

	// File is the mutated source file.
	File string `json:"file"`

	// Line is the source line of the mutated operator.
	Line int `json:"line"`

	// Function is the enclosing function name.
	Function string `json:"function"`

	// Complexity is the cyclomatic complexity of the enclosing
	// function.
	Complexity int `json:"complexity"`

	// From and To are the original and replacement operators.
	From string `json:"from"`
	To   string `json:"to"`

	// Status is the test outcome for this mutant.
	Status Status `json:"status"`
}

// Summary aggregates a mutation run.
type Summary struct {
	// Total is the number of mutants tested.
	Total int `json:"total"`

	// Killed is the number of detected mutants, timeouts included.
	Killed int `json:"killed"`

	// Survived is the number of mutants no test noticed.
	Survived int `json:"survived"`

	// Score is Killed/Total as a percentage; 100 for an empty run.
	Score float64 `json:"score"`

	// MinScore is the configured threshold, zero when report-only.
	MinScore float64 `json:"min_score"`
}

// Report is the complete output of a mutation run.
type Report struct {
	Mutants []Mutant `json:"mutants"`
	Summary Summary  `json:"summary"`
}

// finalize fills Summary from the mutant list.
func (r *Report) finalize(minScore float64) {
	r.Summary = Summary{MinScore: minScore}
	for _, m := range r.Mutants {
		r.Summary.Total++
		if m.Status == StatusSurvived {
			r.Summary.Survived++
		} else {
			r.Summary.Killed++
		}
	}
	if r.Summary.Total == 0 {
		r.Summary.Score = 100
		return
	}
	r.Summary.Score = 100 * float64(r.Summary.Killed) / float64(r.Summary.Total)
}

// CheckThreshold returns an error when the mutation score falls below
// the configured minimum.
func (r *Report) CheckThreshold() error {
	if r.Summary.MinScore > 0 && r.Summary.Score < r.Summary.MinScore {
		return fmt.Errorf("mutation score %.1f%% below minimum %.1f%%",
			r.Summary.Score, r.Summary.MinScore)
	}
	return nil
}

// WriteJSON writes the mutation report as formatted JSON.
func WriteJSON(w io.Writer, report *Report) error {
	if report.Mutants == nil {
		report.Mutants = []Mutant{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteText writes the mutation report as human-readable styled text.
// Survivors come first; they are the actionable part.
func WriteText(w io.Writer, report *Report) error {
	if len(report.Mutants) == 0 {
		fmt.Fprintln(w, mutMutedStyle.Render("No mutation sites found."))
		return nil
	}

	rows := make([][]string, 0, len(report.Mutants))
	appendRows := func(status Status) {
		for _, m := range report.Mutants {
			if m.Status != status {
				continue
			}
			rows = append(rows, []string{
				string(m.Status),
				fmt.Sprintf("%s -> %s", m.From, m.To),
				m.Function,
				strconv.Itoa(m.Complexity),
				fmt.Sprintf("%s:%d", shortenPath(m.File), m.Line),
			})
		}
	}
	appendRows(StatusSurvived)
	appendRows(StatusTimedOut)
	appendRows(StatusKilled)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return mutHeaderStyle
			}
			if col == 0 && row >= 0 && row < len(rows) {
				if rows[row][0] == string(StatusSurvived) {
					return mutSurvivedStyle
				}
				return mutKilledStyle
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers("STATUS", "MUTATION", "FUNCTION", "CYCLO", "LOCATION").
		Rows(rows...)

	fmt.Fprintln(w, t)

	scoreStyle := mutKilledStyle
	if report.Summary.Survived > 0 {
		scoreStyle = mutSurvivedStyle
	}
	fmt.Fprintf(w, "\n%s %s\n",
		mutLabelStyle.Render("Mutation score:"),
		scoreStyle.Render(fmt.Sprintf("%.1f%% (%d/%d killed, %d survived)",
			report.Summary.Score, report.Summary.Killed,
			report.Summary.Total, report.Summary.Survived)))

	return nil
}

// shortenPath trims a path to its last two segments for display.
func shortenPath(path string) string {
	dir, file := filepath.Split(path)
	base := filepath.Base(strings.TrimSuffix(dir, string(filepath.Separator)))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return file
	}
	return filepath.Join(base, file)
}
