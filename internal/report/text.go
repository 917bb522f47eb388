package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/spindle/internal/trace"
)

// WriteText writes a trace as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the
// output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, res trace.Result) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf(
		"Dial trace: %d instruction(s) from position %d", len(res.Steps), res.Start)))

	if len(res.Steps) == 0 {
		fmt.Fprintln(w, s.Muted.Render("No instructions to replay."))
		fmt.Fprintf(w, "\n%s\n", s.Header.Render("0 zero crossing(s)"))
		return nil
	}

	fmt.Fprintln(w)

	rows := make([][]string, 0, len(res.Steps))
	for _, st := range res.Steps {
		hit := ""
		if st.Zero {
			hit = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(st.Index),
			st.Token,
			st.Direction,
			st.Distance,
			st.Position,
			hit,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if row >= 0 && row < len(rows) && col >= 3 && col <= 4 {
				return s.RowStyle(rows[row][col], rows[row][5] == "*")
			}
			return s.TableCell
		}).
		Headers("#", "TOKEN", "DIR", "DIST", "POS", "ZERO").
		Rows(rows...)

	fmt.Fprintln(w, t)

	fmt.Fprintf(w, "\n%s\n", s.Header.Render(fmt.Sprintf(
		"%d zero crossing(s)", res.Count)))

	return nil
}
