package table

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/duke-git/lancet/v2/convertor"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// FormatCell renders a cell for text output. nil is empty.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	case []any, map[string]any:
		return fmt.Sprint(t)
	}
	return convertor.ToString(v)
}

// Render draws up to limit rows as a bordered table. A limit of zero or
// less renders every row.
func (t *Table) Render(w io.Writer, limit int) error {
	n := len(t.rows)
	if limit > 0 && limit < n {
		n = limit
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]string, len(t.columns))
		for j, v := range t.rows[i] {
			rows[i][j] = FormatCell(v)
		}
	}

	out := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, out.String()); err != nil {
		return err
	}
	if n < len(t.rows) {
		_, err := fmt.Fprintf(w, "%d of %d rows\n", n, len(t.rows))
		return err
	}
	return nil
}
