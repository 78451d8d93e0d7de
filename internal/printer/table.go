package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Render draws rs as an aligned table with single-line borders and the
// title centered above it. Numeric columns are right-aligned.
// No pager and no "(n rows)" footer.
func Render(title string, rs *domain.ResultSet) string {
	numeric := numericColumns(rs)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(numeric) && numeric[col] {
				return numberStyle
			}
			return cellStyle
		})

	if rs != nil {
		t = t.Headers(rs.Columns...).Rows(rs.Rows...)
	}

	body := t.Render()
	width := lipgloss.Width(body)

	var b strings.Builder
	if title != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(title)))
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// Print writes the rendered table followed by a blank line, like psql
func Print(w io.Writer, title string, rs *domain.ResultSet) error {
	if _, err := fmt.Fprintln(w, Render(title, rs)); err != nil {
		return fmt.Errorf("failed to print %s: %w", title, err)
	}
	return nil
}

// numericColumns flags the columns whose non-empty cells are all numbers
func numericColumns(rs *domain.ResultSet) []bool {
	numeric := make([]bool, rs.NumColumns())
	for col := range numeric {
		seen := false
		numeric[col] = true
		for _, row := range rs.Rows {
			if col >= len(row) || row[col] == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(row[col], 64); err != nil {
				numeric[col] = false
				break
			}
		}
		numeric[col] = numeric[col] && seen
	}
	return numeric
}
