package tui

import (
	"github.com/andy/clientcomptage/internal/domain"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 40

// columnsFor sizes each column to its widest cell
func columnsFor(rs *domain.ResultSet) []table.Column {
	columns := make([]table.Column, rs.NumColumns())
	for i := range columns {
		name := rs.Columns[i]
		width := lipgloss.Width(name)
		for _, row := range rs.Rows {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > width {
					width = w
				}
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		columns[i] = table.Column{Title: name, Width: width}
	}
	return columns
}

// rowsFor converts result rows, padding short rows to the column count
func rowsFor(rs *domain.ResultSet) []table.Row {
	rows := make([]table.Row, rs.NumRows())
	for i := range rows {
		row := make(table.Row, rs.NumColumns())
		copy(row, rs.Rows[i])
		rows[i] = row
	}
	return rows
}
