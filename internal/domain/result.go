package domain

// ResultSet is a fetched report, every cell already rendered as text
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows
func (r *ResultSet) NumRows() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// NumColumns returns the number of columns
func (r *ResultSet) NumColumns() int {
	if r == nil {
		return 0
	}
	return len(r.Columns)
}
