package tui

import "github.com/andy/clientcomptage/internal/domain"

// reportLoadedMsg carries the result of one report query
type reportLoadedMsg struct {
	index  int
	result *domain.ResultSet
	err    error
}
