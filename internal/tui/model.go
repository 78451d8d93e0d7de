package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReportFetcher runs a report query
type ReportFetcher interface {
	FetchReport(ctx context.Context, report domain.Report) (*domain.ResultSet, error)
}

// Model is the root Bubble Tea model: one tab per report
type Model struct {
	ctx     context.Context
	fetcher ReportFetcher
	reports []domain.Report
	current int

	table   table.Model
	help    help.Model
	results map[int]*domain.ResultSet

	width   int
	height  int
	loading bool
	err     error
}

// New creates a new root model browsing reports
func New(ctx context.Context, fetcher ReportFetcher, reports []domain.Report) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(borderColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(primaryColor)
	t.SetStyles(styles)

	return Model{
		ctx:     ctx,
		fetcher: fetcher,
		reports: reports,
		table:   t,
		help:    help.New(),
		results: make(map[int]*domain.ResultSet),
		loading: true,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.load(m.current)
}

func (m Model) load(index int) tea.Cmd {
	report := m.reports[index]
	return func() tea.Msg {
		rs, err := m.fetcher.FetchReport(m.ctx, report)
		return reportLoadedMsg{index: index, result: rs, err: err}
	}
}

// show switches to a tab, loading it unless already fetched
func (m Model) show(index int) (Model, tea.Cmd) {
	m.current = index
	m.err = nil
	if rs, ok := m.results[index]; ok {
		m.setResult(rs)
		m.loading = false
		return m, nil
	}
	m.loading = true
	return m, m.load(index)
}

func (m *Model) setResult(rs *domain.ResultSet) {
	// Rows first: the table indexes rows by the current columns
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(rs))
	m.table.SetRows(rowsFor(rs))
	m.table.GotoTop()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Tabs, title, help and the frame take 8 lines
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case reportLoadedMsg:
		if msg.err != nil {
			if msg.index == m.current {
				m.loading = false
				m.err = msg.err
			}
			return m, nil
		}
		m.results[msg.index] = msg.result
		if msg.index == m.current {
			m.loading = false
			m.err = nil
			m.setResult(msg.result)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.NextReport):
			return m.show((m.current + 1) % len(m.reports))

		case key.Matches(msg, DefaultKeyMap.PrevReport):
			return m.show((m.current + len(m.reports) - 1) % len(m.reports))

		case key.Matches(msg, DefaultKeyMap.Reload):
			delete(m.results, m.current)
			return m.show(m.current)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	tabs := make([]string, len(m.reports))
	for i, r := range m.reports {
		if i == m.current {
			tabs[i] = activeTabStyle.Render(r.Label)
		} else {
			tabs[i] = inactiveTabStyle.Render(r.Label)
		}
	}

	var content string
	switch {
	case m.err != nil:
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" +
			subtitleStyle.Render(m.reports[m.current].Query)
	case m.loading:
		content = "Loading..."
	default:
		content = m.table.View() + "\n" +
			subtitleStyle.Render(fmt.Sprintf("%d rows", len(m.table.Rows())))
	}

	body := strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		titleStyle.Render(m.reports[m.current].Label),
		content,
		m.help.View(DefaultKeyMap),
	}, "\n")

	return appBorderStyle.Render(body)
}

// Run starts the TUI. It ends on quit or when ctx is cancelled.
func Run(ctx context.Context, fetcher ReportFetcher) error {
	p := tea.NewProgram(New(ctx, fetcher, domain.Reports()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
