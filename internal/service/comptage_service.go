package service

import (
	"context"
	"fmt"
	"io"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/andy/clientcomptage/internal/printer"
	"github.com/andy/clientcomptage/internal/repository"
)

// QueryError is a statement the server refused, with the statement text
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ComptageService performs the actions of an invocation
type ComptageService interface {
	// Insert records a deb/fin pair given as raw SQL values
	Insert(ctx context.Context, hours string) error
	// Report prints one of the fixed reports
	Report(ctx context.Context, report domain.Report) error
	// Init creates the table and report views
	Init(ctx context.Context) error
}

var (
	_ ComptageService = (*Executor)(nil)
	_ ComptageService = (*ScriptWriter)(nil)
)

// Executor runs statements against the database and prints reports
type Executor struct {
	store repository.Store
	out   io.Writer
}

// NewExecutor creates an Executor running statements through store
func NewExecutor(store repository.Store, out io.Writer) *Executor {
	return &Executor{
		store: store,
		out:   out,
	}
}

func (s *Executor) Insert(ctx context.Context, hours string) error {
	query := domain.InsertStatement(hours)

	if err := s.store.Exec(ctx, query); err != nil {
		return &QueryError{Query: query, Err: err}
	}

	return nil
}

func (s *Executor) Report(ctx context.Context, report domain.Report) error {
	rs, err := s.FetchReport(ctx, report)
	if err != nil {
		return err
	}

	return printer.Print(s.out, report.Label, rs)
}

// FetchReport runs a report query without printing it
func (s *Executor) FetchReport(ctx context.Context, report domain.Report) (*domain.ResultSet, error) {
	rs, err := s.store.Fetch(ctx, report.Query)
	if err != nil {
		return nil, &QueryError{Query: report.Query, Err: err}
	}
	return rs, nil
}

func (s *Executor) Init(ctx context.Context) error {
	if err := s.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
