package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/andy/clientcomptage/internal/db"
	"github.com/andy/clientcomptage/internal/domain"
)

// PostgresStore is the Store backed by a pgx database/sql handle
type PostgresStore struct {
	db        *db.DB
	closeOnce sync.Once
	closeErr  error
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Exec runs a statement and discards its result
func (s *PostgresStore) Exec(ctx context.Context, query string) error {
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Fetch runs a query and renders every cell as text
func (s *PostgresStore) Fetch(ctx context.Context, query string) (*domain.ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &domain.ResultSet{
		Columns: make([]string, len(columnTypes)),
		Rows:    [][]string{},
	}
	for i, ct := range columnTypes {
		result.Columns[i] = ct.Name()
	}

	values := make([]any, len(columnTypes))
	dest := make([]any, len(columnTypes))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v, columnTypes[i].DatabaseTypeName())
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return result, nil
}

// Migrate creates the comptage table and report views
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.RunMigrations(ctx)
}

// Close closes the underlying connection once
func (s *PostgresStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
