package repository

import (
	"context"

	"github.com/andy/clientcomptage/internal/domain"
)

// Store runs raw statements against the single open connection
type Store interface {
	// Exec runs a statement and discards any result
	Exec(ctx context.Context, query string) error
	// Fetch runs a query and returns every row as text
	Fetch(ctx context.Context, query string) (*domain.ResultSet, error)
	// Migrate creates the comptage table and the report views
	Migrate(ctx context.Context) error
	// Close releases the connection. Calling it more than once is safe.
	Close() error
}
