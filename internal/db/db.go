package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/clientcomptage/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

type DB struct {
	*sql.DB
}

// Params identifies the server and role to connect as.
// An empty Password lets pgx fall back to PGPASSWORD and ~/.pgpass.
type Params struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// ConnString renders p in libpq keyword/value form
func (p Params) ConnString() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteConnValue(value))
		}
	}

	add("host", p.Host)
	if p.Port != 0 {
		add("port", strconv.Itoa(p.Port))
	}
	add("dbname", p.Name)
	add("user", p.User)
	add("application_name", "clientcomptage")

	return strings.Join(parts, " ")
}

// quoteConnValue single-quotes a value when libpq would need it
func quoteConnValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Open connects to PostgreSQL through the pgx database/sql driver.
// The pool is capped at one connection: every statement of a run goes
// through the same backend.
func Open(ctx context.Context, p Params) (*DB, error) {
	connConfig, err := pgx.ParseConfig(p.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection parameters: %w", err)
	}
	if p.Password != "" {
		connConfig.Password = p.Password
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	// Ping to verify connection
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connection to server at %q, port %d failed: %w", p.Host, p.Port, err)
	}

	return &DB{DB: sqlDB}, nil
}

// IsAuthFailure reports whether err is the server refusing the credentials
func IsAuthFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// invalid_password, invalid_authorization_specification
		return pgErr.Code == "28P01" || pgErr.Code == "28000"
	}
	return false
}

// ServerVersion returns the version of the connected server
func (db *DB) ServerVersion(ctx context.Context) (domain.ServerVersion, error) {
	var num string
	if err := db.QueryRowContext(ctx, "SHOW server_version_num").Scan(&num); err != nil {
		return domain.ServerVersion{}, fmt.Errorf("failed to get server version: %w", err)
	}
	return domain.ParseServerVersionNum(num)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
