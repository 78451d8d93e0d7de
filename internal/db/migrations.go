package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/clientcomptage/internal/domain"
)

type migration struct {
	version int
	sql     func(v domain.ServerVersion) string
}

const schemaVersionDDL = `CREATE TABLE IF NOT EXISTS public.schema_version (
    version integer PRIMARY KEY,
    applied_at timestamptz NOT NULL DEFAULT now()
)`

// identityColumn picks identity columns when the server has them (10+)
func identityColumn(v domain.ServerVersion) string {
	if v.AtLeast(10, 0) {
		return "id bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}
	return "id bigserial PRIMARY KEY"
}

var migrations = []migration{
	{
		version: 1,
		sql: func(v domain.ServerVersion) string {
			return `
-- Worked time ranges
CREATE TABLE public.comptage (
    ` + identityColumn(v) + `,
    deb timestamptz NOT NULL,
    fin timestamptz NOT NULL,
    CHECK (fin > deb)
);

CREATE INDEX comptage_deb_idx ON public.comptage (deb);

-- Per day
CREATE OR REPLACE VIEW public.jours_v AS
SELECT deb::date AS jour,
       count(*) AS sessions,
       sum(fin - deb) AS duree,
       round((extract(epoch FROM sum(fin - deb)) / 3600)::numeric, 2) AS heures
FROM public.comptage
GROUP BY 1
ORDER BY 1;

-- Per month
CREATE OR REPLACE VIEW public.mois AS
SELECT to_char(date_trunc('month', deb), 'YYYY-MM') AS mois,
       count(DISTINCT deb::date) AS jours,
       sum(fin - deb) AS duree,
       round((extract(epoch FROM sum(fin - deb)) / 3600)::numeric, 2) AS heures
FROM public.comptage
GROUP BY 1
ORDER BY 1;

-- Per ISO week
CREATE OR REPLACE VIEW public.semaines AS
SELECT to_char(deb, 'IYYY-"S"IW') AS semaine,
       min(deb::date) AS premier_jour,
       count(DISTINCT deb::date) AS jours,
       sum(fin - deb) AS duree,
       round((extract(epoch FROM sum(fin - deb)) / 3600)::numeric, 2) AS heures
FROM public.comptage
GROUP BY 1
ORDER BY 1;
`
		},
	},
}

// RunMigrations applies all pending schema migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	version, err := db.ServerVersion(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, schemaVersionDDL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM public.schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Apply pending migrations in a transaction
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		if _, err := tx.ExecContext(ctx, m.sql(version)); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO public.schema_version (version) VALUES ($1)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}

	return nil
}

// MigrationScript renders every migration as a single psql script for
// the given server version. It does not consult schema_version.
func MigrationScript(v domain.ServerVersion) string {
	var b strings.Builder
	b.WriteString("BEGIN;\n")
	b.WriteString(schemaVersionDDL + ";\n")
	for _, m := range migrations {
		b.WriteString(strings.TrimSpace(m.sql(v)) + "\n")
		fmt.Fprintf(&b, "INSERT INTO public.schema_version (version) VALUES (%d);\n", m.version)
	}
	b.WriteString("COMMIT;\n")
	return b.String()
}
