package service

import (
	"context"
	"fmt"
	"io"

	"github.com/andy/clientcomptage/internal/db"
	"github.com/andy/clientcomptage/internal/domain"
)

// scriptServerVersion is assumed when rendering DDL without a connection
var scriptServerVersion = domain.ServerVersion{Major: 10}

// ScriptWriter prints SQL instead of running it
type ScriptWriter struct {
	out io.Writer
}

// NewScriptWriter creates a ScriptWriter. Its output is a psql script.
func NewScriptWriter(out io.Writer) *ScriptWriter {
	return &ScriptWriter{out: out}
}

func (s *ScriptWriter) Insert(ctx context.Context, hours string) error {
	_, err := fmt.Fprintf(s.out, "%s;\n", domain.InsertStatement(hours))
	return err
}

func (s *ScriptWriter) Report(ctx context.Context, report domain.Report) error {
	_, err := fmt.Fprintf(s.out, "\\echo %s\n%s;\n", report.Label, report.Query)
	return err
}

func (s *ScriptWriter) Init(ctx context.Context) error {
	_, err := io.WriteString(s.out, db.MigrationScript(scriptServerVersion))
	return err
}
