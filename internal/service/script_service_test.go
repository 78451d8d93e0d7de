package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/andy/clientcomptage/internal/domain"
)

func TestScriptWriterReport(t *testing.T) {
	tests := []struct {
		report domain.Report
		want   string
	}{
		{domain.ReportByDay, "\\echo Jours\nSELECT * FROM public.jours_v;\n"},
		{domain.ReportByMonth, "\\echo Mois\nSELECT * FROM public.mois;\n"},
		{domain.ReportByWeek, "\\echo Semaines\nSELECT * FROM public.semaines;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.report.Label, func(t *testing.T) {
			var out bytes.Buffer
			if err := NewScriptWriter(&out).Report(context.Background(), tt.report); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestScriptWriterInsert(t *testing.T) {
	var out bytes.Buffer
	if err := NewScriptWriter(&out).Insert(context.Background(), "2022-01-01 08:00, 2022-01-01 12:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "INSERT INTO public.comptage (deb,fin) VALUES (2022-01-01 08:00, 2022-01-01 12:00);\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestScriptWriterInit(t *testing.T) {
	var out bytes.Buffer
	if err := NewScriptWriter(&out).Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "CREATE TABLE public.comptage") {
		t.Fatalf("expected DDL, got %q", out.String())
	}
}
