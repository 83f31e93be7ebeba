package formatter

import (
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
	th "github.com/desertthunder/mirei/internal/testing"
)

func testEvents() []*models.AuthEvent {
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	return []*models.AuthEvent{
		models.RestoreAuthEvent("e2", 2, models.EventInitRejected, "token revoked | retry", at.Add(time.Minute)),
		models.RestoreAuthEvent("e1", 1, models.EventBootstrap, "credential file written to oauth.json", at),
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testEvents())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if got := strings.Join(records[0], ","); got != "ID,Sequence,Kind,Detail,CreatedAt" {
			t.Errorf("unexpected headers %s", got)
		}
		if got := records[2]; got[0] != "e1" || got[1] != "1" || got[2] != "bootstrap" || got[4] != "2025-03-01T12:30:00Z" {
			t.Errorf("unexpected row %v", got)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testEvents())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Credential events",
			"**Events**: 2",
			"**bootstrap**: 1",
			"**init_rejected**: 1",
			"| Time | Kind | Detail |",
			`token revoked \| retry`,
			"2025-03-01 12:30:00",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "init_ok") {
			t.Error("expected kinds without events to be omitted")
		}
	})

	t.Run("ExportToMarkdown with no events", func(t *testing.T) {
		data, err := ExportToMarkdown(nil)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "| Time |") {
			t.Errorf("expected no table for empty history, got:\n%s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testEvents())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.Contains(lines[0], "init_rejected") || !strings.Contains(lines[1], "bootstrap") {
			t.Errorf("expected input order to be kept, got %v", lines)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{" markdown ", FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "events.csv")

		if err := WriteExport(testEvents(), FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "ID,Sequence") {
			t.Errorf("unexpected content %s", content)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.xml")
		if err := WriteExport(testEvents(), Format("xml"), path); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
