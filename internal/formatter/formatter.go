// package formatter renders credential event history as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
)

// Format names an output format accepted by [Export].
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat resolves a user-supplied format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (text, csv, markdown)", shared.ErrInvalidArgument, s)
}

// Export renders events in format.
func Export(events []*models.AuthEvent, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(events)
	case FormatMarkdown:
		return ExportToMarkdown(events)
	case FormatText:
		return ExportToText(events)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// ExportToCSV converts events to CSV with columns: ID, Sequence, Kind, Detail, CreatedAt (RFC 3339, UTC)
func ExportToCSV(events []*models.AuthEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Sequence", "Kind", "Detail", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.ID(),
			strconv.Itoa(event.Sequence()),
			string(event.Kind()),
			event.Detail(),
			event.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts events to a Markdown table with a per-kind summary
func ExportToMarkdown(events []*models.AuthEvent) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Credential events\n\n")
	buf.WriteString(fmt.Sprintf("**Events**: %d\n", len(events)))

	counts := map[models.AuthEventKind]int{}
	for _, event := range events {
		counts[event.Kind()]++
	}
	for _, kind := range []models.AuthEventKind{
		models.EventBootstrap, models.EventInitOK, models.EventInitMissing, models.EventInitRejected,
	} {
		if n := counts[kind]; n > 0 {
			buf.WriteString(fmt.Sprintf("**%s**: %d\n", kind, n))
		}
	}
	buf.WriteString("\n")

	if len(events) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| Time | Kind | Detail |\n")
	buf.WriteString("| --- | --- | --- |\n")
	for _, event := range events {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			event.CreatedAt().UTC().Format(time.DateTime), event.Kind(), markdownCell(event.Detail())))
	}

	return buf.Bytes(), nil
}

// ExportToText converts events to one line per event in local time
func ExportToText(events []*models.AuthEvent) ([]byte, error) {
	var buf bytes.Buffer

	for _, event := range events {
		buf.WriteString(fmt.Sprintf("%s  %-14s %s\n",
			event.CreatedAt().Local().Format(time.DateTime), event.Kind(), event.Detail()))
	}

	return buf.Bytes(), nil
}

// WriteExport renders events in format and writes them to path, creating parent directories.
func WriteExport(events []*models.AuthEvent, format Format, path string) error {
	data, err := Export(events, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
