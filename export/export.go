package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-subscout/models"
)

// Format represents an export format type
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Document is the JSON export layout.
type Document struct {
	GeneratedAt string          `json:"generatedAt"`
	Domain      string          `json:"domain"`
	Results     []models.Record `json:"results"`
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Filename returns the default download name for f.
func (f Format) Filename() string {
	if f == FormatText {
		return "subdomains.txt"
	}
	return "subdomains." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	}
	return "text/plain; charset=utf-8"
}

// Render encodes records in format f.
func Render(f Format, domain string, records []models.Record, now time.Time) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(domain, records, now)
	case FormatCSV:
		return CSV(records)
	case FormatText:
		return []byte(ClipboardText(records)), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}

// JSON returns the pretty-printed export document.
func JSON(domain string, records []models.Record, now time.Time) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return json.MarshalIndent(Document{
		GeneratedAt: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Domain:      domain,
		Results:     records,
	}, "", "  ")
}

// CSV returns a header row followed by one row per record.
func CSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"subdomain", "dns", "http", "source"}); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{r.Subdomain, "", "", strings.Join(r.Source, "|")}
		if r.DNS != nil {
			row[1] = strconv.FormatBool(*r.DNS)
		}
		if r.HTTP != nil {
			row[2] = r.HTTP.String()
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ClipboardText returns one subdomain per line.
func ClipboardText(records []models.Record) string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Subdomain)
	}
	return strings.Join(names, "\n")
}

// WriteFile writes an export artifact to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}
