// Package export renders generated records for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alovak/cardgen-playground/generator/models"
)

type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatISO8583 Format = "iso8583"
)

var ErrUnknownFormat = fmt.Errorf("unknown export format")

// ParseFormat maps a user-supplied name to a Format; empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "txt", FormatText:
		return FormatText, nil
	case FormatJSON, FormatCSV, FormatISO8583:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatISO8583:
		return "hex"
	default:
		return "txt"
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns e.g. cards_20240102_150405.txt.
func Filename(prefix string, f Format, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), f.Extension())
}

// Write renders records to w in format f.
func Write(w io.Writer, f Format, records []models.Record) error {
	switch f {
	case FormatText:
		return writeText(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatCSV:
		return writeCSV(w, records)
	case FormatISO8583:
		return writeISO8583(w, records)
	default:
		return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
}

func writeText(w io.Writer, records []models.Record) error {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Line()
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func writeCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"number", "month", "year", "cvv"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Number, r.Month, r.Year, r.CVV}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
