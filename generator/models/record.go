package models

import (
    "fmt"
    "strings"
    "time"

    "github.com/alovak/cardgen-playground/internal/cardgen"
    "github.com/alovak/cardgen-playground/internal/expiry"
)

// Record is one generated card-like line: SEQUENCE|MM|YY|CVV.
type Record struct {
    Number string `json:"number"`
    Month  string `json:"month"`
    Year   string `json:"year"`
    CVV    string `json:"cvv"`
}

func (r Record) Line() string {
    return strings.Join([]string{r.Number, r.Month, r.Year, r.CVV}, "|")
}

func (r Record) Expiry() expiry.Expiry {
    return expiry.Expiry{Month: r.Month, Year: r.Year}
}

// ParseLine parses SEQUENCE|MM|YY|CVV back into a Record.
func ParseLine(line string) (Record, error) {
    parts := strings.Split(strings.TrimSpace(line), "|")
    if len(parts) != 4 {
        return Record{}, fmt.Errorf("line must have 4 fields separated by '|' (got %d)", len(parts))
    }
    r := Record{Number: parts[0], Month: parts[1], Year: parts[2], CVV: parts[3]}
    if r.Number == "" || !cardgen.IsDigits(r.Number) {
        return Record{}, fmt.Errorf("number must contain digits only")
    }
    if err := expiry.ValidateMonth(r.Month); err != nil {
        return Record{}, err
    }
    if err := expiry.ValidateYear(r.Year); err != nil {
        return Record{}, err
    }
    if len(r.CVV) != 3 || !cardgen.IsDigits(r.CVV) {
        return Record{}, fmt.Errorf("cvv must be 3 digits")
    }
    return r, nil
}

// Batch is the outcome of one generation run.
type Batch struct {
    Records     []Record      `json:"records"`
    Lines       []string      `json:"lines"`
    Pattern     string        `json:"pattern"`
    Requested   int           `json:"requested"`
    Generated   int           `json:"generated"`
    Attempts    int           `json:"attempts"`
    SuccessRate float64       `json:"success_rate"`
    Elapsed     time.Duration `json:"elapsed_ns"`
}

// SavedCard is a record kept in a session.
type SavedCard struct {
    ID      string    `json:"id"`
    Record  Record    `json:"record"`
    Line    string    `json:"line"`
    SavedAt time.Time `json:"saved_at"`
}

// Stats summarizes a session.
type Stats struct {
    Total       int    `json:"total"`
    Unique      int    `json:"unique"`
    TopBIN      string `json:"top_bin,omitempty"`
    TopBINCount int    `json:"top_bin_count,omitempty"`
}
