package models

import (
    "regexp"

    validation "github.com/jellydator/validation"

    "github.com/alovak/cardgen-playground/internal/binlist"
)

// MaxBatchSize caps a single generation request.
const MaxBatchSize = 1000

var (
    monthRe = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
    yearRe  = regexp.MustCompile(`^[0-9]{2}$`)
)

// GenerateRequest asks for Count lines from Pattern. Month and Year are
// optional; when empty each record gets a random expiry.
type GenerateRequest struct {
    Pattern string `json:"pattern"`
    Count   int    `json:"count"`
    Month   string `json:"month,omitempty"`
    Year    string `json:"year,omitempty"`
}

func (r *GenerateRequest) Validate() error {
    return validation.ValidateStruct(r,
        validation.Field(&r.Pattern, validation.Required.Error("pattern is required")),
        validation.Field(&r.Count,
            validation.Required.Error("count is required"),
            validation.Min(1).Error("count must be at least 1"),
            validation.Max(MaxBatchSize).Error("count must not exceed 1000"),
        ),
        validation.Field(&r.Month, validation.Match(monthRe).Error("month must be 01..12")),
        validation.Field(&r.Year, validation.Match(yearRe).Error("year must be 2 digits")),
    )
}

type VerifyRequest struct {
    Number string `json:"number"`
}

type VerifyResponse struct {
    Number string `json:"number"`
    Valid  bool   `json:"valid"`
}

type SaveRequest struct {
    Lines []string `json:"lines"`
}

func (r *SaveRequest) Validate() error {
    return validation.ValidateStruct(r,
        validation.Field(&r.Lines, validation.Required.Error("lines are required")),
    )
}

// LookupResult carries registry data for a prefix; Available is false when
// the registry could not answer.
type LookupResult struct {
    Prefix    string        `json:"prefix"`
    Available bool          `json:"available"`
    Info      *binlist.Info `json:"info,omitempty"`
}
