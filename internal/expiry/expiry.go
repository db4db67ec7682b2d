package expiry

import (
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/alovak/cardgen-playground/internal/cardgen"
)

// DefaultWindow is how many years past the current one a random expiry may fall in.
const DefaultWindow = 6

// Expiry is a card-face expiry date with two-digit month and year.
type Expiry struct {
    Month string
    Year  string
}

// CardFace returns expiry as MM/YY for card imprint.
func (e Expiry) CardFace() string {
    return e.Month + "/" + e.Year
}

// YYMM returns expiry in the ISO 8583 DE14 layout.
func (e Expiry) YYMM() string {
    return e.Year + e.Month
}

// FromTime returns the expiry for an issue date + years.
func FromTime(issue time.Time, years int) Expiry {
    y := (issue.Year() + years) % 100
    return Expiry{
        Month: fmt.Sprintf("%02d", int(issue.Month())),
        Year:  fmt.Sprintf("%02d", y),
    }
}

// Random picks a month in 01..12 and a year between now and now+window.
func Random(src cardgen.DigitSource, now time.Time, window int) Expiry {
    if window < 0 {
        window = 0
    }
    m := 1 + src.Intn(12)
    y := (now.Year() + src.Intn(window+1)) % 100
    return Expiry{
        Month: fmt.Sprintf("%02d", m),
        Year:  fmt.Sprintf("%02d", y),
    }
}

// ParseCardFace accepts "MM/YY" or "MMYY".
func ParseCardFace(in string) (Expiry, error) {
    s := strings.TrimSpace(in)
    s = strings.ReplaceAll(s, "/", "")
    if len(s) != 4 {
        return Expiry{}, fmt.Errorf("card face must be MM/YY or MMYY")
    }
    if !cardgen.IsDigits(s) {
        return Expiry{}, fmt.Errorf("card face must be digits")
    }
    e := Expiry{Month: s[:2], Year: s[2:]}
    if err := ValidateMonth(e.Month); err != nil {
        return Expiry{}, err
    }
    return e, nil
}

// ValidateMonth checks a two-digit month in 01..12.
func ValidateMonth(mm string) error {
    if len(mm) != 2 || !cardgen.IsDigits(mm) {
        return fmt.Errorf("month must be 2 digits")
    }
    m, _ := strconv.Atoi(mm)
    if m < 1 || m > 12 {
        return fmt.Errorf("month must be 01..12")
    }
    return nil
}

// ValidateYear checks a two-digit year.
func ValidateYear(yy string) error {
    if len(yy) != 2 || !cardgen.IsDigits(yy) {
        return fmt.Errorf("year must be 2 digits")
    }
    return nil
}
