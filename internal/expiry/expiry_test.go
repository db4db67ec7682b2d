package expiry

import (
    "testing"
    "time"

    "github.com/alovak/cardgen-playground/internal/cardgen"
)

func TestFromTime_Rollover(t *testing.T) {
    issue := time.Date(2029, time.December, 15, 0, 0, 0, 0, time.UTC)
    e := FromTime(issue, 1)
    if got := e.YYMM(); got != "3012" {
        t.Fatalf("YYMM got %s want %s", got, "3012")
    }
    if got := e.CardFace(); got != "12/30" {
        t.Fatalf("CardFace got %s want %s", got, "12/30")
    }
}

func TestFromTime_LeapIssue(t *testing.T) {
    // Leap day issue should add years correctly.
    issue := time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC)
    e := FromTime(issue, 3)
    if got := e.YYMM(); got != "3102" {
        t.Fatalf("YYMM got %s want %s", got, "3102")
    }
    if got := e.CardFace(); got != "02/31" {
        t.Fatalf("CardFace got %s want %s", got, "02/31")
    }
}

func TestRandom_Range(t *testing.T) {
    now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
    src := cardgen.NewSeededSource(5)
    months := map[string]bool{}
    years := map[string]bool{}
    for i := 0; i < 2000; i++ {
        e := Random(src, now, DefaultWindow)
        if err := ValidateMonth(e.Month); err != nil {
            t.Fatalf("month %q: %v", e.Month, err)
        }
        if e.Year < "24" || e.Year > "30" {
            t.Fatalf("year %q outside 24..30", e.Year)
        }
        months[e.Month] = true
        years[e.Year] = true
    }
    if len(months) != 12 {
        t.Fatalf("expected all 12 months, got %d", len(months))
    }
    if len(years) != 7 {
        t.Fatalf("expected 7 distinct years, got %d", len(years))
    }
}

func TestRandom_CenturyWrap(t *testing.T) {
    now := time.Date(2098, time.January, 1, 0, 0, 0, 0, time.UTC)
    src := cardgen.NewSeededSource(1)
    for i := 0; i < 200; i++ {
        e := Random(src, now, 4)
        switch e.Year {
        case "98", "99", "00", "01", "02":
        default:
            t.Fatalf("unexpected year %q", e.Year)
        }
    }
}

func TestRandom_ZeroWindow(t *testing.T) {
    now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
    e := Random(cardgen.NewSeededSource(3), now, -1)
    if e.Year != "26" {
        t.Fatalf("year got %s want 26", e.Year)
    }
}

func TestValidateMonth(t *testing.T) {
    cases := []struct{ in string; ok bool }{
        {"01", true}, {"12", true}, {"07", true},
        {"00", false}, {"13", false}, {"1", false}, {"1a", false}, {"", false},
    }
    for _, c := range cases {
        err := ValidateMonth(c.in)
        if (err == nil) != c.ok {
            t.Fatalf("ValidateMonth(%s) ok=%v got err=%v", c.in, c.ok, err)
        }
    }
}

func TestValidateYear(t *testing.T) {
    if err := ValidateYear("30"); err != nil {
        t.Fatalf("unexpected err: %v", err)
    }
    for _, in := range []string{"", "3", "300", "3a"} {
        if err := ValidateYear(in); err == nil {
            t.Fatalf("expected error for %q", in)
        }
    }
}

func TestParseCardFace(t *testing.T) {
    e, err := ParseCardFace("10/30")
    if err != nil || e.Month != "10" || e.Year != "30" {
        t.Fatalf("ParseCardFace 10/30 got %+v err=%v", e, err)
    }
    e, err = ParseCardFace(" 1030 ")
    if err != nil || e.YYMM() != "3010" {
        t.Fatalf("ParseCardFace 1030 got %+v err=%v", e, err)
    }
    if _, err := ParseCardFace("13/30"); err == nil { t.Fatalf("expected error for 13/30") }
    if _, err := ParseCardFace("1/30"); err == nil { t.Fatalf("expected error for 1/30") }
    if _, err := ParseCardFace("ab/cd"); err == nil { t.Fatalf("expected error for ab/cd") }
}
