package generator

import (
    "context"
    "errors"
    "fmt"
    "math"
    "strings"
    "time"

    "golang.org/x/exp/slog"

    "github.com/alovak/cardgen-playground/generator/models"
    "github.com/alovak/cardgen-playground/internal/binlist"
    "github.com/alovak/cardgen-playground/internal/cardgen"
    "github.com/alovak/cardgen-playground/internal/expiry"
    "github.com/alovak/cardgen-playground/internal/metrics"
)

var (
    ErrInvalidInput     = fmt.Errorf("invalid input")
    ErrNothingGenerated = fmt.Errorf("no valid sequences generated")
)

const (
    patternWidth  = 16
    minPrefixLen  = 6
    maxPrefixLen  = 8
    defaultFactor = 20
)

// BINLookup answers registry queries for a numeric prefix.
type BINLookup interface {
    Lookup(ctx context.Context, prefix string) (*binlist.Info, error)
}

type Service struct {
    store   *SessionStore
    lookup  BINLookup
    cfg     *Config
    src     cardgen.DigitSource
    metrics *metrics.Metrics
    logger  *slog.Logger
    now     func() time.Time
}

type Option func(*Service)

// WithSource replaces the crypto-backed random source, e.g. with a seeded one.
func WithSource(src cardgen.DigitSource) Option { return func(s *Service) { s.src = src } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store *SessionStore, lookup BINLookup, cfg *Config, opts ...Option) *Service {
    if cfg == nil {
        cfg = DefaultConfig()
    }
    s := &Service{
        store:  store,
        lookup: lookup,
        cfg:    cfg,
        src:    cardgen.CryptoSource(),
        logger: slog.New(discardHandler{}),
        now:    time.Now,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// PreparePattern cleans user input: spaces removed,
// right-padded with wildcards to 16 and cut to the 15-character body.
func PreparePattern(in string) (string, error) {
    p := strings.ReplaceAll(strings.TrimSpace(in), " ", "")
    if p == "" {
        return "", fmt.Errorf("%w: pattern is empty", ErrInvalidInput)
    }
    if len(p) < patternWidth {
        p += strings.Repeat("x", patternWidth-len(p))
    }
    return p[:patternWidth-1], nil
}

// GenerateBatch produces up to req.Count verified records, giving up after
// Count*AttemptsFactor attempts.
func (i *Service) GenerateBatch(req models.GenerateRequest) (*models.Batch, error) {
    if err := req.Validate(); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
    }
    pattern, err := PreparePattern(req.Pattern)
    if err != nil {
        return nil, err
    }

    factor := i.cfg.AttemptsFactor
    if factor <= 0 {
        factor = defaultFactor
    }
    maxAttempts := req.Count * factor
    now := i.now()
    start := time.Now()

    batch := &models.Batch{
        Pattern:   pattern,
        Requested: req.Count,
        Records:   make([]models.Record, 0, req.Count),
        Lines:     make([]string, 0, req.Count),
    }
    invalid := 0
    var lastErr error
    for batch.Generated < req.Count && batch.Attempts < maxAttempts {
        batch.Attempts++
        pan, err := cardgen.Generate(pattern, i.src)
        if err != nil {
            var perr *cardgen.InvalidPatternError
            if errors.As(err, &perr) {
                invalid++
                lastErr = err
                continue
            }
            return nil, fmt.Errorf("generating sequence: %w", err)
        }
        if !cardgen.Verify(pan) {
            continue
        }
        rec := i.newRecord(pan, req, now)
        batch.Records = append(batch.Records, rec)
        batch.Lines = append(batch.Lines, rec.Line())
        batch.Generated++
    }
    batch.Elapsed = time.Since(start)
    if batch.Attempts > 0 {
        batch.SuccessRate = math.Round(float64(batch.Generated)/float64(batch.Attempts)*1000) / 10
    }
    i.metrics.ObserveBatch(batch.Generated, batch.Attempts, invalid, batch.Elapsed)

    if batch.Generated == 0 {
        i.logger.Info("batch produced nothing",
            slog.String("pattern", pattern),
            slog.Int("attempts", batch.Attempts),
            slog.Any("err", lastErr))
        if lastErr != nil {
            return batch, fmt.Errorf("%w: %v", ErrNothingGenerated, lastErr)
        }
        return batch, ErrNothingGenerated
    }

    i.logger.Info("batch generated",
        slog.String("pattern", pattern),
        slog.Int("requested", batch.Requested),
        slog.Int("generated", batch.Generated),
        slog.Int("attempts", batch.Attempts),
        slog.Duration("elapsed", batch.Elapsed))
    return batch, nil
}

func (i *Service) newRecord(pan string, req models.GenerateRequest, now time.Time) models.Record {
    exp := expiry.Random(i.src, now, i.cfg.ExpiryYears)
    if req.Month != "" {
        exp.Month = req.Month
    }
    if req.Year != "" {
        exp.Year = req.Year
    }
    return models.Record{
        Number: pan,
        Month:  exp.Month,
        Year:   exp.Year,
        CVV:    fmt.Sprintf("%03d", 100+i.src.Intn(900)),
    }
}

// Verify checks a sequence after stripping spaces and dashes.
func (i *Service) Verify(number string) bool {
    return cardgen.Verify(cardgen.NormalizePAN(number))
}

// PreparePrefix drops wildcards, requires at least 6 digits and keeps the first 8.
func PreparePrefix(in string) (string, error) {
    p := strings.Map(func(r rune) rune {
        if r == 'x' || r == 'X' {
            return -1
        }
        return r
    }, cardgen.NormalizePAN(in))
    if len(p) < minPrefixLen || !cardgen.IsDigits(p) {
        return "", fmt.Errorf("%w: prefix needs at least %d digits", ErrInvalidInput, minPrefixLen)
    }
    if len(p) > maxPrefixLen {
        p = p[:maxPrefixLen]
    }
    return p, nil
}

// LookupBIN queries the registry. An unavailable registry is reported in the
// result, not as an error.
func (i *Service) LookupBIN(ctx context.Context, in string) (models.LookupResult, error) {
    prefix, err := PreparePrefix(in)
    if err != nil {
        return models.LookupResult{}, err
    }
    res := models.LookupResult{Prefix: prefix}
    if i.lookup == nil {
        i.metrics.ObserveLookup("unavailable")
        return res, nil
    }
    info, err := i.lookup.Lookup(ctx, prefix)
    if err != nil {
        i.logger.Info("bin lookup unavailable", slog.String("prefix", prefix), slog.Any("err", err))
        i.metrics.ObserveLookup("unavailable")
        return res, nil
    }
    i.metrics.ObserveLookup("ok")
    res.Available = true
    res.Info = info
    return res, nil
}

func (i *Service) CreateSession() *Session {
    sess := i.store.Create(i.now())
    i.logger.Info("session created", slog.String("session", sess.ID), slog.Int("sessions", i.store.Len()))
    return sess
}

func (i *Service) DeleteSession(id string) error {
    if err := i.store.Delete(id); err != nil {
        return err
    }
    i.logger.Info("session deleted", slog.String("session", id), slog.Int("sessions", i.store.Len()))
    return nil
}

// SaveLines parses SEQUENCE|MM|YY|CVV lines and appends them to the session.
func (i *Service) SaveLines(sessionID string, lines []string) ([]*models.SavedCard, error) {
    sess, err := i.store.Get(sessionID)
    if err != nil {
        return nil, err
    }
    records := make([]models.Record, 0, len(lines))
    for n, line := range lines {
        rec, err := models.ParseLine(line)
        if err != nil {
            return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, n+1, err)
        }
        records = append(records, rec)
    }
    saved := sess.Save(records, i.now())
    if len(saved) > 0 {
        i.logger.Debug("cards saved",
            slog.String("session", sessionID),
            slog.Int("count", len(saved)),
            slog.String("last", cardgen.MaskPAN(saved[len(saved)-1].Record.Number)))
    }
    return saved, nil
}

// ListSaved returns the last limit saved cards and the session total.
func (i *Service) ListSaved(sessionID string, limit int) ([]*models.SavedCard, int, error) {
    sess, err := i.store.Get(sessionID)
    if err != nil {
        return nil, 0, err
    }
    if limit == 0 {
        limit = i.cfg.SavedListLimit
    }
    return sess.List(limit), sess.Len(), nil
}

func (i *Service) SavedRecords(sessionID string) ([]models.Record, error) {
    sess, err := i.store.Get(sessionID)
    if err != nil {
        return nil, err
    }
    return sess.Records(), nil
}

func (i *Service) ClearSaved(sessionID string) error {
    sess, err := i.store.Get(sessionID)
    if err != nil {
        return err
    }
    sess.Clear()
    return nil
}

func (i *Service) Stats(sessionID string) (models.Stats, error) {
    sess, err := i.store.Get(sessionID)
    if err != nil {
        return models.Stats{}, err
    }
    return sess.Stats(), nil
}

// discardHandler drops every record; it stands in when no logger is given.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
