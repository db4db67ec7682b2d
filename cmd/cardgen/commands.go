package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"github.com/alovak/cardgen-playground/generator"
	"github.com/alovak/cardgen-playground/generator/models"
	"github.com/alovak/cardgen-playground/internal/binlist"
	"github.com/alovak/cardgen-playground/internal/cardgen"
	"github.com/alovak/cardgen-playground/internal/expiry"
	"github.com/alovak/cardgen-playground/internal/export"
)

const shutdownTimeout = 10 * time.Second

var loadConfig = generator.LoadConfig

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServe(ctx context.Context, cfg *generator.Config, logOut io.Writer) error {
	app := generator.NewApp(newLogger(logOut, cfg.LogLevel), cfg)
	if err := app.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.Shutdown(shutdownCtx)
	return nil
}

type generateOptions struct {
	Pattern string
	Count   int
	Expiry  string
	Seed    *int64
	Format  string
	Output  string
	// Now is used for random expiries and output file names; zero means time.Now.
	Now time.Time
}

func runGenerate(cfg *generator.Config, opts generateOptions, stdout, stderr io.Writer) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	req := models.GenerateRequest{Pattern: opts.Pattern, Count: opts.Count}
	if opts.Expiry != "" {
		exp, err := expiry.ParseCardFace(opts.Expiry)
		if err != nil {
			return fmt.Errorf("--expiry: %w", err)
		}
		req.Month, req.Year = exp.Month, exp.Year
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	svcOpts := []generator.Option{
		generator.WithLogger(newLogger(stderr, cfg.LogLevel)),
		generator.WithClock(func() time.Time { return now }),
	}
	if opts.Seed != nil {
		svcOpts = append(svcOpts, generator.WithSource(cardgen.NewSeededSource(*opts.Seed)))
	}
	svc := generator.NewService(generator.NewSessionStore([]byte(cfg.FingerprintKey)), nil, cfg, svcOpts...)

	batch, err := svc.GenerateBatch(req)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		if err := export.Write(stdout, format, batch.Records); err != nil {
			return err
		}
		if format == export.FormatText {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	path := opts.Output
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, export.Filename("cards", format, now))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, format, batch.Records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(stderr, "%d/%d sequences written to %s (%.1f%% success)\n",
		batch.Generated, batch.Requested, path, batch.SuccessRate)
	return f.Close()
}

func runVerify(numbers []string, out io.Writer) error {
	if len(numbers) == 0 {
		return fmt.Errorf("verify needs at least one NUMBER")
	}
	invalid := 0
	for _, n := range numbers {
		status := "valid"
		if !cardgen.Verify(cardgen.NormalizePAN(n)) {
			status = "invalid"
			invalid++
		}
		fmt.Fprintf(out, "%s %s\n", n, status)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d sequences failed the checksum", invalid, len(numbers))
	}
	return nil
}

func runLookup(ctx context.Context, cfg *generator.Config, prefix string, out io.Writer) error {
	client := binlist.New(cfg.BinlistURL, &http.Client{Timeout: cfg.BinlistTimeout})
	svc := generator.NewService(generator.NewSessionStore([]byte(cfg.FingerprintKey)), client, cfg)

	res, err := svc.LookupBIN(ctx, prefix)
	if err != nil {
		return err
	}
	printLookup(out, res)
	return nil
}

func printLookup(out io.Writer, res models.LookupResult) {
	if !res.Available || res.Info == nil {
		fmt.Fprintf(out, "%s: unavailable\n", res.Prefix)
		return
	}
	info := res.Info
	fmt.Fprintf(out, "prefix:  %s\n", res.Prefix)
	fmt.Fprintf(out, "scheme:  %s\n", orDash(info.Scheme))
	fmt.Fprintf(out, "type:    %s\n", orDash(info.Type))
	fmt.Fprintf(out, "brand:   %s\n", orDash(info.Brand))
	if info.Prepaid != nil {
		fmt.Fprintf(out, "prepaid: %t\n", *info.Prepaid)
	}
	if info.Country != nil {
		fmt.Fprintf(out, "country: %s (%s)\n", orDash(info.Country.Name), info.Country.Alpha2)
	}
	if info.Bank != nil {
		fmt.Fprintf(out, "bank:    %s\n", orDash(info.Bank.Name))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
