package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "cardgen",
		Usage: "Luhn-valid test sequence generator",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return runServe(ctx, loadConfig(), os.Stderr)
				},
			},
			{
				Name:  "generate",
				Usage: "Generate SEQUENCE|MM|YY|CVV lines from a pattern",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "bin",
						Aliases: []string{"b"},
						Value:   "453900xxxxxxxxxx",
						Usage:   "Pattern of digits and x wildcards",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Value:   10,
						Usage:   "Number of lines to generate (1-1000)",
					},
					&cli.StringFlag{
						Name:  "expiry",
						Usage: "Fixed expiry as MM/YY (random per line when omitted)",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Seed for a reproducible run",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, json, csv or iso8583",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this file, or into this directory with a timestamped name",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts := generateOptions{
						Pattern: cmd.String("bin"),
						Count:   int(cmd.Int("count")),
						Expiry:  cmd.String("expiry"),
						Format:  cmd.String("format"),
						Output:  cmd.String("output"),
					}
					if cmd.IsSet("seed") {
						seed := cmd.Int("seed")
						opts.Seed = &seed
					}
					return runGenerate(loadConfig(), opts, os.Stdout, os.Stderr)
				},
			},
			{
				Name:      "verify",
				Usage:     "Check sequences against the Luhn checksum",
				ArgsUsage: "NUMBER...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runVerify(cmd.Args().Slice(), os.Stdout)
				},
			},
			{
				Name:      "lookup",
				Usage:     "Look up a BIN prefix in the binlist registry",
				ArgsUsage: "PREFIX",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("lookup takes exactly one PREFIX")
					}
					return runLookup(ctx, loadConfig(), cmd.Args().First(), os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
