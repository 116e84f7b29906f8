package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"heimdall/internal/config"
	"heimdall/internal/feed"
	"heimdall/internal/report"
	"heimdall/internal/surveillance"
	"heimdall/internal/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	input := flag.String("input", "", "Path to the trades/orders document (compulsory)")
	workers := flag.Int("workers", 0, "Trades scanned concurrently (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	pretty := flag.Bool("pretty", false, "Human readable log output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Scan.Workers = *workers
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Log.Pretty = cfg.Log.Pretty || *pretty

	log.Logger = utils.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	if err := run(ctx, cfg, *input, os.Stdout); err != nil {
		log.Error().Err(err).Msg("scan failed")
		os.Exit(1)
	}
}

// run loads the records, scans them and writes one line per flag to out.
func run(ctx context.Context, cfg *config.Config, input string, out io.Writer) error {
	batch, err := feed.Load(input)
	if err != nil {
		return err
	}

	runID := report.NewRunID()
	logger := log.With().Str("run", runID.String()).Logger()
	logger.Info().
		Int("trades", len(batch.Trades)).
		Int("orders", len(batch.Orders)).
		Dur("window", cfg.Scan.Window).
		Str("band", cfg.Scan.Band.String()).
		Int("workers", cfg.Scan.Workers).
		Msg("analyzing trades and orders for suspicious activity")

	scanner := surveillance.New(cfg.ScanOptions())
	scanner.SetReporter(surveillance.NewLogReporter(logger))

	flags, err := scanner.ScanContext(ctx, batch.Trades, batch.Orders)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	rep := report.Build(runID, flags)
	rep.Log(logger)
	for _, f := range rep.Flags {
		if _, err := fmt.Fprintln(out, f.String()); err != nil {
			return fmt.Errorf("write flag: %w", err)
		}
	}
	return nil
}
