package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/thumbgallery/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	def := app.DefaultConfig()
	var (
		cfg        app.Config
		configPath string
		envFile    string
	)
	flag.StringVar(&cfg.InputPath, "input", def.InputPath, "Path to the list of share URLs, one per line")
	flag.StringVar(&cfg.OutputPath, "output", def.OutputPath, "Path to write thumbnail URLs, one per input line")
	flag.StringVar(&cfg.Placeholder, "placeholder", def.Placeholder, "Value written when no thumbnail is found")
	flag.StringVar(&cfg.UserAgent, "ua", def.UserAgent, "User-Agent sent with page requests")
	flag.DurationVar(&cfg.Timeout, "timeout", def.Timeout, "Per-request timeout")
	flag.DurationVar(&cfg.Delay, "delay", def.Delay, "Minimum spacing between page requests")
	flag.IntVar(&cfg.Workers, "workers", def.Workers, "Number of pages fetched in parallel; output order is preserved")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", os.Getenv("THUMB_CONFIG"), "Optional YAML or JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Optional dotenv file")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("env", envFile).Msg("dotenv not loaded")
	}
	if err := app.Resolve(&cfg, configPath); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: per-URL failures are warnings; only a missing or
		// unreadable input, or an unwritable output, is fatal.
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
