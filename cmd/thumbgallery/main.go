package main

import (
	"context"
	"flag"
	"fmt"
	"os"
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
	cfg := def
	var configPath, envFile string
	flag.StringVar(&cfg.InputPath, "input", def.InputPath, "Path to the list of share URLs, one per line")
	flag.StringVar(&cfg.OutputPath, "results", def.OutputPath, "Path to the extractor output, one thumbnail URL per line")
	flag.StringVar(&cfg.GalleryPath, "output", def.GalleryPath, "Path to write the HTML gallery")
	flag.StringVar(&cfg.GalleryPDFPath, "pdf", "", "Optional path to write a PDF index of the gallery")
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

	if err := run(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("gallery failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.RunGallery(ctx)
}
