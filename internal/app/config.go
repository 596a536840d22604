package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/thumbgallery/internal/fetch"
)

// Defaults reproduce the fixed file names and timings of the batch scripts.
const (
	DefaultInputPath   = "input.txt"
	DefaultOutputPath  = "output.txt"
	DefaultGalleryPath = "gallery.html"
	DefaultPlaceholder = "no-thumbnail.com"
	DefaultDelay       = 1 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultWorkers     = 1
)

// Config holds runtime configuration for the application.
type Config struct {
	InputPath      string
	OutputPath     string
	GalleryPath    string
	GalleryPDFPath string

	// Placeholder is written for requests without a thumbnail.
	Placeholder string

	// HTTP
	UserAgent string
	Timeout   time.Duration
	// Delay spaces consecutive page fetches.
	Delay time.Duration

	// Workers > 1 fetches in parallel; output order is unchanged.
	Workers int
	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		InputPath:   DefaultInputPath,
		OutputPath:  DefaultOutputPath,
		GalleryPath: DefaultGalleryPath,
		Placeholder: DefaultPlaceholder,
		UserAgent:   fetch.MobileSafariUA,
		Timeout:     DefaultTimeout,
		Delay:       DefaultDelay,
		Workers:     DefaultWorkers,
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if strings.TrimSpace(cfg.Placeholder) == "" {
		return errors.New("config: placeholder must not be empty")
	}
	if cfg.Delay < 0 || cfg.Timeout < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.Workers < 1 {
		return errors.New("config: workers must be at least 1")
	}
	return nil
}

// Resolve layers an optional config file and the environment under the values
// already in cfg (normally parsed flags), then validates the result.
func Resolve(cfg *Config, configPath string) error {
	if strings.TrimSpace(configPath) != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ApplyFileConfig(cfg, fc)
	}
	ApplyEnvToConfig(cfg)
	return ValidateConfig(*cfg)
}
