package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates fields of cfg still at their defaults from
// THUMB_* environment variables. Explicit flags and file values win.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	def := DefaultConfig()

	setString(&cfg.InputPath, def.InputPath, os.Getenv("THUMB_INPUT"))
	setString(&cfg.OutputPath, def.OutputPath, os.Getenv("THUMB_OUTPUT"))
	setString(&cfg.GalleryPath, def.GalleryPath, os.Getenv("THUMB_GALLERY"))
	setString(&cfg.GalleryPDFPath, def.GalleryPDFPath, os.Getenv("THUMB_GALLERY_PDF"))
	setString(&cfg.Placeholder, def.Placeholder, os.Getenv("THUMB_PLACEHOLDER"))
	setString(&cfg.UserAgent, def.UserAgent, os.Getenv("THUMB_USER_AGENT"))

	// Optional durations
	setDuration := func(dst *time.Duration, defVal time.Duration, envKey string) {
		if *dst != defVal {
			return
		}
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if d, err := time.ParseDuration(s); err == nil && d >= 0 {
				*dst = d
			}
		}
	}
	setDuration(&cfg.Delay, def.Delay, "THUMB_DELAY")
	setDuration(&cfg.Timeout, def.Timeout, "THUMB_TIMEOUT")

	if cfg.Workers == def.Workers {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("THUMB_WORKERS"))); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}
