package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Input       string `yaml:"input" json:"input"`
	Output      string `yaml:"output" json:"output"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`

	Gallery struct {
		HTML string `yaml:"html" json:"html"`
		PDF  string `yaml:"pdf" json:"pdf"`
	} `yaml:"gallery" json:"gallery"`

	HTTP struct {
		UserAgent string   `yaml:"userAgent" json:"userAgent"`
		Timeout   Duration `yaml:"timeout" json:"timeout"`
		Delay     Duration `yaml:"delay" json:"delay"`
	} `yaml:"http" json:"http"`

	Workers int  `yaml:"workers" json:"workers"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// Duration accepts Go duration strings ("1500ms", "2s") in YAML and JSON.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that still hold
// their defaults, so explicit flags keep precedence over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	def := DefaultConfig()

	setString(&cfg.InputPath, def.InputPath, fc.Input)
	setString(&cfg.OutputPath, def.OutputPath, fc.Output)
	setString(&cfg.Placeholder, def.Placeholder, fc.Placeholder)
	setString(&cfg.GalleryPath, def.GalleryPath, fc.Gallery.HTML)
	setString(&cfg.GalleryPDFPath, def.GalleryPDFPath, fc.Gallery.PDF)
	setString(&cfg.UserAgent, def.UserAgent, fc.HTTP.UserAgent)

	if cfg.Timeout == def.Timeout && fc.HTTP.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.HTTP.Timeout)
	}
	if cfg.Delay == def.Delay && fc.HTTP.Delay > 0 {
		cfg.Delay = time.Duration(fc.HTTP.Delay)
	}
	if cfg.Workers == def.Workers && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

func setString(dst *string, def, v string) {
	if (*dst == "" || *dst == def) && v != "" {
		*dst = v
	}
}
