// Package config holds the run configuration. Every component takes its
// settings from an explicit Config value passed into its constructor; there
// are no process-wide settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved run configuration.
type Config struct {
	// Delimiters.
	FieldDelim string // suite-file field delimiter, default "|"
	MultiDelim string // multi-value axis delimiter, default "~"
	WireDelim  string // wire delimiter, default SOH

	// Field conventions of the wire protocol.
	IDField     string // correlation identifier, default "11"
	TypeField   string // message type selector, default "35"
	ParentField string // parent reference for chained cases, default "41"
	TimeField   string // sending-time stamp, default "52"

	// Retrieval retry budget.
	MaxAttempts int
	RetryDelay  time.Duration

	// Collaborators.
	TransportCommand string // external command handed the encoded message
	RecordLog        string // append-only counterparty log, re-read per attempt

	// Outputs.
	OutputDir string
	Database  string // optional SQLite results database
}

// fileConfig mirrors Config for YAML decoding. RetryDelay is a duration
// string ("300ms", "2s") because yaml.v3 has no native duration type.
type fileConfig struct {
	FieldDelim  string `yaml:"field_delimiter"`
	MultiDelim  string `yaml:"multi_value_delimiter"`
	IDField     string `yaml:"id_field"`
	TypeField   string `yaml:"type_field"`
	ParentField string `yaml:"parent_field"`
	TimeField   string `yaml:"time_field"`

	MaxAttempts int    `yaml:"max_attempts"`
	RetryDelay  string `yaml:"retry_delay"`

	TransportCommand string `yaml:"transport_command"`
	RecordLog        string `yaml:"record_log"`

	OutputDir string `yaml:"output_dir"`
	Database  string `yaml:"database"`
}

// Default returns the configuration matching the wire protocol's
// conventional field numbers and the historical retry budget.
func Default() Config {
	return Config{
		FieldDelim:  "|",
		MultiDelim:  "~",
		WireDelim:   "\x01",
		IDField:     "11",
		TypeField:   "35",
		ParentField: "41",
		TimeField:   "52",
		MaxAttempts: 5,
		RetryDelay:  300 * time.Millisecond,
		OutputDir:   "output",
	}
}

// Load reads a YAML configuration file and overlays it on Default().
// Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	overlayString(&cfg.FieldDelim, fc.FieldDelim)
	overlayString(&cfg.MultiDelim, fc.MultiDelim)
	overlayString(&cfg.IDField, fc.IDField)
	overlayString(&cfg.TypeField, fc.TypeField)
	overlayString(&cfg.ParentField, fc.ParentField)
	overlayString(&cfg.TimeField, fc.TimeField)
	overlayString(&cfg.TransportCommand, fc.TransportCommand)
	overlayString(&cfg.RecordLog, fc.RecordLog)
	overlayString(&cfg.OutputDir, fc.OutputDir)
	overlayString(&cfg.Database, fc.Database)

	if fc.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.MaxAttempts
	}
	if fc.RetryDelay != "" {
		d, err := time.ParseDuration(fc.RetryDelay)
		if err != nil {
			return cfg, fmt.Errorf("parse retry_delay %q: %w", fc.RetryDelay, err)
		}
		cfg.RetryDelay = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c Config) Validate() error {
	if c.FieldDelim == "" || c.MultiDelim == "" || c.WireDelim == "" {
		return fmt.Errorf("config: delimiters must be non-empty")
	}
	if c.FieldDelim == c.MultiDelim {
		return fmt.Errorf("config: field delimiter and multi-value delimiter must differ (both %q)", c.FieldDelim)
	}
	if c.IDField == "" || c.TypeField == "" {
		return fmt.Errorf("config: id_field and type_field are required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("config: retry_delay must not be negative")
	}
	return nil
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
