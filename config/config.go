package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. DEBTBOOK_STORAGE_PATH.
const EnvPrefix = "DEBTBOOK"

// Config represents the complete debtbook configuration
type Config struct {
	Storage  StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
	Autosave AutosaveConfig `json:"autosave" yaml:"autosave" mapstructure:"autosave"`
	Display  DisplayConfig  `json:"display" yaml:"display" mapstructure:"display"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// StorageConfig locates the SQLite key-value file and the two keys the
// ledger is mirrored under.
type StorageConfig struct {
	Path         string `json:"path" yaml:"path" mapstructure:"path"`
	RecordsKey   string `json:"records_key" yaml:"records_key" mapstructure:"records_key"`
	TimestampKey string `json:"timestamp_key" yaml:"timestamp_key" mapstructure:"timestamp_key"`
}

// AutosaveConfig holds the mirror's timings as duration strings ("1s", "30s").
type AutosaveConfig struct {
	Debounce  string `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
	Interval  string `json:"interval" yaml:"interval" mapstructure:"interval"`
	Indicator string `json:"indicator" yaml:"indicator" mapstructure:"indicator"`
}

// DebounceDuration parses Debounce.
func (a AutosaveConfig) DebounceDuration() (time.Duration, error) {
	return parseDuration("autosave.debounce", a.Debounce)
}

// IntervalDuration parses Interval.
func (a AutosaveConfig) IntervalDuration() (time.Duration, error) {
	return parseDuration("autosave.interval", a.Interval)
}

// IndicatorDuration parses Indicator.
func (a AutosaveConfig) IndicatorDuration() (time.Duration, error) {
	return parseDuration("autosave.indicator", a.Indicator)
}

// DisplayConfig controls how amounts and lists are shown.
type DisplayConfig struct {
	Currency string `json:"currency" yaml:"currency" mapstructure:"currency"`
	Pretty   bool   `json:"pretty" yaml:"pretty" mapstructure:"pretty"`
	Style    string `json:"style" yaml:"style" mapstructure:"style"` // glamour style or "auto"
}

// ServerConfig contains HTTP host parameters
type ServerConfig struct {
	Addr            string `json:"addr" yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout string `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	Mode            string `json:"mode" yaml:"mode" mapstructure:"mode"` // gin mode: debug, release, test
}

// ShutdownDuration parses ShutdownTimeout.
func (s ServerConfig) ShutdownDuration() (time.Duration, error) {
	return parseDuration("server.shutdown_timeout", s.ShutdownTimeout)
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "text" or "json"
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Missing sections keep their defaults.
	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Load layers defaults, the optional file at path and DEBTBOOK_*
// environment variables, then validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.records_key", d.Storage.RecordsKey)
	v.SetDefault("storage.timestamp_key", d.Storage.TimestampKey)

	v.SetDefault("autosave.debounce", d.Autosave.Debounce)
	v.SetDefault("autosave.interval", d.Autosave.Interval)
	v.SetDefault("autosave.indicator", d.Autosave.Indicator)

	v.SetDefault("display.currency", d.Display.Currency)
	v.SetDefault("display.pretty", d.Display.Pretty)
	v.SetDefault("display.style", d.Display.Style)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.mode", d.Server.Mode)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Storage.RecordsKey == "" || c.Storage.TimestampKey == "" {
		return fmt.Errorf("storage.records_key and storage.timestamp_key are required")
	}
	if c.Storage.RecordsKey == c.Storage.TimestampKey {
		return fmt.Errorf("storage.records_key and storage.timestamp_key must differ")
	}
	for _, fn := range []func() (time.Duration, error){
		c.Autosave.DebounceDuration,
		c.Autosave.IntervalDuration,
		c.Autosave.IndicatorDuration,
		c.Server.ShutdownDuration,
	} {
		if _, err := fn(); err != nil {
			return err
		}
	}
	if money.GetCurrency(strings.ToUpper(c.Display.Currency)) == nil {
		return fmt.Errorf("unknown currency: %s", c.Display.Currency)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be 'debug', 'release' or 'test'")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:         "./debtbook.sqlite",
			RecordsKey:   "dzair-debtors",
			TimestampKey: "dzair-debtors-timestamp",
		},
		Autosave: AutosaveConfig{
			Debounce:  "1s",
			Interval:  "30s",
			Indicator: "2s",
		},
		Display: DisplayConfig{
			Currency: "DZD",
			Style:    "auto",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
			Mode:            "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
