package config

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/report"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. PDFACHECK_LEVEL.
	EnvPrefix = "PDFACHECK"

	DefaultLevel    = "2b"
	DefaultFormat   = report.FormatText
	DefaultLogLevel = "warn"
)

// ErrHelp is returned when usage was requested.
var ErrHelp = pflag.ErrHelp

// Config holds the settings of a pdfacheck run.
type Config struct {
	Level      string
	Format     string
	Output     string // report file, stdout when empty
	FailFast   bool
	Enforce    bool // repair the model before validating
	Password   string
	Payloads   bool // inspect embedded files for PDF/A-2 payload rules
	UA         bool // also run the PDF/UA-1 accessibility checks
	LogLevel   string
	LogJSON    bool
	ConfigFile string
	Files      []string
}

// DefaultConfig returns a configuration with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Level:    DefaultLevel,
		Format:   DefaultFormat,
		Payloads: true,
		LogLevel: DefaultLogLevel,
	}
}

// Load parses args, then fills unset values from PDFACHECK_* environment
// variables and the optional config file, in that order of precedence.
func Load(args []string, stderr io.Writer) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setupViper(v, cfg)

	fs := pflag.NewFlagSet("pdfacheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	defineFlags(fs, cfg)
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	populate(v, cfg)
	cfg.Files = fs.Args()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("level", cfg.Level)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("payloads", cfg.Payloads)
	v.SetDefault("log-level", cfg.LogLevel)
}

func defineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("level", "l", cfg.Level, "PDF/A level: 1a, 1b, 2a, 2b, 2u, 3a, 3b, 3u, 4, 4e, 4f")
	fs.StringP("format", "f", cfg.Format, "Report format: "+strings.Join(report.Formats, ", "))
	fs.StringP("output", "o", "", "Write the report to this file instead of stdout")
	fs.Bool("fail-fast", false, "Stop at the first violation")
	fs.Bool("enforce", false, "Repair what can be repaired before validating")
	fs.String("password", "", "Password for encrypted files")
	fs.Bool("payloads", cfg.Payloads, "Parse embedded PDF files to check they are PDF/A")
	fs.Bool("ua", false, "Also check PDF/UA-1 accessibility requirements")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("log-json", false, "Log as JSON")
	fs.StringP("config", "c", "", "Config file (YAML, TOML or JSON)")
}

func usage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: pdfacheck [options] file.pdf...\n\n")
	fmt.Fprintf(w, "Checks PDF files against a PDF/A conformance level.\n\nOptions:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	fmt.Fprintf(w, "  %s_LEVEL       Conformance level\n", EnvPrefix)
	fmt.Fprintf(w, "  %s_FORMAT      Report format\n", EnvPrefix)
	fmt.Fprintf(w, "  %s_PASSWORD    Password for encrypted files\n", EnvPrefix)
	fmt.Fprintf(w, "  %s_LOG_LEVEL   Log level\n", EnvPrefix)
}

func populate(v *viper.Viper, cfg *Config) {
	cfg.Level = v.GetString("level")
	cfg.Format = v.GetString("format")
	cfg.Output = v.GetString("output")
	cfg.FailFast = v.GetBool("fail-fast")
	cfg.Enforce = v.GetBool("enforce")
	cfg.Password = v.GetString("password")
	cfg.Payloads = v.GetBool("payloads")
	cfg.UA = v.GetBool("ua")
	cfg.LogLevel = v.GetString("log-level")
	cfg.LogJSON = v.GetBool("log-json")
	cfg.ConfigFile = v.GetString("config")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := c.ParsedLevel(); err != nil {
		return err
	}
	if !slices.Contains(report.Formats, c.Format) {
		return fmt.Errorf("invalid format: %s (must be one of: %s)", c.Format, strings.Join(report.Formats, ", "))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if len(c.Files) == 0 {
		return errors.New("no input files")
	}
	return nil
}

// ParsedLevel returns the configured conformance level.
func (c *Config) ParsedLevel() (pdfa.Level, error) {
	return pdfa.ParseLevel(c.Level)
}
