package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = ".secnum.yaml"

// Config represents the application configuration.
type Config struct {
	Numbering NumberingConfig `yaml:"numbering"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Files     FilesConfig     `yaml:"files"`
}

// NumberingConfig holds the numbering policy.
type NumberingConfig struct {
	MaxDepth     int    `yaml:"max_depth,omitempty"`
	ChapterLabel string `yaml:"chapter_label,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the run's metrics in Prometheus text
	// format (node exporter textfile collector).
	Textfile string `yaml:"textfile,omitempty"`
}

// FilesConfig controls standalone file numbering.
type FilesConfig struct {
	// Fingerprint refreshes the content fingerprint in frontmatter after
	// a file is numbered.
	Fingerprint bool `yaml:"fingerprint,omitempty"`
	// StartKey is the frontmatter field holding a file's starting number.
	StartKey string `yaml:"start_key,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path.
//
// A missing file is not an error when optional is true; defaults are
// returned instead. Environment variables (including those from .env files)
// are expanded in the YAML before it is parsed.
func Load(path string, optional bool) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI flag.
	if err != nil {
		if os.IsNotExist(err) && optional {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Numbering.MaxDepth == 0 {
		cfg.Numbering.MaxDepth = numbering.DefaultMaxDepth
	}
	if cfg.Numbering.ChapterLabel == "" {
		cfg.Numbering.ChapterLabel = numbering.DefaultChapterLabel
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	if cfg.Files.StartKey == "" {
		cfg.Files.StartKey = "section_number"
	}
}

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if err := cfg.NumberingOptions().Validate(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid numbering configuration").
			WithContext("max_depth", cfg.Numbering.MaxDepth).
			Build()
	}
	if _, err := logLevelNormalizer.NormalizeWithError(cfg.Logging.Level); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging configuration").Build()
	}
	if _, err := logFormatNormalizer.NormalizeWithError(cfg.Logging.Format); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging configuration").Build()
	}
	return nil
}

// NumberingOptions converts the numbering section to engine options.
func (c *Config) NumberingOptions() numbering.Options {
	return numbering.Options{
		MaxDepth:     c.Numbering.MaxDepth,
		ChapterLabel: c.Numbering.ChapterLabel,
	}
}

// Init writes a configuration file with every default spelled out.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// loadEnvFiles loads the first of .env and .env.local that exists.
// Variables already present in the environment are not overwritten.
func loadEnvFiles() error {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		slog.Debug("Loaded environment variables", "file", p)
		return nil
	}
	return fmt.Errorf("no .env file found")
}
