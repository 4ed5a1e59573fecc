package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jumanpp/internal/domain"
)

// Config holds all configuration for the tokenizer client.
type Config struct {
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Filter    FilterConfig    `yaml:"filter"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnalyzerConfig selects the analyzer transport. Setting Server switches
// from the local process to the socket transport.
type AnalyzerConfig struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Timeout     int      `yaml:"timeout"` // seconds per sentence, process transport
	Pattern     string   `yaml:"pattern"` // terminator regexp
	Server      string   `yaml:"server"`
	Port        int      `yaml:"port"`
	Option      string   `yaml:"option"`       // sent once after connecting
	ReadTimeout int      `yaml:"read_timeout"` // seconds per query, 0 = block until terminator
}

// NormalizeConfig controls text normalization before analysis.
type NormalizeConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DictionaryMode string `yaml:"dictionary_mode"` // "ipadic", "neologd", "none"
}

// FilterConfig holds the default POS allow-list and stopwords.
type FilterConfig struct {
	POS       [][]string `yaml:"pos"`
	Stopwords []string   `yaml:"stopwords"`
}

// CorpusConfig selects corpus files for batch tokenization.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// OutputConfig controls the token record shape.
type OutputConfig struct {
	Surface bool `yaml:"surface"`
	Feature bool `yaml:"feature"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Command: "jumanpp",
			Timeout: 30,
			Pattern: "EOS",
			Port:    12000,
		},
		Normalize: NormalizeConfig{
			Enabled:        true,
			DictionaryMode: "ipadic",
		},
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt"},
			Excludes: []string{"**/.git/**", "**/.jumanpp/**"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for jumanpp.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "jumanpp.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".jumanpp", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports values that leave the analyzer in no usable state.
func (c *Config) Validate() error {
	a := c.Analyzer
	if a.Server == "" && strings.TrimSpace(a.Command) == "" {
		return fmt.Errorf("%w: analyzer.command or analyzer.server must be set", domain.ErrNotConfigured)
	}
	if a.Server != "" && (a.Port <= 0 || a.Port > 65535) {
		return fmt.Errorf("%w: analyzer.port %d out of range", domain.ErrNotConfigured, a.Port)
	}
	if a.Timeout < 0 || a.ReadTimeout < 0 {
		return fmt.Errorf("%w: analyzer timeouts must not be negative", domain.ErrNotConfigured)
	}
	if _, err := regexp.Compile(a.Pattern); err != nil {
		return fmt.Errorf("%w: analyzer.pattern: %v", domain.ErrNotConfigured, err)
	}
	switch strings.ToLower(c.Normalize.DictionaryMode) {
	case "", "ipadic", "neologd", "none":
	default:
		return fmt.Errorf("%w: unknown normalize.dictionary_mode %q", domain.ErrNotConfigured, c.Normalize.DictionaryMode)
	}
	return nil
}

// TimeoutDuration returns the per-sentence process timeout.
func (a AnalyzerConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// ReadTimeoutDuration returns the per-query socket timeout.
func (a AnalyzerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(a.ReadTimeout) * time.Second
}

// POSConditions converts the configured POS paths.
func (f FilterConfig) POSConditions() []domain.POSCondition {
	out := make([]domain.POSCondition, 0, len(f.POS))
	for _, p := range f.POS {
		out = append(out, domain.POSCondition(p))
	}
	return out
}
