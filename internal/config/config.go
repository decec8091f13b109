// Package config loads the repkit project configuration from
// .repkit/config.json and overlays the override surface exposed to the
// rendering environment through REPKIT_* variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"repkit/internal/policy"
)

// Config represents the complete repkit configuration (v1 schema)
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Mode    string `json:"mode" mapstructure:"mode"`

	ExportDir string `json:"exportDir" mapstructure:"exportDir"`
	CacheDir  string `json:"cacheDir" mapstructure:"cacheDir"`
	Presets   string `json:"presets" mapstructure:"presets"`

	Hints     HintsConfig      `json:"hints" mapstructure:"hints"`
	Overrides policy.Overrides `json:"overrides" mapstructure:"overrides"`
	Logging   LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// HintsConfig contains chunk-level rendering defaults. Zero values mean
// "unset" and fall through to package defaults at export time.
type HintsConfig struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
	DPI    int     `json:"dpi" mapstructure:"dpi"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		Mode:      policy.ModeAnalysis,
		ExportDir: "outputs",
		CacheDir:  filepath.Join(".repkit", "cache"),
		Presets:   filepath.Join(".repkit", "modes.yaml"),
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.repkit/config.json and then
// applies REPKIT_* environment overrides. A missing config file yields the
// defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("mode", policy.ModeAnalysis)
	v.SetDefault("exportDir", "outputs")
	v.SetDefault("cacheDir", filepath.Join(".repkit", "cache"))
	v.SetDefault("presets", filepath.Join(".repkit", "modes.yaml"))
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".repkit"))

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		cfg = *DefaultConfig()
	} else {
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays the sparse override surface the rendering environment
// exposes. Absent variables inherit the file/preset values; malformed
// booleans are fatal configuration errors.
func applyEnv(cfg *Config) error {
	if mode := os.Getenv("REPKIT_MODE"); mode != "" {
		cfg.Mode = mode
	}

	fields := []struct {
		env string
		dst **bool
	}{
		{"REPKIT_OUTPUTS", &cfg.Overrides.Outputs},
		{"REPKIT_PROMPT", &cfg.Overrides.Prompt},
		{"REPKIT_OVERWRITE", &cfg.Overrides.Overwrite},
		{"REPKIT_BACKUP", &cfg.Overrides.Backup},
		{"REPKIT_COMPARE", &cfg.Overrides.Compare},
	}

	for _, f := range fields {
		raw := os.Getenv(f.env)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return &ConfigError{
				Field:   f.env,
				Message: fmt.Sprintf("invalid boolean %q (expected true or false)", raw),
			}
		}
		*f.dst = &val
	}
	return nil
}

// Save writes the configuration to <root>/.repkit/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".repkit")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if strings.TrimSpace(c.Mode) == "" {
		return &ConfigError{Field: "mode", Message: "mode must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
