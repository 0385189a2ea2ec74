package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/insightdelivered/statement-insights/internal/categorizer"
)

// EnvPrefix prefixes environment overrides, e.g. FINSIGHT_SERVER_PORT.
const EnvPrefix = "FINSIGHT"

// Config represents the application configuration
type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Log        LogConfig      `mapstructure:"log"`
	Parse      ParseConfig    `mapstructure:"parse"`
	Categories []CategoryRule `mapstructure:"categories"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format"`
}

// ParseConfig tunes the parsing pipeline.
type ParseConfig struct {
	// Amounts must lie strictly between MinAmount and MaxAmount.
	MinAmount         float64  `mapstructure:"min_amount"`
	MaxAmount         float64  `mapstructure:"max_amount"`
	Workers           int      `mapstructure:"workers"`
	CurrencySymbols   []string `mapstructure:"currency_symbols"`
	DescriptionLabels []string `mapstructure:"description_labels"`
}

// CategoryRule is one ordered entry of the keyword table.
type CategoryRule struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("parse.min_amount", 0)
	v.SetDefault("parse.max_amount", 1e9)
	v.SetDefault("parse.workers", 1)
	v.SetDefault("parse.currency_symbols", []string{"₹"})
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults alone always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// LoadConfig loads configuration from an optional TOML file and
// FINSIGHT_-prefixed environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Parse.MinAmount < 0 {
		return fmt.Errorf("parse.min_amount must not be negative, got %v", c.Parse.MinAmount)
	}
	if c.Parse.MaxAmount <= c.Parse.MinAmount {
		return fmt.Errorf("parse.max_amount (%v) must exceed parse.min_amount (%v)", c.Parse.MaxAmount, c.Parse.MinAmount)
	}
	if f := c.Log.Format; f != "console" && f != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", f)
	}
	if c.Parse.Workers < 1 {
		return fmt.Errorf("parse.workers must be at least 1, got %d", c.Parse.Workers)
	}
	for i, rule := range c.Categories {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
	}
	return nil
}

// CategoryTable returns the configured keyword table in declaration order,
// or the built-in table when none is configured.
func (c *Config) CategoryTable() []categorizer.Category {
	if len(c.Categories) == 0 {
		return categorizer.DefaultTable()
	}
	table := make([]categorizer.Category, 0, len(c.Categories))
	for _, rule := range c.Categories {
		table = append(table, categorizer.Category{Name: rule.Name, Keywords: rule.Keywords})
	}
	return table
}
