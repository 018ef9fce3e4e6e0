// Package config loads the edit server configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, for example
// MAPFIELD_SERVER_ADDR for server.addr.
const EnvPrefix = "MAPFIELD"

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Field    FieldConfig    `mapstructure:"field"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	AssetsPath string `mapstructure:"assets_path"`
}

// FieldConfig describes the location field mounted on every record.
type FieldConfig struct {
	OptionsFile string `mapstructure:"options_file"`
	RecordType  string `mapstructure:"record_type"`
	Title       string `mapstructure:"title"`
}

// DatabaseConfig selects the Postgres record store. An empty DSN keeps
// records in memory.
type DatabaseConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An explicit
// file must exist; otherwise config.yaml is looked up in the working
// directory and ./configs and may be absent.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.assets_path", "/assets")
	v.SetDefault("field.options_file", "")
	v.SetDefault("field.record_type", "Place")
	v.SetDefault("field.title", "Location")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", "places")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if strings.TrimSpace(c.Field.RecordType) == "" {
		errs = append(errs, "field.record_type is required")
	}
	if c.Database.DSN != "" && strings.TrimSpace(c.Database.Table) == "" {
		errs = append(errs, "database.table is required when database.dsn is set")
	}
	if _, err := c.Log.ZerologLevel(); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ZerologLevel parses Level, defaulting to info when blank.
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
}
