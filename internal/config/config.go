// Package config loads the calculator settings from config.yaml, the
// environment (INTEGRALCALC_ prefix) and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/logging"
	"github.com/njchilds90/integralcalc/internal/plot"
)

type Config struct {
	History HistoryConfig  `yaml:"history" mapstructure:"history"`
	Export  ExportConfig   `yaml:"export" mapstructure:"export"`
	Plot    plot.Config    `yaml:"plot" mapstructure:"plot"`
	Log     logging.Config `yaml:"log" mapstructure:"log"`
	Server  ServerConfig   `yaml:"server" mapstructure:"server"`
}

type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	// Format is "text" (human-readable) or "strict" (YAML with typed values).
	Format string `yaml:"format" mapstructure:"format"`
}

// ExportConfig holds the file names offered by the export prompts.
type ExportConfig struct {
	PDF  string `yaml:"pdf" mapstructure:"pdf"`
	XLSX string `yaml:"xlsx" mapstructure:"xlsx"`
	Plot string `yaml:"plot" mapstructure:"plot"`
}

type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{Path: "history.txt", Format: "text"},
		Export: ExportConfig{
			PDF:  "reporte_integrales.pdf",
			XLSX: "historial.xlsx",
			Plot: "grafica_integral.png",
		},
		Plot:   plot.DefaultConfig(),
		Log:    logging.Config{Level: "info"},
		Server: ServerConfig{Port: 8080},
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.format", cfg.History.Format)
	v.SetDefault("export.pdf", cfg.Export.PDF)
	v.SetDefault("export.xlsx", cfg.Export.XLSX)
	v.SetDefault("export.plot", cfg.Export.Plot)
	v.SetDefault("plot.width", cfg.Plot.Width)
	v.SetDefault("plot.height", cfg.Plot.Height)
	v.SetDefault("plot.dpi", cfg.Plot.DPI)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.console", cfg.Log.Console)
	v.SetDefault("server.port", cfg.Server.Port)
}

// Load reads path when given; otherwise it looks for config.yaml in the
// working directory and the user config directory, and a missing file
// means defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "integralcalc"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "integralcalc"))
		}
	}

	v.SetEnvPrefix("INTEGRALCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("config: history.path is required")
	}
	if _, err := history.CodecFor(c.History.Format); err != nil {
		return fmt.Errorf("config: history.format: %w", err)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("config: plot.width and plot.height must be positive")
	}
	if c.Plot.DPI < 1 {
		return fmt.Errorf("config: plot.dpi must be positive")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Codec is the history codec selected by History.Format.
func (c *Config) Codec() history.Codec {
	codec, err := history.CodecFor(c.History.Format)
	if err != nil {
		return history.TextCodec{}
	}
	return codec
}
