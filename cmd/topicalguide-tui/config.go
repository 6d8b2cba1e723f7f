package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	FeedURL       string        `mapstructure:"feed-url"`
	FeedTimeout   time.Duration `mapstructure:"feed-timeout"`
	FeedCacheSize int           `mapstructure:"feed-cache-size"`
	FeedCacheTTL  time.Duration `mapstructure:"feed-cache-ttl"`
	DBPath        string        `mapstructure:"db-path"`
	RenderTimeout time.Duration `mapstructure:"render-timeout"`
	Session       string        `mapstructure:"tui-session"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TOPICALGUIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("feed-url", model.DefaultFeedURL)
	v.SetDefault("feed-timeout", model.DefaultFeedTimeout)
	v.SetDefault("feed-cache-size", model.DefaultFeedCacheSize)
	v.SetDefault("feed-cache-ttl", model.DefaultFeedCacheTTL)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "topicalguide", "state.duckdb"))
	v.SetDefault("render-timeout", model.DefaultRenderTimeout)
	v.SetDefault("tui-session", "terminal")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "topicalguide", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}
	return cfg, nil
}
