package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/topicalguide/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Topical Guide - Web Server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runServer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultDBPath := filepath.Join(home, ".local", "share", "topicalguide", "state.duckdb")

	v := viper.New()
	v.SetEnvPrefix("TOPICALGUIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("feed-url", model.DefaultFeedURL)
	v.SetDefault("feed-timeout", model.DefaultFeedTimeout)
	v.SetDefault("feed-cache-size", model.DefaultFeedCacheSize)
	v.SetDefault("feed-cache-ttl", model.DefaultFeedCacheTTL)
	v.SetDefault("host", defaultBindHost)
	v.SetDefault("http-port", defaultHTTPPort)
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("state-retention-days", defaultStateRetention)
	v.SetDefault("render-timeout", model.DefaultRenderTimeout)
	v.SetDefault("session-ttl", model.DefaultSessionTTL)
	v.SetDefault("max-sessions", model.DefaultMaxSessions)

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
	cfg.ConfigPath = v.ConfigFileUsed()
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return cfg, fmt.Errorf("invalid http-port: %d", cfg.HTTPPort)
	}
	if u, err := url.Parse(cfg.FeedURL); err != nil || u.Scheme == "" || u.Host == "" {
		return cfg, fmt.Errorf("invalid feed-url: %q", cfg.FeedURL)
	}

	// Expand ~ in db-path
	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.HTTPPort))
	}

	return cfg, nil
}
