package main

import (
	"time"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

const (
	defaultBindHost       = "127.0.0.1"
	defaultHTTPPort       = model.DefaultHTTPPort
	defaultQueryTimeout   = 30 * time.Second
	defaultStateRetention = 30 // days, 0 = disabled
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	FeedURL            string        `mapstructure:"feed-url"`
	FeedTimeout        time.Duration `mapstructure:"feed-timeout"`
	FeedCacheSize      int           `mapstructure:"feed-cache-size"`
	FeedCacheTTL       time.Duration `mapstructure:"feed-cache-ttl"`
	Host               string        `mapstructure:"host"`
	HTTPPort           int           `mapstructure:"http-port"`
	HTTPAddr           string        `mapstructure:"http-addr"`
	DBPath             string        `mapstructure:"db-path"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
	StateRetentionDays int           `mapstructure:"state-retention-days"`
	RenderTimeout      time.Duration `mapstructure:"render-timeout"`
	SessionTTL         time.Duration `mapstructure:"session-ttl"`
	MaxSessions        int           `mapstructure:"max-sessions"`
	ConfigPath         string        `mapstructure:"-"` // not from config file
}
