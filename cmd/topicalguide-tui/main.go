package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/topicalguide/internal/duckdb"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/tui"
	"github.com/tinytelemetry/topicalguide/internal/views"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var feedURL string
	var memory bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/topicalguide/config.yml)")
	flag.StringVar(&feedURL, "feed", "", "override the feed backend URL")
	flag.BoolVar(&memory, "memory", false, "keep favorites in memory only")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Topical Guide - Terminal Browser\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if feedURL != "" {
		cfg.FeedURL = feedURL
	}
	if memory {
		cfg.DBPath = ""
	}

	// The first argument, when given, is the fragment to open.
	start := ""
	if flag.NArg() > 0 {
		start = flag.Arg(0)
		if !strings.HasPrefix(start, "#") {
			start = "#/" + strings.TrimPrefix(start, "/")
		}
	}

	if err := runTUI(cfg, start); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig, start string) error {
	cleanupLogger := configureLogger()
	defer cleanupLogger()

	client, err := feed.NewClient(cfg.FeedURL, feed.Options{
		Timeout:   cfg.FeedTimeout,
		CacheSize: cfg.FeedCacheSize,
		CacheTTL:  cfg.FeedCacheTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create feed client: %w", err)
	}

	reg, err := views.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to register views: %w", err)
	}

	var kv model.KVStore = state.NewMemoryStore()
	if cfg.DBPath != "" {
		store, err := duckdb.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open client state at %s: %w", cfg.DBPath, err)
		}
		defer store.Close()
		kv = store.Session(cfg.Session)
	}
	state.ClearSettings(kv)

	sh, err := shell.New(views.ShellOptions(reg, client, kv))
	if err != nil {
		return err
	}
	defer sh.Close()

	browser := tui.New(sh, tui.Options{Start: start, RenderTimeout: cfg.RenderTimeout})
	p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// configureLogger sends log output to a file so it cannot corrupt the
// alternate screen.
func configureLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	logDir := filepath.Join(home, ".local", "state", "topicalguide")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(logDir, "topicalguide-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }
}
