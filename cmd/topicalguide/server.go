package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/topicalguide/internal/duckdb"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/httpserver"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/views"
)

// runServer serves Topical Guide pages until interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
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

	// Initialize DuckDB store for favorites and view settings
	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	// View settings live for one page; whatever a previous run left is stale.
	if n, err := store.DeletePrefixAll(model.SettingsKeyPrefix); err != nil {
		log.Printf("server: clearing stale settings: %v", err)
	} else if n > 0 {
		log.Printf("server: cleared %d stale settings", n)
	}

	// Start retention cleaner for idle session state
	retentionCleaner := duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		RetentionDays: cfg.StateRetentionDays,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	web := httpserver.NewServer(httpserver.Options{
		Addr:     cfg.HTTPAddr,
		Registry: reg,
		Feed:     client,
		Shell: func(kv model.KVStore) shell.Options {
			return views.ShellOptions(reg, client, kv)
		},
		State: func(id string) model.KVStore {
			return store.Session(id)
		},
		RenderTimeout: cfg.RenderTimeout,
		SessionTTL:    cfg.SessionTTL,
		MaxSessions:   cfg.MaxSessions,
	})
	if err := web.Start(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	defer web.Stop()

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg)

	g, gctx := errgroup.WithContext(ctx)

	// Feed reachability is reported, not required; pages show the error.
	g.Go(func() error {
		checkCtx, checkCancel := context.WithTimeout(gctx, cfg.FeedTimeout)
		defer checkCancel()
		if _, err := client.Get(checkCtx, feed.CatalogQuery()); err != nil {
			log.Printf("server: feed backend %s not reachable: %v", cfg.FeedURL, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	signal.Stop(sigCh)
	return nil
}

func configureRuntimeLogger() func() {
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

	logPath := filepath.Join(logDir, "topicalguide.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╦╗╔═╗╔═╗╦╔═╗╔═╗╦    ╔═╗╦ ╦╦╔╦╗╔═╗
     ║ ║ ║╠═╝║║  ╠═╣║    ║ ╦║ ║║ ║║║╣
     ╩ ╚═╝╩  ╩╚═╝╩ ╩╩═╝  ╚═╝╚═╝╩═╩╝╚═╝`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Web            %s", check, cyan.Render("http://"+cfg.HTTPAddr+"/")))
	lines = append(lines, fmt.Sprintf("    %s  Feed Backend   %s", check, cyan.Render(cfg.FeedURL)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Client State   %s", check, dim.Render(shortenPath(cfg.DBPath))))
	if cfg.StateRetentionDays > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", check, dim.Render(fmt.Sprintf("%d days", cfg.StateRetentionDays))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", dot, dim.Render("disabled")))
	}
	if cfg.FeedCacheSize > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Feed Cache     %s", check, dim.Render(fmt.Sprintf("%d entries, %s", cfg.FeedCacheSize, cfg.FeedCacheTTL))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Feed Cache     %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
