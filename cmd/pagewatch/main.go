package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bakkerme/pagewatch/internal/api"
	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/observability/otelx"
	"github.com/bakkerme/pagewatch/internal/runner"
	"github.com/bakkerme/pagewatch/internal/runner/factory"
)

func main() {
	os.Exit(run())
}

// run carries the whole lifecycle so deferred cleanup (seen store close,
// trace flush) happens on every exit path, failures included.
func run() int {
	env := config.LoadEnv()
	configPath := flag.String("config", env.ConfigPath, "path to watch document")
	runOnce := flag.Bool("run-once", env.RunOnce, "run every watch once and exit")
	serve := flag.Bool("serve", env.Serve, "serve the status page")
	listenAddr := flag.String("listen-addr", env.ListenAddr, "status page listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	doc, err := loadDocument(*configPath)
	if err != nil {
		logger.Error("failed to load document", "path", *configPath, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTraces, err := otelx.Init(ctx, logger, env.OTel)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		return 1
	}
	if shutdownTraces != nil {
		defer func() { _ = shutdownTraces(context.Background()) }()
	}

	watchFactory, err := factory.NewFromEnvConfig(logger, env)
	if err != nil {
		logger.Error("failed to create factory", "error", err)
		return 1
	}
	defer watchFactory.Close()

	watches, err := watchFactory.Build(doc)
	if err != nil {
		logger.Error("failed to build watches", "error", err)
		return 1
	}

	r := runner.New(logger)

	if *runOnce {
		for _, watch := range watches {
			if _, err := r.RunOnce(ctx, watch); err != nil {
				logger.Error("run failed", "watch_id", watch.Name, "error", err)
				return 1
			}
		}
		return 0
	}

	if *serve {
		server := api.NewServer(logger, env.PagePath, watchEntries(doc, watchFactory))
		go func() {
			if err := server.Start(*listenAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("status server failed", "error", err)
			}
		}()
		defer func() { _ = server.Shutdown(context.Background()) }()
		logger.Info("status page listening", "addr", *listenAddr, "path", env.PagePath)
	}

	if err := r.Start(ctx, watches); err != nil {
		logger.Error("failed to start runner", "error", err)
		return 1
	}

	<-ctx.Done()
	time.Sleep(200 * time.Millisecond)
	return 0
}

func loadDocument(path string) (*config.WatchDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc config.WatchDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse watch document: %w", err)
	}
	return &doc, nil
}

func watchEntries(doc *config.WatchDocument, watchFactory *factory.Factory) []api.WatchEntry {
	entries := make([]api.WatchEntry, 0, len(doc.Watches))
	for i := range doc.Watches {
		cfg := &doc.Watches[i]
		entry := api.WatchEntry{
			Name: cfg.Name,
			Seen: watchFactory.SeenDB.Watch(cfg.Name),
		}
		if cfg.Trigger.Cron != nil {
			entry.Schedule = cfg.Trigger.Cron.Schedule
		}
		switch {
		case cfg.Source.Page != nil:
			entry.Source = cfg.Source.Page.URL
		case cfg.Source.Feed != nil:
			entry.Source = cfg.Source.Feed.URL
		}
		entries = append(entries, entry)
	}
	return entries
}
