package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oronlab/oron-insight/internal/analysis"
	corecfg "github.com/oronlab/oron-insight/internal/core/config"
	"github.com/oronlab/oron-insight/internal/core/grouping"
	"github.com/oronlab/oron-insight/internal/core/storage/postgres"
	"github.com/oronlab/oron-insight/internal/core/summary"
	"github.com/oronlab/oron-insight/internal/ingestion"
	"github.com/oronlab/oron-insight/internal/migrations"
	"github.com/oronlab/oron-insight/internal/report"
	"github.com/oronlab/oron-insight/internal/retrieval"
	"github.com/oronlab/oron-insight/internal/server"
)

func main() {
	configPath := flag.String("config", "oroninsight.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"mode", cfg.Server.Mode,
		"districts", len(cfg.Resolved.Districts),
		"threshold", cfg.Resolved.Threshold,
	)

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Build the market core: grouper and summarization facade
	grouper := grouping.New(cfg.Resolved)
	summarizer, err := summary.NewSummarizer(cfg.Resolved)
	if err != nil {
		slog.Error("Failed to build summarizer", "error", err)
		os.Exit(1)
	}
	facade := summary.NewFacade(summarizer)

	// 4. Initialize Services
	ingestionSvc := ingestion.NewService(dbAdapter, cfg.Server.MaxBodySizeMB)
	analysisSvc := analysis.NewService(dbAdapter, grouper, facade)
	retrievalSvc := retrieval.NewService(dbAdapter)
	reportBuilder := report.NewBuilder(dbAdapter, grouper, facade, report.NewStaticNarrator(), retrievalSvc)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter, cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	analysisSvc.RegisterRoutes(srv.Engine)
	retrievalSvc.RegisterRoutes(srv.Engine)
	reportBuilder.RegisterRoutes(srv.Engine)

	// 6. Start
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
