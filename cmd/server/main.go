package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/config"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/database"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/logging"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/repository"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/scheduler"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/version"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

//nolint:funlen // Wiring reads top to bottom
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	log := logrus.NewEntry(logger).WithField("version", version.Version)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.WithField("path", cfg.Database.Path).Info("connected to load log database")

	client := backend.NewHTTPClient(backend.Options{
		BaseURL:     cfg.Backend.BaseURL,
		Token:       cfg.Backend.Token,
		HoldingsKey: cfg.Backend.HoldingsKey,
		Timeout:     cfg.Backend.Timeout,
		RateLimit:   cfg.Backend.RateLimit,
		RateBurst:   cfg.Backend.RateBurst,
	})

	systemService := service.NewSystemService(db, map[string]bool{
		"export":           true,
		"holdings_cache":   cfg.Dashboard.HoldingsCacheTTL > 0,
		"scheduled_reload": cfg.Dashboard.ReloadSchedule != "",
	})
	loadLogService := service.NewLoadLogService(repository.NewLoadLogRepository(db), log)

	records := store.NewRecordStore(client, log)
	renderer := pages.NewRenderer(pages.Config{
		Locale:          cfg.LocaleTag(),
		CompactNumbers:  cfg.Dashboard.CompactNumbers,
		HideIDs:         cfg.Dashboard.HideIDs,
		DefaultPageSize: cfg.Dashboard.PageSize,
		MaxPageSize:     cfg.Dashboard.MaxPageSize,
	})

	var dashboard *service.DashboardService
	view := store.NewViewStore(records, client, store.ViewOptions{
		CacheTTL: cfg.Dashboard.HoldingsCacheTTL,
		OnHoldings: func(ctx context.Context, res store.HoldingsResult) {
			dashboard.RecordHoldings(ctx, res)
		},
	}, log)
	dashboard = service.NewDashboardService(records, view, renderer, loadLogService, log)

	jobs := scheduler.New(log)
	if err := jobs.Add("reload", cfg.Dashboard.ReloadSchedule, func(ctx context.Context) {
		dashboard.Reload(ctx, service.SourceScheduled)
	}); err != nil {
		return fmt.Errorf("failed to schedule reload: %w", err)
	}
	if err := jobs.Add("prune_load_log", cfg.Database.PruneSchedule, func(ctx context.Context) {
		if _, err := loadLogService.Prune(ctx, cfg.Database.LogRetention); err != nil {
			log.WithError(err).Warn("load log prune failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule load log pruning: %w", err)
	}
	jobs.Start()

	if cfg.Dashboard.LoadOnStart {
		go dashboard.Reload(context.Background(), service.SourceStartup)
	}

	router := api.NewRouter(api.Services{
		System:    systemService,
		Dashboard: dashboard,
		LoadLog:   loadLogService,
	}, cfg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobs.Stop(ctx); err != nil {
		log.WithError(err).Warn("scheduled jobs did not finish")
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	dashboard.Wait()

	log.Info("server exited")
	return nil
}
