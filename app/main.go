package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/makerconf/agenda-comb/app/api"
	"github.com/makerconf/agenda-comb/app/cfg"
	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/ical"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/news"
	"github.com/makerconf/agenda-comb/app/schedule"
	"github.com/makerconf/agenda-comb/app/site"
	"github.com/makerconf/agenda-comb/app/tasks"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Agenda Comb server", "version", appCfg.Version)

	siteCfg, err := site.Load(appCfg.SiteFile)
	if err != nil {
		slog.Error("Failed to load site configuration", "file", appCfg.SiteFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Site configuration loaded", "name", siteCfg.Name)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	resolver := timeutil.NewResolver(appCfg.DefaultTimezone)
	loader := manifest.NewLoader(appCfg.UserAgent)
	reconciler := schedule.NewReconciler(resolver)
	exporter := ical.NewExporter(resolver, siteCfg.CalendarHost, siteCfg.ProdID, siteCfg.Name)

	scheduleStore := schedule.NewStore()
	newsStore := news.NewStore()
	newsParser := news.NewParser()
	contentExtractor := news.NewContentExtractor()
	snapshots := database.NewSnapshotRepository(db)

	scheduler := tasks.NewScheduler(siteCfg, loader, reconciler, resolver, scheduleStore,
		newsStore, newsParser, contentExtractor, snapshots)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(siteCfg, scheduleStore, newsStore, exporter, scheduler, loader,
		reconciler, resolver, newsParser, contentExtractor, snapshots)
	router := api.NewServer(handler, appCfg.APIAccessKey)

	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
