// GearGuard is a predictive maintenance server for defense equipment.
// It classifies sensor readings, raises alerts, schedules maintenance
// work, and delivers notifications through a plugin pipeline.
//
//	@title			GearGuard API
//	@version		1.0
//	@description	Predictive alert and maintenance pipeline for equipment telemetry.
//	@BasePath		/api/v1
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/gearguard/gearguard/api/swagger"
	"github.com/gearguard/gearguard/internal/alert"
	"github.com/gearguard/gearguard/internal/config"
	"github.com/gearguard/gearguard/internal/event"
	"github.com/gearguard/gearguard/internal/feed"
	"github.com/gearguard/gearguard/internal/maintenance"
	"github.com/gearguard/gearguard/internal/notify"
	"github.com/gearguard/gearguard/internal/predict"
	"github.com/gearguard/gearguard/internal/registry"
	"github.com/gearguard/gearguard/internal/server"
	"github.com/gearguard/gearguard/internal/store"
	"github.com/gearguard/gearguard/internal/version"
	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search ./gearguard.yaml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "gearguard: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	v, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting gearguard",
		zap.String("version", version.Short()),
		zap.String("config", v.ConfigFileUsed()),
	)

	dbPath := v.GetString("database.path")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		if errors.Is(err, store.ErrNewerSchema) {
			return fmt.Errorf("refusing to start: %w", err)
		}
		return fmt.Errorf("schema version check: %w", err)
	}

	bus := event.NewBus(logger)
	reg := registry.New(logger)

	// Registration order is arbitrary; the registry resolves start order
	// from declared dependencies.
	plugins := []plugin.Plugin{
		predict.New(),
		notify.New(),
		maintenance.New(),
		alert.New(),
		feed.New(),
	}
	for _, p := range plugins {
		if err := reg.Register(p); err != nil {
			return err
		}
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("plugin validation: %w", err)
	}

	rootCfg := config.New(v)
	depsFn := func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config:  rootCfg.Sub("plugins." + name),
			Logger:  logger.Named(name),
			Store:   db,
			Bus:     bus,
			Plugins: reg,
		}
	}

	if err := reg.InitAll(ctx, bus, depsFn); err != nil {
		return fmt.Errorf("plugin init: %w", err)
	}
	if err := reg.StartAll(ctx); err != nil {
		return fmt.Errorf("plugin start: %w", err)
	}

	var srvCfg server.Config
	if err := v.UnmarshalKey("server", &srvCfg); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	devMode := v.GetBool("server.dev_mode")

	ready := func(ctx context.Context) error {
		return pingDB(ctx, db.DB())
	}
	srv := server.New(srvCfg.Addr(), reg, logger, ready, devMode)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		reg.StopAll(ctx)
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	reg.StopAll(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}

func pingDB(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
