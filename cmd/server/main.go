package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/cache"
	"github.com/kavak/tradeup/internal/config"
	"github.com/kavak/tradeup/internal/configstore"
	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/inventory"
	"github.com/kavak/tradeup/internal/modules/offers"
	"github.com/kavak/tradeup/internal/modules/risktables"
	"github.com/kavak/tradeup/internal/server"
	"github.com/kavak/tradeup/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger not initialized yet
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting trade-up offer engine")

	// Load risk tables (built-in defaults plus optional file override)
	tables, err := risktables.Load(cfg.RiskTablesPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load risk tables")
	}

	// Initialize offer cache
	store := newCacheStore(cfg, log)
	defer store.Close()

	janitor, err := cache.NewJanitor(store, cfg.CacheSweepCron, log)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CacheSweepCron).Msg("Invalid cache sweep schedule")
	}
	janitor.Start()
	defer janitor.Stop()

	// Load inventory
	items := loadInventory(cfg, log)

	// Initialize config store
	configs, err := configstore.New(cfg.ConfigPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load engine config")
	}

	// Initialize engine and progress broker
	engine := offers.NewEngine(tables, store, log)
	broker := offers.NewProgressBroker(log)

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		Engine:         engine,
		ConfigStore:    configs,
		Broker:         broker,
		Cache:          store,
		Inventory:      items,
		RequestTimeout: cfg.RequestTimeout,
		DevMode:        cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newCacheStore picks the cache backend from configuration. A sqlite backend
// that fails to open falls back to memory rather than refusing to start.
func newCacheStore(cfg *config.Config, log zerolog.Logger) cache.Store {
	if cfg.CacheBackend == "sqlite" {
		store, err := cache.NewSQLiteStore(cfg.CacheDBPath, cfg.CacheTTL, log)
		if err == nil {
			log.Info().Str("path", cfg.CacheDBPath).Msg("Using sqlite offer cache")
			return store
		}
		log.Error().Err(err).Msg("Failed to open sqlite cache, falling back to memory")
	}
	return cache.NewMemoryStore(cfg.CacheTTL, log)
}

// loadInventory reads the warehouse CSV; a missing file is not fatal since
// requests can carry their own inventory.
func loadInventory(cfg *config.Config, log zerolog.Logger) []domain.InventoryItem {
	loader := inventory.NewLoader(log)
	items, err := loader.LoadFile(cfg.InventoryPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.InventoryPath).Msg("No inventory file loaded at startup")
		return nil
	}
	return items
}
