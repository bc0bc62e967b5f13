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

	"github.com/CreativeUnicorns/configstore"
	"github.com/CreativeUnicorns/configstore/api"
	"github.com/CreativeUnicorns/configstore/cache"
	"github.com/CreativeUnicorns/configstore/encryption"
	"github.com/CreativeUnicorns/configstore/storage"
)

func openStorage(ctx context.Context, cfg serverConfig) (configstore.Storage, error) {
	switch cfg.Storage {
	case "postgres":
		return storage.NewPostgresStorage(ctx, cfg.DSN)
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return storage.NewSQLiteStorage(ctx, cfg.DSN)
	}
}

func openCache(cfg serverConfig) (configstore.Cache, error) {
	switch cfg.Cache {
	case "ttl":
		return cache.NewTTLCache(cfg.CacheTTL, cfg.CacheCapacity), nil
	case "redis":
		return cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	case "none":
		return cache.NopCache{}, nil
	default:
		return cache.NewMemoryCache(cfg.CacheTTL), nil
	}
}

// storeOptions builds the Store options for cfg. The caller closes the cache
// through the registry.
func storeOptions(cfg serverConfig, logger configstore.Logger) ([]configstore.Option, error) {
	c, err := openCache(cfg)
	if err != nil {
		return nil, err
	}

	opts := []configstore.Option{
		configstore.WithCache(c),
		configstore.WithLogger(logger),
		configstore.WithSyncTimeout(cfg.SyncTimeout),
	}

	if cfg.EncryptionKey != "" {
		m, err := encryption.NewManagerWithKey([]byte(cfg.EncryptionKey))
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		opts = append(opts, configstore.WithEncryption(m))
	}
	return opts, nil
}

// newServer wires storage, the shared store and the admin API.
// The returned cleanup closes everything newServer opened.
func newServer(ctx context.Context, cfg serverConfig, logger configstore.Logger) (*api.Server, func(), error) {
	st, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	opts, err := storeOptions(cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to set up store: %w", err)
	}
	store := configstore.Open(st, opts...)

	cleanup := func() {
		if err := configstore.DefaultRegistry.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}

	srv, err := api.NewServer(api.Config{
		ListenAddress: cfg.ListenAddr,
		Store:         store,
		Logger:        logger,
		Forms:         demoForms(),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	srv.Router().Get("/config", handleDemoConfig(store, logger))

	return srv, cleanup, nil
}

func run(cfg serverConfig) error {
	level, err := configstore.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := configstore.NewLogger(os.Stderr, level)
	logger.Info("Configstore server starting up",
		"storage", cfg.Storage,
		"cache", cfg.Cache,
		"encrypted", cfg.EncryptionKey != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}
