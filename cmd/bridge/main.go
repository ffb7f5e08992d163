package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	audioimpl "github.com/skaczor/react-native-boostlingo-sdk/external/audio"
	configloader "github.com/skaczor/react-native-boostlingo-sdk/external/config"
	engineimpl "github.com/skaczor/react-native-boostlingo-sdk/external/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/external/host"
	repositoryimpl "github.com/skaczor/react-native-boostlingo-sdk/external/repository"
	webhookimpl "github.com/skaczor/react-native-boostlingo-sdk/external/webhook"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/bridge"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/config"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	if err := run(cfg, injector); err != nil {
		slog.Error("bridge stopped with error", "error", err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	engineimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	bridge.RegisterDI(injector)
	host.RegisterDI(injector)

	return injector
}

func run(cfg *config.Config, injector do.Injector) error {
	b, err := do.Invoke[*bridge.Bridge](injector)
	if err != nil {
		return err
	}
	srv, err := do.Invoke[*host.Server](injector)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("startup: serving host transport", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		b.Dispose()
		b.Wait()
		return err
	})
	return g.Wait()
}
