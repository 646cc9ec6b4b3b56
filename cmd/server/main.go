// Command streamish-server serves the Streamish HTTP API and HTML pages.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/and161185/streamish/internal/config"
	"github.com/and161185/streamish/internal/seed"
	grpcserver "github.com/and161185/streamish/internal/server/grpc"
	httpserver "github.com/and161185/streamish/internal/server/http"
	"github.com/and161185/streamish/internal/service"
	"github.com/and161185/streamish/internal/storage"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens storage and serves HTTP (plus optional gRPC health) until signalled.
func main() {
	cfgPath := flag.String("config", "", "path to YAML config (default: $STREAMISH_CONFIG or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Server.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	if cfg.Database.SeedFile != "" {
		fx, err := seed.Load(cfg.Database.SeedFile)
		if err != nil {
			logger.Fatal("load seed", zap.Error(err))
		}
		if _, err := seed.Apply(ctx, store.Profiles, store.Videos, fx, logger); err != nil {
			logger.Fatal("apply seed", zap.Error(err))
		}
	}

	// Services
	profileSvc := service.NewProfileService(store.Profiles, logger)
	videoSvc := service.NewVideoService(store.Videos, logger)

	h := httpserver.NewHandler(profileSvc, videoSvc, store, logger)
	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(h, cfg.HTTP, cfg.Server.RequestTimeout))

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening (HTTP)", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Health (gRPC) is optional
	var gs *grpc.Server
	if cfg.Server.GRPCAddr != "" {
		health := grpcserver.NewHealth(store, logger, 10*time.Second)
		go health.Run(ctx)

		gs = grpcserver.New(logger, health, cfg.Server.Dev)
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Fatal("listen", zap.Error(err))
		}
		go func() {
			logger.Info("listening (gRPC health)", zap.String("addr", cfg.Server.GRPCAddr))
			errCh <- gs.Serve(lis)
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	if gs != nil {
		done := make(chan struct{})
		go func() {
			gs.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			gs.Stop()
		}
	}

	logger.Info("shutdown complete")
}
