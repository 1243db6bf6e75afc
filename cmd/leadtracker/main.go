package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"leadtracker/internal/api/v1/router"
	"leadtracker/internal/cache"
	"leadtracker/internal/config"
	"leadtracker/internal/debug"
	"leadtracker/internal/log"
	"leadtracker/internal/service"
)

func init() {
	log.InitLogger()
	config.LoadEnv()
	if err := log.SetLevel(config.AppConfig.LogLevel); err != nil {
		log.Logger.Warn("invalid log level, keeping info", zap.String("level", config.AppConfig.LogLevel), zap.Error(err))
	}
	cache.Init()
}

func main() {
	defer log.Sync()

	cfg := config.AppConfig
	detector := service.NewDetector(service.NewHTTPFetcher(cfg.FetchTimeout, cfg.MaxFetchBytes))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.New(detector),
		ReadHeaderTimeout: 5 * time.Second,
		// detection requests wait on an outbound fetch
		WriteTimeout: cfg.FetchTimeout + 10*time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           router.NewMetricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for interrupt or terminate signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Logger.Info("Server started", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Pprof only enabled in dev env
	var pprofServer *http.Server
	if cfg.IsDev {
		pprofServer = debug.StartPprof(cfg.PprofAddr)
	}

	go func() {
		log.Logger.Info("Metrics server started", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	<-stop
	log.Logger.Info("Shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}
	if pprofServer != nil {
		_ = pprofServer.Shutdown(ctx)
	}
	log.Logger.Info("Server exited successfully")
}
