package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/app"
	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("error", "text").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if !config.GetEnvAsBool("GROWDICE_GIN_DEBUG", false) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error("error closing storage", "error", err)
		}
	}()

	a, err := app.New(cfg, store, nil, log)
	if err != nil {
		log.Error("failed to wire services", "error", err)
		os.Exit(1)
	}

	if n, err := a.SeedCatalog(ctx); errors.Is(err, fs.ErrNotExist) {
		log.Warn("catalog seed file not found", "file", cfg.Catalog.SeedFile)
	} else if err != nil {
		log.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	} else if n > 0 {
		log.Info("catalog seeded from file", "file", cfg.Catalog.SeedFile, "boxes", n)
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     a.Handler,
		ReadTimeout: cfg.Server.ReadTimeout,
		// zero keeps the balance stream open
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	// open balance streams end when shutdown starts
	streams, stopStreams := context.WithCancel(context.Background())
	srv.BaseContext = func(net.Listener) context.Context { return streams }
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}
