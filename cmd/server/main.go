package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/damon-houk/largest-banks-etl/internal/application/service"
	"github.com/damon-houk/largest-banks-etl/internal/config"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/cache"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/db"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/handler"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)
	logger.SetDefaultLogger(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log = logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	logger.SetDefaultLogger(log)

	log.Info("Starting largest banks report server", map[string]interface{}{
		"addr":     cfg.Server.Addr,
		"database": cfg.Output.DBPath,
	})

	// The ETL run owns writes; the server only ever reads
	store, err := db.OpenSQLiteReadOnly(cfg.Output.DBPath)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{
			"path":  cfg.Output.DBPath,
			"error": err.Error(),
		})
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	reportCache := cache.NewReportCache(cfg.Server.CacheTTL)
	reports := service.NewReportService(cfg.Output.TableName, cfg.Source.Columns[0], reportCache, log)
	reportHandler := handler.NewReportHandler(reports, store, log)

	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.RecoverMiddleware(log),
	)
	reportHandler.RegisterRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Server.CacheTTL > 0 {
		group.Go(func() error {
			ticker := time.NewTicker(cfg.Server.CacheTTL)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if removed := reportCache.CleanExpired(); removed > 0 {
						log.Debug("Expired report cache entries removed", map[string]interface{}{
							"removed": removed,
						})
					}
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		log.Error("Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
		store.Close()
		os.Exit(1)
	}

	log.Info("Server stopped", nil)
}
