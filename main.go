package main

import (
	"context"
	"os"

	"github.com/damon-houk/largest-banks-etl/internal/application/service"
	"github.com/damon-houk/largest-banks-etl/internal/config"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/api"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/csvstore"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/db"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/scraper"
)

func main() {
	log := logger.NewJSONLogger(os.Stderr, logger.InfoLevel)
	logger.SetDefaultLogger(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log = logger.NewJSONLogger(os.Stderr, logger.ParseLevel(cfg.Log.Level))
	logger.SetDefaultLogger(log)

	log.Info("Starting largest banks ETL", map[string]interface{}{
		"source": cfg.Source.URL,
		"table":  cfg.Output.TableName,
	})

	badgerDB, err := db.OpenBadger(cfg.Output.RunStorePath)
	if err != nil {
		log.Fatal("Failed to open run history", map[string]interface{}{
			"path":  cfg.Output.RunStorePath,
			"error": err.Error(),
		})
	}

	pipeline := service.NewPipelineService(service.PipelineDeps{
		Fetcher:   api.NewPageClient(cfg.Source.FetchTimeout, log),
		Extractor: scraper.NewExtractor(cfg.Source.TableClass),
		Rates:     csvstore.NewRateFile(cfg.Output.RatesPath),
		Converter: service.NewConversionService(log),
		CSV:       csvstore.NewDatasetFile(cfg.Output.CSVPath),
		OpenStore: func(context.Context) (repository.TableStore, error) {
			return db.OpenSQLite(cfg.Output.DBPath)
		},
		Reports:  service.NewReportService(cfg.Output.TableName, cfg.Source.Columns[0], nil, log),
		Runs:     db.NewBadgerRunRepository(badgerDB),
		Progress: logger.NewProgressLog(cfg.Log.ProgressPath),
		Logger:   log,
		Out:      os.Stdout,
	}, service.PipelineConfig{
		URL:     cfg.Source.URL,
		Columns: cfg.Source.Columns,
		Table:   cfg.Output.TableName,
	})

	runErr := pipeline.Run(context.Background())

	if err := badgerDB.Close(); err != nil {
		log.Error("Error closing run history", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if runErr != nil {
		log.Fatal("ETL run failed", map[string]interface{}{
			"error": runErr.Error(),
		})
	}
}
