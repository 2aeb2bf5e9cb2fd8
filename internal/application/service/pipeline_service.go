package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	domainservice "github.com/damon-houk/largest-banks-etl/internal/domain/service"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

// Progress messages appended to the progress log, in pipeline order
const (
	MsgPreliminaries    = "Preliminaries complete. Initiating ETL process"
	MsgExtracted        = "Data extraction complete. Initiating Transformation process"
	MsgTransformed      = "Data transformation complete. Initiating Loading process"
	MsgSavedCSV         = "Data saved to CSV file"
	MsgConnection       = "SQL Connection initiated"
	MsgLoadingDatabase  = "Loading to Database initiated"
	MsgLoadedDatabase   = "Data loaded to Database as a table, Executing queries"
	MsgComplete         = "Process Complete"
	MsgConnectionClosed = "Server Connection closed"
)

// ProgressLogger appends one timestamped line per stage event
type ProgressLogger interface {
	Log(message string) error
}

// Converter derives the currency columns of a dataset
type Converter interface {
	Convert(dataset *entity.Dataset, rates entity.RateTable) (*entity.Dataset, error)
}

// PipelineConfig holds the run parameters of the pipeline
type PipelineConfig struct {
	URL     string
	Columns []string
	Table   string
}

// PipelineDeps collects every collaborator of the pipeline
type PipelineDeps struct {
	Fetcher   domainservice.PageFetcher
	Extractor domainservice.Extractor
	Rates     repository.ExchangeRateRepository
	Converter Converter
	CSV       repository.DatasetWriter
	OpenStore repository.TableStoreOpener
	Reports   *ReportService
	Runs      repository.RunRepository
	Progress  ProgressLogger
	Logger    logger.Logger
	Out       io.Writer
}

// PipelineService runs the extract, transform and load stages in sequence
type PipelineService struct {
	deps   PipelineDeps
	config PipelineConfig
	now    func() time.Time
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(deps PipelineDeps, config PipelineConfig) *PipelineService {
	if deps.Logger == nil {
		deps.Logger = logger.GetDefaultLogger()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}

	return &PipelineService{
		deps:   deps,
		config: config,
		now:    time.Now,
	}
}

// Run executes one full ETL run. The first failing stage ends the run and its
// error is returned as is; anything written before that point is kept.
func (s *PipelineService) Run(ctx context.Context) error {
	run := &entity.Run{
		ID:        uuid.New().String(),
		StartedAt: s.now().UTC(),
		Status:    entity.RunStatusRunning,
	}
	log := s.deps.Logger.WithField("run_id", run.ID)

	if s.deps.Runs != nil {
		s.logPreviousRun(ctx, log)
		if err := s.deps.Runs.Store(ctx, run); err != nil {
			return err
		}
	}

	records, err := s.execute(ctx, log)

	if s.deps.Runs != nil {
		run.Finish(s.now().UTC(), records, err)
		if storeErr := s.deps.Runs.Store(ctx, run); storeErr != nil {
			log.Error("Failed to record run outcome", map[string]interface{}{
				"error": storeErr.Error(),
			})
			if err == nil {
				err = storeErr
			}
		}
	}

	if err != nil {
		log.Error("ETL run failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	log.Info("ETL run completed", map[string]interface{}{
		"records": records,
	})
	return nil
}

func (s *PipelineService) logPreviousRun(ctx context.Context, log logger.Logger) {
	previous, err := s.deps.Runs.Latest(ctx)
	if err != nil {
		log.Warn("Failed to read run history", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if previous == nil {
		log.Info("No previous run recorded", nil)
		return
	}

	log.Info("Previous run", map[string]interface{}{
		"previous_run_id": previous.ID,
		"status":          string(previous.Status),
		"records":         previous.Records,
		"started_at":      previous.StartedAt.Format(time.RFC3339),
	})
}

func (s *PipelineService) execute(ctx context.Context, log logger.Logger) (int, error) {
	if err := s.progress(MsgPreliminaries); err != nil {
		return 0, err
	}

	markup, err := s.deps.Fetcher.FetchPage(ctx, s.config.URL)
	if err != nil {
		return 0, err
	}

	dataset, err := s.deps.Extractor.Extract(markup, s.config.Columns)
	if err != nil {
		return 0, err
	}
	log.Info("Extraction complete", map[string]interface{}{
		"records": dataset.Len(),
	})
	if err := s.progress(MsgExtracted); err != nil {
		return 0, err
	}

	rates, err := s.deps.Rates.LoadRates(ctx)
	if err != nil {
		return 0, err
	}
	converted, err := s.deps.Converter.Convert(dataset, rates)
	if err != nil {
		return 0, err
	}
	if err := s.progress(MsgTransformed); err != nil {
		return 0, err
	}

	if err := s.deps.CSV.WriteDataset(ctx, converted); err != nil {
		return 0, err
	}
	if err := s.progress(MsgSavedCSV); err != nil {
		return 0, err
	}

	if err := s.load(ctx, converted); err != nil {
		return 0, err
	}

	return converted.Len(), nil
}

// load owns the store handle for the rest of the run and closes it at the end
func (s *PipelineService) load(ctx context.Context, dataset *entity.Dataset) (err error) {
	store, err := s.deps.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close table store: %w", closeErr)
		}
	}()

	if err := s.progress(MsgConnection); err != nil {
		return err
	}
	if err := s.progress(MsgLoadingDatabase); err != nil {
		return err
	}

	if err := store.ReplaceTable(ctx, s.config.Table, dataset); err != nil {
		return err
	}
	if err := s.progress(MsgLoadedDatabase); err != nil {
		return err
	}

	results, err := s.deps.Reports.RunAll(ctx, store)
	for _, result := range results {
		if printErr := Print(s.deps.Out, result); printErr != nil {
			return fmt.Errorf("failed to print report %s: %w", result.Name, printErr)
		}
	}
	if err != nil {
		return err
	}

	if err := s.progress(MsgComplete); err != nil {
		return err
	}
	return s.progress(MsgConnectionClosed)
}

func (s *PipelineService) progress(message string) error {
	if s.deps.Progress == nil {
		return nil
	}
	return s.deps.Progress.Log(message)
}
