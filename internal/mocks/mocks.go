// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

// MockPageFetcher mocks the PageFetcher interface
type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockExtractor mocks the Extractor interface
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(markup string, columns []string) (*entity.Dataset, error) {
	args := m.Called(markup, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dataset), args.Error(1)
}

// MockExchangeRateRepository mocks the ExchangeRateRepository interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) LoadRates(ctx context.Context) (entity.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateTable), args.Error(1)
}

// MockConverter mocks the currency conversion step
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(dataset *entity.Dataset, rates entity.RateTable) (*entity.Dataset, error) {
	args := m.Called(dataset, rates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dataset), args.Error(1)
}

// MockDatasetWriter mocks the DatasetWriter interface
type MockDatasetWriter struct {
	mock.Mock
}

func (m *MockDatasetWriter) WriteDataset(ctx context.Context, dataset *entity.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

// MockTableStore mocks the TableStore interface
type MockTableStore struct {
	mock.Mock
}

func (m *MockTableStore) ReplaceTable(ctx context.Context, table string, dataset *entity.Dataset) error {
	args := m.Called(ctx, table, dataset)
	return args.Error(0)
}

func (m *MockTableStore) Query(ctx context.Context, statement string) (*entity.QueryResult, error) {
	args := m.Called(ctx, statement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QueryResult), args.Error(1)
}

func (m *MockTableStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Opener returns a TableStoreOpener that always hands out this store
func (m *MockTableStore) Opener() repository.TableStoreOpener {
	return func(context.Context) (repository.TableStore, error) {
		return m, nil
	}
}

// MockRunRepository mocks the RunRepository interface
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Store(ctx context.Context, run *entity.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) FindByID(ctx context.Context, id string) (*entity.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Run), args.Error(1)
}

func (m *MockRunRepository) Latest(ctx context.Context) (*entity.Run, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Run), args.Error(1)
}

// MockProgressLogger mocks the progress log sink
type MockProgressLogger struct {
	mock.Mock
}

func (m *MockProgressLogger) Log(message string) error {
	args := m.Called(message)
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
