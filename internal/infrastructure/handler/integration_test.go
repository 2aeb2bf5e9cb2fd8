// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/largest-banks-etl/internal/application/service"
	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/cache"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/db"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/handler"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/middleware"
	"github.com/damon-houk/largest-banks-etl/internal/mocks"
)

// setupTestServer wires the report handler and middleware in front of store
func setupTestServer(store repository.TableStore, logs *bytes.Buffer) *httptest.Server {
	log := logger.NewJSONLogger(logs, logger.DebugLevel)
	reports := service.NewReportService("Largest_banks", "Name", cache.NewReportCache(time.Minute), log)
	reportHandler := handler.NewReportHandler(reports, store, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log))
	reportHandler.RegisterRoutes(router)

	return httptest.NewServer(router)
}

// seedDatabase writes a converted two-bank table and reopens the file read-only
func seedDatabase(t *testing.T) repository.TableStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Banks.db")

	writer, err := db.OpenSQLite(path)
	require.NoError(t, err)

	dataset := &entity.Dataset{
		Columns:   append(append([]string(nil), entity.SourceColumns...), entity.DerivedColumns...),
		Converted: true,
		Banks: []entity.Bank{
			{Name: "Bank A", MarketCapUSD: 100.5, MarketCapGBP: 80.4, MarketCapEUR: 93.47, MarketCapINR: 8336.48},
			{Name: "Bank B", MarketCapUSD: 50.25, MarketCapGBP: 40.2, MarketCapEUR: 46.73, MarketCapINR: 4168.24},
		},
	}
	require.NoError(t, writer.ReplaceTable(context.Background(), "Largest_banks", dataset))
	require.NoError(t, writer.Close())

	store, err := db.OpenSQLiteReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReportEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var logs bytes.Buffer
	server := setupTestServer(seedDatabase(t), &logs)
	defer server.Close()

	t.Run("List reports", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/reports")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body handler.ReportListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Reports, 3)
		assert.Equal(t, "all", body.Reports[0].Name)
		assert.Equal(t, `SELECT AVG("MC_GBP_Billion") FROM "Largest_banks"`, body.Reports[1].Statement)
	})

	t.Run("Average GBP", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/reports/avg_gbp")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		var body handler.ReportResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "avg_gbp", body.Name)
		require.Len(t, body.Rows, 1)
		assert.InDelta(t, 60.3, body.Rows[0][0], 1e-9)
	})

	t.Run("Top five names", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/reports/top5")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body handler.ReportResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, []string{"Name"}, body.Columns)
		assert.Equal(t, [][]any{{"Bank A"}, {"Bank B"}}, body.Rows)
	})

	t.Run("Unknown report", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/reports/bottom5", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "test-id-404")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body handler.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Report not found", body.Error)
		assert.Equal(t, http.StatusNotFound, body.Status)
		assert.Equal(t, "test-id-404", body.RequestID)
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body handler.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
	})

	assert.Contains(t, logs.String(), "test-id-404")
}

func TestReportEndpoint_QueryFailure(t *testing.T) {
	store := new(mocks.MockTableStore)
	store.On("Query", mock.Anything, `SELECT * FROM "Largest_banks"`).
		Return(nil, &entity.QueryError{Statement: `SELECT * FROM "Largest_banks"`, Err: errors.New("no such table: Largest_banks")})

	server := setupTestServer(store, &bytes.Buffer{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/reports/all")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Report unavailable", body.Error)
	assert.NotEmpty(t, body.RequestID)
}
