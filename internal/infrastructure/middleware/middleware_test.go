// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

func echoRequestID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(echoRequestID())

	t.Run("Generates an ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))

		requestID := w.Header().Get(RequestIDHeader)
		assert.Len(t, requestID, 36)
		assert.Equal(t, requestID, w.Body.String())
	})

	t.Run("Keeps the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "test-id-123", w.Body.String())
	})
}

func TestGetRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))

	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})
	chain := RequestIDMiddleware(LoggingMiddleware(log)(notFound))

	req := httptest.NewRequest(http.MethodGet, "/reports/bottom5", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "Response sent", entry["message"])
	assert.Equal(t, "test-id-123", entry["request_id"])
	assert.Equal(t, "/reports/bottom5", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, float64(len("missing")), entry["bytes"])
}

func TestRecoverMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	chain := RequestIDMiddleware(RecoverMiddleware(log)(panicking))

	req := httptest.NewRequest(http.MethodGet, "/reports/all", nil)
	req.Header.Set(RequestIDHeader, "test-id-500")
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { chain.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "test-id-500", body["request_id"])

	assert.Contains(t, buf.String(), "Panic while serving request")
}
