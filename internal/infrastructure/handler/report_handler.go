// Package handler internal/infrastructure/handler/report_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/damon-houk/largest-banks-etl/internal/application/service"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/middleware"
)

// ReportHandler serves the reporting queries over HTTP
type ReportHandler struct {
	reports *service.ReportService
	store   repository.TableStore
	logger  logger.Logger
}

// NewReportHandler creates a new report handler reading from store
func NewReportHandler(reports *service.ReportService, store repository.TableStore, log logger.Logger) *ReportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReportHandler{
		reports: reports,
		store:   store,
		logger:  log,
	}
}

// ListReports handles listing the report catalogue
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	catalogue := h.reports.Catalogue()

	resp := ReportListResponse{Reports: make([]ReportSummary, len(catalogue))}
	for i, report := range catalogue {
		resp.Reports[i] = ReportSummary{Name: report.Name, Statement: report.Statement}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetReport handles running one named report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	name := mux.Vars(r)["name"]

	h.logger.Info("Handling report request", map[string]interface{}{
		"request_id": requestID,
		"report":     name,
	})

	result, err := h.reports.Run(r.Context(), h.store, name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownReport) {
			h.logger.Warn("Unknown report", map[string]interface{}{
				"request_id": requestID,
				"report":     name,
			})
			sendErrorResponse(w, h.logger, "Report not found",
				"Available reports are listed at /reports", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Report query failed", map[string]interface{}{
			"request_id": requestID,
			"report":     name,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Report unavailable",
			"The bank table could not be queried. Run the ETL and try again.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	resp := ReportResponse{
		Name:      result.Name,
		Statement: result.Statement,
		Columns:   result.Columns,
		Rows:      result.Rows,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Health reports that the server is up
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// RegisterRoutes registers the report handler routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports", h.ListReports).Methods("GET")
	router.HandleFunc("/reports/{name}", h.GetReport).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")

	h.logger.Info("Report routes registered", map[string]interface{}{
		"routes": []string{
			"GET /reports",
			"GET /reports/{name}",
			"GET /health",
		},
	})
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
