package handler

// ReportSummary describes one entry of the report catalogue
type ReportSummary struct {
	Name      string `json:"name"`
	Statement string `json:"statement"`
}

// ReportListResponse represents the response for the catalogue endpoint
type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
}

// ReportResponse represents the response for a single report
type ReportResponse struct {
	Name      string   `json:"name"`
	Statement string   `json:"statement"`
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
