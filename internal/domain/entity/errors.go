package entity

import (
	"fmt"
)

// FetchError is returned when the source page cannot be retrieved as text
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StructureNotFoundError is returned when the markup lacks the expected table or row group
type StructureNotFoundError struct {
	Selector string
}

func (e *StructureNotFoundError) Error() string {
	return fmt.Sprintf("structure not found: %s", e.Selector)
}

// MalformedMetricError is returned when a qualifying row carries a non-numeric metric
type MalformedMetricError struct {
	Row   int
	Value string
	Err   error
}

func (e *MalformedMetricError) Error() string {
	return fmt.Sprintf("malformed metric %q in row %d: %v", e.Value, e.Row, e.Err)
}

func (e *MalformedMetricError) Unwrap() error {
	return e.Err
}

// RateNotFoundError is returned when a required currency is missing from the rate table
type RateNotFoundError struct {
	Currency string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s", e.Currency)
}

// SinkWriteError is returned when the dataset cannot be persisted
type SinkWriteError struct {
	Sink   string
	Target string
	Err    error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("%s sink: write %s: %v", e.Sink, e.Target, e.Err)
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}

// QueryError is returned when a reporting query fails
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
