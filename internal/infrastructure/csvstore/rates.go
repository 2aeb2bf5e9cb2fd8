// Package csvstore reads the exchange rate table and writes the dataset as CSV.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

const (
	rateCurrencyHeader = "Currency"
	rateValueHeader    = "Rate"
)

// RateFile implements the ExchangeRateRepository interface over a Currency,Rate CSV file
type RateFile struct {
	path string
}

// NewRateFile creates a rate repository reading path
func NewRateFile(path string) *RateFile {
	return &RateFile{path: path}
}

// LoadRates reads every rate of the file into a table
func (r *RateFile) LoadRates(_ context.Context) (entity.RateTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate file: %w", err)
	}
	defer f.Close()

	rates, err := ParseRates(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate file %s: %w", r.path, err)
	}

	return entity.NewRateTable(rates), nil
}

// ParseRates reads Currency,Rate rows; columns are located by header name.
// Duplicate currencies are rejected since the currency is the table key.
func ParseRates(in io.Reader) ([]entity.ExchangeRate, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty rate file")
	}
	if err != nil {
		return nil, err
	}

	currencyIdx, rateIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case rateCurrencyHeader:
			currencyIdx = i
		case rateValueHeader:
			rateIdx = i
		}
	}
	if currencyIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("header must contain %s and %s, got %v", rateCurrencyHeader, rateValueHeader, header)
	}

	var rates []entity.ExchangeRate
	seen := make(map[string]bool)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) <= currencyIdx || len(record) <= rateIdx {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(currencyIdx, rateIdx)+1, len(record))
		}

		currency := strings.TrimSpace(record[currencyIdx])
		if seen[currency] {
			return nil, fmt.Errorf("line %d: duplicate currency %s", line, currency)
		}
		seen[currency] = true

		rate, err := entity.ParseNumber(strings.TrimSpace(record[rateIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate for %s: %w", line, currency, err)
		}

		rates = append(rates, entity.ExchangeRate{Currency: currency, Rate: rate})
	}

	return rates, nil
}
