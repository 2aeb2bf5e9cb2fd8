package entity

import (
	"errors"
	"io/fs"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable(t *testing.T) {
	table := NewRateTable([]ExchangeRate{
		{Currency: "GBP", Rate: 0.8},
		{Currency: "EUR", Rate: 0.9},
		{Currency: "EUR", Rate: 0.93},
	})

	rate, err := table.Rate("EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.93, rate)

	_, err = table.Rate("INR")
	var notFound *RateNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "INR", notFound.Currency)
	assert.EqualError(t, err, "no exchange rate available for INR")
}

func TestDataset(t *testing.T) {
	columns := []string{ColumnName, ColumnMCUSD}
	dataset := NewDataset(columns)
	columns[0] = "mutated"

	assert.Equal(t, SourceColumns, dataset.Columns)
	assert.Equal(t, 0, dataset.Len())

	bank := Bank{Name: "Bank A", MarketCapUSD: 100.5, MarketCapGBP: 80.4, MarketCapEUR: 93.47, MarketCapINR: 8336.48}
	dataset.Append(bank)
	dataset.Append(Bank{Name: "Bank A", MarketCapUSD: 1})

	assert.Equal(t, 2, dataset.Len())
	assert.Equal(t, []string{"Bank A", "Bank A"}, dataset.Names())
	assert.Equal(t, []any{"Bank A", 100.5}, dataset.Values(0))

	dataset.Converted = true
	assert.Equal(t, []any{"Bank A", 100.5, 80.4, 93.47, 8336.48}, dataset.Values(0))
}

func TestRunFinish(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		run := &Run{ID: "run-1", StartedAt: start, Status: RunStatusRunning}
		run.Finish(start.Add(time.Second), 10, nil)

		assert.Equal(t, RunStatusSucceeded, run.Status)
		assert.Equal(t, 10, run.Records)
		assert.Empty(t, run.Error)
		assert.Equal(t, start.Add(time.Second), run.EndedAt)
	})

	t.Run("Failure", func(t *testing.T) {
		run := &Run{ID: "run-2", StartedAt: start, Status: RunStatusRunning}
		run.Finish(start.Add(time.Second), 0, &QueryError{Statement: "SELECT 1", Err: errors.New("boom")})

		assert.Equal(t, RunStatusFailed, run.Status)
		assert.Equal(t, `query "SELECT 1": boom`, run.Error)
	})
}

func TestErrors(t *testing.T) {
	cause := fs.ErrPermission

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "Fetch with status",
			err:     &FetchError{URL: "http://x", StatusCode: 404},
			message: "fetch http://x: unexpected status 404",
		},
		{
			name:    "Fetch with cause",
			err:     &FetchError{URL: "http://x", Err: cause},
			message: "fetch http://x: permission denied",
		},
		{
			name:    "Structure",
			err:     &StructureNotFoundError{Selector: "table.wikitable"},
			message: "structure not found: table.wikitable",
		},
		{
			name:    "Sink",
			err:     &SinkWriteError{Sink: "csv", Target: "out.csv", Err: cause},
			message: "csv sink: write out.csv: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.message)
		})
	}

	assert.ErrorIs(t, &SinkWriteError{Sink: "sqlite", Target: "Banks.db", Err: cause}, fs.ErrPermission)
	assert.ErrorIs(t, &MalformedMetricError{Row: 2, Value: "n/a", Err: cause}, fs.ErrPermission)
}

func TestParseNumber(t *testing.T) {
	valid := map[string]float64{
		"12":     12,
		"-3.25":  -3.25,
		"+.5":    0.5,
		"7.":     7,
		"1.5e2":  150,
		"2E-1":   0.2,
		"0.0000": 0,
	}
	for text, want := range valid {
		got, err := ParseNumber(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	for _, text := range []string{"", " 1", "NaN", "nan", "Inf", "+Infinity", "0x1p3", "1_000", "1,000", "1e999", "e5", "."} {
		_, err := ParseNumber(text)
		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr), "%q should be rejected", text)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
