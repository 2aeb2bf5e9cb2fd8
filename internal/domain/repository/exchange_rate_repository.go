// Package repository internal/domain/repository/exchange_rate_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for exchange rate access
type ExchangeRateRepository interface {
	// LoadRates reads the full rate table
	LoadRates(ctx context.Context) (entity.RateTable, error)
}
