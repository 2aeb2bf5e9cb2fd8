// Package service internal/application/service/conversion_service.go
package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

// conversionPlaces is the number of decimals kept in derived currency columns
const conversionPlaces = 2

// ConversionService derives the GBP, EUR and INR market capitalisation columns
type ConversionService struct {
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		logger: log,
	}
}

// Convert returns a copy of dataset with the derived currency columns filled in.
// Every required rate is resolved before any record is produced, so a missing
// currency yields a *entity.RateNotFoundError and no output at all. Neither the
// input dataset nor the rate table is modified.
func (s *ConversionService) Convert(dataset *entity.Dataset, rates entity.RateTable) (*entity.Dataset, error) {
	multipliers := make([]decimal.Decimal, len(entity.ConversionCurrencies))
	for i, currency := range entity.ConversionCurrencies {
		rate, err := rates.Rate(currency)
		if err != nil {
			s.logger.Error("Missing exchange rate", map[string]interface{}{
				"currency": currency,
				"error":    err.Error(),
			})
			return nil, err
		}
		if !entity.IsFinite(rate) {
			return nil, fmt.Errorf("invalid exchange rate for %s: %v", currency, rate)
		}
		multipliers[i] = decimal.NewFromFloat(rate)
	}

	converted := &entity.Dataset{
		Columns:   append(append([]string(nil), dataset.Columns...), entity.DerivedColumns...),
		Banks:     make([]entity.Bank, len(dataset.Banks)),
		Converted: true,
	}

	for i, bank := range dataset.Banks {
		if !entity.IsFinite(bank.MarketCapUSD) {
			return nil, &entity.MalformedMetricError{
				Row:   i,
				Value: strconv.FormatFloat(bank.MarketCapUSD, 'g', -1, 64),
				Err:   strconv.ErrRange,
			}
		}
		usd := decimal.NewFromFloat(bank.MarketCapUSD)

		converted.Banks[i] = entity.Bank{
			Name:         bank.Name,
			MarketCapUSD: bank.MarketCapUSD,
			MarketCapGBP: ConvertAmount(usd, multipliers[0]),
			MarketCapEUR: ConvertAmount(usd, multipliers[1]),
			MarketCapINR: ConvertAmount(usd, multipliers[2]),
		}
	}

	s.logger.Info("Conversion completed", map[string]interface{}{
		"records":    len(converted.Banks),
		"currencies": entity.ConversionCurrencies,
	})

	return converted, nil
}

// ConvertAmount multiplies exactly and rounds to two decimals. Ties go half
// away from zero on purpose rather than half to even, so 100.5 * 0.93 = 93.465
// becomes 93.47 and 100.5 * 82.95 = 8336.475 becomes 8336.48.
func ConvertAmount(amount, rate decimal.Decimal) float64 {
	value, _ := amount.Mul(rate).Round(conversionPlaces).Float64()
	return value
}
