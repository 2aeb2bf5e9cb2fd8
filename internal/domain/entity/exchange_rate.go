package entity

// Currency codes the market capitalisation is converted into
const (
	CurrencyGBP = "GBP"
	CurrencyEUR = "EUR"
	CurrencyINR = "INR"
)

// ConversionCurrencies lists the derived currencies in column order
var ConversionCurrencies = []string{CurrencyGBP, CurrencyEUR, CurrencyINR}

// ExchangeRate represents one row of the exchange rate table
type ExchangeRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// RateTable maps a currency code to its multiplier against USD
type RateTable map[string]float64

// NewRateTable builds a rate table from individual rates.
// A later rate for the same currency replaces an earlier one.
func NewRateTable(rates []ExchangeRate) RateTable {
	table := make(RateTable, len(rates))
	for _, r := range rates {
		table[r.Currency] = r.Rate
	}
	return table
}

// Rate returns the multiplier for a currency
func (t RateTable) Rate(currency string) (float64, error) {
	rate, ok := t[currency]
	if !ok {
		return 0, &RateNotFoundError{Currency: currency}
	}
	return rate, nil
}
