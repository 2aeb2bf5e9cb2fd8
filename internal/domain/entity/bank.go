package entity

// Column names of the stored dataset
const (
	ColumnName   = "Name"
	ColumnMCUSD  = "MC_USD_Billion"
	ColumnMCGBP  = "MC_GBP_Billion"
	ColumnMCEUR  = "MC_EUR_Billion"
	ColumnMCINR  = "MC_INR_Billion"
	columnsCount = 5
)

// SourceColumns are the two fields scraped from the source table
var SourceColumns = []string{ColumnName, ColumnMCUSD}

// DerivedColumns are added by the currency conversion, in ConversionCurrencies order
var DerivedColumns = []string{ColumnMCGBP, ColumnMCEUR, ColumnMCINR}

// Bank represents one ranked bank and its market capitalisation in billions
type Bank struct {
	Name         string  `json:"name"`
	MarketCapUSD float64 `json:"mc_usd_billion"`
	MarketCapGBP float64 `json:"mc_gbp_billion,omitempty"`
	MarketCapEUR float64 `json:"mc_eur_billion,omitempty"`
	MarketCapINR float64 `json:"mc_inr_billion,omitempty"`
}

// Dataset is an ordered list of banks plus the column names they are stored under.
// The derived currency fields are only meaningful once Converted is true.
type Dataset struct {
	Columns   []string
	Banks     []Bank
	Converted bool
}

// NewDataset creates an empty dataset with the given source columns
func NewDataset(columns []string) *Dataset {
	return &Dataset{
		Columns: append([]string(nil), columns...),
		Banks:   []Bank{},
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Banks)
}

// Append adds a bank at the end of the dataset
func (d *Dataset) Append(b Bank) {
	d.Banks = append(d.Banks, b)
}

// Values returns the i-th record as a row matching Columns
func (d *Dataset) Values(i int) []any {
	b := d.Banks[i]
	row := make([]any, 0, columnsCount)
	row = append(row, b.Name, b.MarketCapUSD)
	if d.Converted {
		row = append(row, b.MarketCapGBP, b.MarketCapEUR, b.MarketCapINR)
	}
	return row
}

// Names returns the bank names in stored order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Banks))
	for i, b := range d.Banks {
		names[i] = b.Name
	}
	return names
}
