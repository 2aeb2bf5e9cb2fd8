// Package scraper turns the ranked-list page into typed bank records.
//
// The page is expected to hold a table marked with a CSS class (wikitable on
// Wikipedia). Every body row with at least three data cells is a bank: the
// second cell is the name and the third the market capitalisation in USD
// billions. Shorter rows (headers, separators, footnotes) are ignored; a
// non-numeric capitalisation aborts the extraction.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

const (
	minCells    = 3
	nameCell    = 1
	metricCell  = 2
	defaultMark = "wikitable"
)

// Extractor locates the marked table and converts its rows into a dataset
type Extractor struct {
	tableClass string
}

// NewExtractor creates an extractor for tables carrying tableClass
func NewExtractor(tableClass string) *Extractor {
	if tableClass == "" {
		tableClass = defaultMark
	}
	return &Extractor{tableClass: tableClass}
}

// Extract parses markup and returns one record per qualifying row, in document order.
// columns names the two source fields (entity name, USD metric).
func (e *Extractor) Extract(markup string, columns []string) (*entity.Dataset, error) {
	if len(columns) != len(entity.SourceColumns) {
		return nil, fmt.Errorf("extract: expected %d column names, got %d", len(entity.SourceColumns), len(columns))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("extract: parse markup: %w", err)
	}

	tableSelector := "table." + e.tableClass
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, &entity.StructureNotFoundError{Selector: tableSelector}
	}

	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return nil, &entity.StructureNotFoundError{Selector: tableSelector + " tbody"}
	}

	dataset := entity.NewDataset(columns)

	var extractErr error
	body.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return true
		}

		bank, err := parseRow(i, cells)
		if err != nil {
			extractErr = err
			return false
		}

		dataset.Append(bank)
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return dataset, nil
}

// parseRow reads the name and metric cells of a qualifying row
func parseRow(index int, cells *goquery.Selection) (entity.Bank, error) {
	name := strings.TrimSpace(cells.Eq(nameCell).Text())
	raw := strings.TrimSpace(cells.Eq(metricCell).Text())

	metric, err := entity.ParseNumber(raw)
	if err != nil {
		return entity.Bank{}, &entity.MalformedMetricError{Row: index, Value: raw, Err: err}
	}

	return entity.Bank{
		Name:         name,
		MarketCapUSD: metric,
	}, nil
}
