package repository

import (
	"context"
	"strings"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// DatasetWriter persists a dataset to a flat file
type DatasetWriter interface {
	// WriteDataset serialises every record of the dataset
	WriteDataset(ctx context.Context, dataset *entity.Dataset) error
}

// TableStore is a relational store holding the dataset as a named table
type TableStore interface {
	// ReplaceTable drops the table if it exists and recreates it with the dataset
	ReplaceTable(ctx context.Context, table string, dataset *entity.Dataset) error

	// Query runs a read-only statement and returns its result set
	Query(ctx context.Context, statement string) (*entity.QueryResult, error)

	// Close releases the store handle
	Close() error
}

// TableStoreOpener opens the relational store on demand
type TableStoreOpener func(ctx context.Context) (TableStore, error)

// QuoteIdent quotes a table or column name for use in an SQL statement
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
