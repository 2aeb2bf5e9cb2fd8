package csvstore

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// DatasetFile implements the DatasetWriter interface, writing CSV with a leading
// positional index column whose header is empty.
type DatasetFile struct {
	path string
}

// NewDatasetFile creates a CSV sink writing to path
func NewDatasetFile(path string) *DatasetFile {
	return &DatasetFile{path: path}
}

// Path returns the file the sink writes to
func (d *DatasetFile) Path() string {
	return d.path
}

// WriteDataset truncates the file and writes every record of dataset
func (d *DatasetFile) WriteDataset(_ context.Context, dataset *entity.Dataset) error {
	f, err := os.Create(d.path)
	if err != nil {
		return &entity.SinkWriteError{Sink: "csv", Target: d.path, Err: err}
	}

	w := bufio.NewWriter(f)
	if err := EncodeDataset(w, dataset); err != nil {
		f.Close()
		return &entity.SinkWriteError{Sink: "csv", Target: d.path, Err: err}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &entity.SinkWriteError{Sink: "csv", Target: d.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &entity.SinkWriteError{Sink: "csv", Target: d.path, Err: err}
	}

	return nil
}

// EncodeDataset writes the header and one row per record to out
func EncodeDataset(out io.Writer, dataset *entity.Dataset) error {
	w := csv.NewWriter(out)

	header := append([]string{""}, dataset.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range dataset.Banks {
		values := dataset.Values(i)
		record := make([]string, 0, len(values)+1)
		record = append(record, strconv.Itoa(i))
		for _, v := range values {
			record = append(record, formatValue(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// ReadDataset reads a file produced by WriteDataset back into a dataset.
// The index column is dropped.
func ReadDataset(path string) (*entity.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	return DecodeDataset(f)
}

// DecodeDataset parses CSV written by EncodeDataset
func DecodeDataset(in io.Reader) (*entity.Dataset, error) {
	reader := csv.NewReader(in)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty dataset file")
	}
	if err != nil {
		return nil, err
	}

	columns := header[1:]
	var converted bool
	switch len(columns) {
	case len(entity.SourceColumns):
	case len(entity.SourceColumns) + len(entity.DerivedColumns):
		converted = true
	default:
		return nil, fmt.Errorf("unexpected column count %d", len(columns))
	}

	dataset := entity.NewDataset(columns)
	dataset.Converted = converted

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		floats := make([]float64, len(record)-2)
		for i := range floats {
			floats[i], err = entity.ParseNumber(record[i+2])
			if err != nil {
				return nil, fmt.Errorf("row %s: column %s: %w", record[0], columns[i+1], err)
			}
		}

		bank := entity.Bank{Name: record[1], MarketCapUSD: floats[0]}
		if converted {
			bank.MarketCapGBP = floats[1]
			bank.MarketCapEUR = floats[2]
			bank.MarketCapINR = floats[3]
		}
		dataset.Append(bank)
	}

	return dataset, nil
}
