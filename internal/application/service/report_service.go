package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

// Report names of the fixed query catalogue
const (
	ReportAll    = "all"
	ReportAvgGBP = "avg_gbp"
	ReportTop5   = "top5"
)

// ErrUnknownReport is returned when a report name is not in the catalogue
var ErrUnknownReport = errors.New("unknown report")

// Report is one entry of the query catalogue
type Report struct {
	Name      string `json:"name"`
	Statement string `json:"statement"`
}

// ResultCache stores query results by report name
type ResultCache interface {
	Get(name string) *entity.QueryResult
	Put(name string, result *entity.QueryResult)
}

// ReportService runs the fixed reporting queries against the bank table
type ReportService struct {
	reports []Report
	cache   ResultCache
	logger  logger.Logger
}

// NewReportService builds the query catalogue for table. nameColumn is the
// configured bank name column and defaults to entity.ColumnName when empty.
// cache may be nil.
func NewReportService(table, nameColumn string, cache ResultCache, log logger.Logger) *ReportService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if nameColumn == "" {
		nameColumn = entity.ColumnName
	}

	quotedTable := repository.QuoteIdent(table)

	return &ReportService{
		reports: []Report{
			{Name: ReportAll, Statement: fmt.Sprintf("SELECT * FROM %s", quotedTable)},
			{Name: ReportAvgGBP, Statement: fmt.Sprintf("SELECT AVG(%s) FROM %s", repository.QuoteIdent(entity.ColumnMCGBP), quotedTable)},
			{Name: ReportTop5, Statement: fmt.Sprintf("SELECT %s FROM %s LIMIT 5", repository.QuoteIdent(nameColumn), quotedTable)},
		},
		cache:  cache,
		logger: log,
	}
}

// Catalogue lists the reports in execution order
func (s *ReportService) Catalogue() []Report {
	return append([]Report(nil), s.reports...)
}

// Run executes the named report. Failures come back as *entity.QueryError.
func (s *ReportService) Run(ctx context.Context, store repository.TableStore, name string) (*entity.QueryResult, error) {
	report, ok := s.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}

	if s.cache != nil {
		if cached := s.cache.Get(name); cached != nil {
			s.logger.Debug("Report served from cache", map[string]interface{}{
				"report": name,
			})
			return cached, nil
		}
	}

	result, err := store.Query(ctx, report.Statement)
	if err != nil {
		s.logger.Error("Report query failed", map[string]interface{}{
			"report":    name,
			"statement": report.Statement,
			"error":     err.Error(),
		})
		return nil, err
	}
	result.Name = name

	if s.cache != nil {
		s.cache.Put(name, result)
	}

	s.logger.Debug("Report query executed", map[string]interface{}{
		"report": name,
		"rows":   len(result.Rows),
	})

	return result, nil
}

// RunAll executes every report in catalogue order and stops at the first failure
func (s *ReportService) RunAll(ctx context.Context, store repository.TableStore) ([]*entity.QueryResult, error) {
	results := make([]*entity.QueryResult, 0, len(s.reports))
	for _, report := range s.reports {
		result, err := s.Run(ctx, store, report.Name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ReportService) lookup(name string) (Report, bool) {
	for _, report := range s.reports {
		if report.Name == name {
			return report, true
		}
	}
	return Report{}, false
}

// Print writes the statement followed by the result set as an aligned table
// with a positional row index.
func Print(w io.Writer, result *entity.QueryResult) error {
	if _, err := fmt.Fprintln(w, result.Statement); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(result.Columns, "\t"))
	for i, row := range result.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
