package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Register the pure-Go SQLite driver
	_ "modernc.org/sqlite"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/domain/repository"
)

// SQLiteTableStore implements the TableStore interface over a single SQLite file
type SQLiteTableStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the SQLite file at path, creating it when missing.
// The handle is limited to one connection; the pipeline never shares it.
func OpenSQLite(path string) (*SQLiteTableStore, error) {
	return open(path, path)
}

// OpenSQLiteReadOnly opens an existing SQLite file without write access
func OpenSQLiteReadOnly(path string) (*SQLiteTableStore, error) {
	return open("file:"+path+"?mode=ro", path)
}

func open(dsn, path string) (*SQLiteTableStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &entity.SinkWriteError{Sink: "sqlite", Target: path, Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &entity.SinkWriteError{Sink: "sqlite", Target: path, Err: err}
	}

	return &SQLiteTableStore{db: db, path: path}, nil
}

// ReplaceTable drops table if it exists, recreates it and inserts every record,
// all inside one transaction.
func (s *SQLiteTableStore) ReplaceTable(ctx context.Context, table string, dataset *entity.Dataset) error {
	if err := s.replace(ctx, table, dataset); err != nil {
		return &entity.SinkWriteError{Sink: "sqlite", Target: s.path + ":" + table, Err: err}
	}
	return nil
}

func (s *SQLiteTableStore) replace(ctx context.Context, table string, dataset *entity.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	quotedTable := repository.QuoteIdent(table)

	defs := make([]string, len(dataset.Columns))
	cols := make([]string, len(dataset.Columns))
	for i, c := range dataset.Columns {
		colType := "REAL"
		if i == 0 {
			colType = "TEXT"
		}
		cols[i] = repository.QuoteIdent(c)
		defs[i] = cols[i] + " " + colType
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quotedTable); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+quotedTable+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quotedTable+` (`+strings.Join(cols, ", ")+`) VALUES (`+ph+`)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range dataset.Banks {
		if _, err := stmt.ExecContext(ctx, dataset.Values(i)...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Query runs a read statement and collects the full result set
func (s *SQLiteTableStore) Query(ctx context.Context, statement string) (*entity.QueryResult, error) {
	result, err := s.query(ctx, statement)
	if err != nil {
		return nil, &entity.QueryError{Statement: statement, Err: err}
	}
	return result, nil
}

func (s *SQLiteTableStore) query(ctx context.Context, statement string) (*entity.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &entity.QueryResult{
		Statement: statement,
		Columns:   columns,
		Rows:      [][]any{},
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	return result, rows.Err()
}

// Close releases the database handle
func (s *SQLiteTableStore) Close() error {
	return s.db.Close()
}
