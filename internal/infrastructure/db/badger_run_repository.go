package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

const runKeyPrefix = "run:"

// ErrRunNotFound is returned when no run exists under the requested ID
var ErrRunNotFound = errors.New("run not found")

// BadgerRunRepository implements the run repository interface using BadgerDB
type BadgerRunRepository struct {
	db *badger.DB
}

// NewBadgerRunRepository creates a new BadgerDB run repository
func NewBadgerRunRepository(db *badger.DB) *BadgerRunRepository {
	return &BadgerRunRepository{db: db}
}

// OpenBadger opens (or creates) the run store directory
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return db, nil
}

// Store saves a run, replacing any earlier version with the same ID
func (r *BadgerRunRepository) Store(ctx context.Context, run *entity.Run) error {
	// Serialize run to JSON
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+run.ID), data)
	})
	if err != nil {
		return &entity.SinkWriteError{Sink: "run store", Target: run.ID, Err: err}
	}

	return nil
}

// FindByID retrieves a run by its unique identifier
func (r *BadgerRunRepository) FindByID(ctx context.Context, id string) (*entity.Run, error) {
	var run entity.Run

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve run: %w", err)
	}

	return &run, nil
}

// Latest returns the run with the most recent start time, or nil when the store is empty
func (r *BadgerRunRepository) Latest(ctx context.Context) (*entity.Run, error) {
	var latest *entity.Run

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var run entity.Run
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			})
			if err != nil {
				return err
			}

			if latest == nil || run.StartedAt.After(latest.StartedAt) {
				latest = &run
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}

	return latest, nil
}
