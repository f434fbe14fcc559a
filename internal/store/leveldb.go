// Package store persists historical Result records so internal/compare has
// a baseline to diff against across process runs, backed by goleveldb (the
// teacher's own embedded-KV dependency) rather than an external service.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/colorfulnotion/jamhbench/internal/bench"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store wraps a goleveldb database keyed by "<benchmark>|<unix-nanos>".
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a leveldb database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// record is the on-disk envelope for one stored Result.
type record struct {
	Benchmark string       `json:"benchmark"`
	Timestamp int64        `json:"timestamp"`
	Result    bench.Result `json:"result"`
}

// Put persists result for benchmark at timestampNanos.
func (s *Store) Put(benchmark string, timestampNanos int64, result bench.Result) error {
	rec := record{Benchmark: benchmark, Timestamp: timestampNanos, Result: result}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	key := fmt.Sprintf("%s|%020d", benchmark, timestampNanos)
	return s.db.Put([]byte(key), payload, nil)
}

// Latest returns the most recently recorded Result for benchmark, or false
// if none exists — the natural baseline for internal/compare.
func (s *Store) Latest(benchmark string) (bench.Result, bool, error) {
	prefix := []byte(benchmark + "|")
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var (
		found bool
		rec   record
	)
	for iter.Next() {
		found = true
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return bench.Result{}, false, fmt.Errorf("store: unmarshal: %w", err)
		}
	}
	if err := iter.Error(); err != nil {
		return bench.Result{}, false, err
	}
	return rec.Result, found, nil
}

// All returns every recorded Result for benchmark, oldest first (leveldb
// iterates keys in lexicographic order, and the zero-padded timestamp
// suffix makes that order chronological).
func (s *Store) All(benchmark string) ([]bench.Result, error) {
	prefix := []byte(benchmark + "|")
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var out []bench.Result
	for iter.Next() {
		var rec record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("store: unmarshal: %w", err)
		}
		out = append(out, rec.Result)
	}
	return out, iter.Error()
}
