package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"rssz/models"
)

const (
	historyPrefix = "history:"
	historySeqKey = "seq:history"
)

var ErrNotFound = errors.New("not found")

// ErrLocked means another process, usually a running server, holds the database directory.
var ErrLocked = errors.New("database is in use by another process")

type DB struct {
	badgerDB   *badger.DB
	historySeq *badger.Sequence
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	return open(opts)
}

// NewInMemory opens a store that lives only as long as the process.
func NewInMemory() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*DB, error) {
	badgerDB, err := badger.Open(opts)
	if err != nil {
		// badger reports a held directory lock only through its message.
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("%w: %s", ErrLocked, opts.Dir)
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	seq, err := badgerDB.GetSequence([]byte(historySeqKey), 100)
	if err != nil {
		_ = badgerDB.Close()
		return nil, fmt.Errorf("failed to open history sequence: %w", err)
	}

	return &DB{badgerDB: badgerDB, historySeq: seq}, nil
}

// Ping checks that the store is open and readable.
func (d *DB) Ping() error {
	if d.badgerDB.IsClosed() {
		return badger.ErrDBClosed
	}
	return d.badgerDB.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(historySeqKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (d *DB) Close() error {
	if err := d.historySeq.Release(); err != nil {
		_ = d.badgerDB.Close()
		return err
	}
	return d.badgerDB.Close()
}

// historyKey sorts entries in insertion order.
func historyKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", historyPrefix, seq))
}

// StoreQueryHistory appends entry to the history and returns the stored copy.
func (d *DB) StoreQueryHistory(entry models.QueryHistoryEntry) (models.QueryHistoryEntry, error) {
	seq, err := d.historySeq.Next()
	if err != nil {
		return entry, fmt.Errorf("failed to allocate history key: %w", err)
	}

	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return entry, err
	}

	err = d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(seq), data)
	})
	return entry, err
}

// GetQueryHistory returns up to limit entries, newest first. limit <= 0 means all.
func (d *DB) GetQueryHistory(limit int) ([]models.QueryHistoryEntry, error) {
	history := []models.QueryHistoryEntry{}

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration has to start past the last key with the prefix.
		seek := append([]byte(historyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if limit > 0 && len(history) >= limit {
				break
			}

			err := it.Item().Value(func(val []byte) error {
				var entry models.QueryHistoryEntry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				history = append(history, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return history, err
}

// GetQueryHistoryEntry looks up one entry by id.
func (d *DB) GetQueryHistoryEntry(id string) (*models.QueryHistoryEntry, error) {
	entries, err := d.GetQueryHistory(0)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, ErrNotFound
}
