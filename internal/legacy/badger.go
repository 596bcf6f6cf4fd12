// ABOUTME: Reader for the legacy Badger store used by earlier releases.
// ABOUTME: Iterates type-prefixed JSON values for one-time migration.
package legacy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/harperreed/vitals/internal/storage"
)

// Store reads the old Badger database. The legacy layout used the same
// type prefixes as the Charm KV backend (user:, bp:, weight:, hr:,
// reminder:) with JSON values. Opened read-only; migration never
// mutates the source.
type Store struct {
	db *badger.DB
}

// DefaultPath returns where earlier releases kept their Badger data.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vitals", "badger")
}

// Open opens a legacy Badger store in read-only mode.
func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("no legacy store at %s", path)
	}

	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open legacy store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadAll collects every record from the legacy store into an export
// bundle ready for ImportData on the new backend.
func (s *Store) ReadAll() (*storage.ExportData, error) {
	data := &storage.ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "vitals-legacy",
	}

	err := s.db.View(func(txn *badger.Txn) error {
		if err := collect(txn, "user:", &data.Users); err != nil {
			return err
		}
		if err := collect(txn, "bp:", &data.BP); err != nil {
			return err
		}
		if err := collect(txn, "weight:", &data.Weight); err != nil {
			return err
		}
		if err := collect(txn, "hr:", &data.HeartRate); err != nil {
			return err
		}
		return collect(txn, "reminder:", &data.Reminders)
	})
	if err != nil {
		return nil, fmt.Errorf("read legacy store: %w", err)
	}
	return data, nil
}

// Counts summarizes what a migration would copy.
func (s *Store) Counts() (users, readings int, err error) {
	data, err := s.ReadAll()
	if err != nil {
		return 0, 0, err
	}
	return len(data.Users), len(data.BP) + len(data.Weight) + len(data.HeartRate), nil
}

// collect appends every decoded value under prefix to out.
// Values that fail to decode are skipped; a partial migration beats
// none when the legacy store has stray keys.
func collect[T any](txn *badger.Txn, prefix string, out *[]*T) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			var v T
			if err := json.Unmarshal(val, &v); err != nil {
				return nil
			}
			*out = append(*out, &v)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Migrate copies all legacy data into dst and returns what was copied.
func Migrate(src *Store, dst storage.Repository) (*Summary, error) {
	data, err := src.ReadAll()
	if err != nil {
		return nil, err
	}

	if err := dst.ImportData(data); err != nil {
		return nil, fmt.Errorf("import legacy data: %w", err)
	}

	return &Summary{
		Users:     len(data.Users),
		Readings:  len(data.BP) + len(data.Weight) + len(data.HeartRate),
		Reminders: len(data.Reminders),
	}, nil
}

// Summary holds counts of migrated entities.
type Summary struct {
	Users     int
	Readings  int
	Reminders int
}
