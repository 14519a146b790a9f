package monitor

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var samplesBucket = []byte("samples")

// ErrReportNotFound is returned by Store.Get for unknown keys.
var ErrReportNotFound = errors.New("monitor: report not found")

// Store persists sample reports in a bbolt database. Keys are the 16-byte
// run ID followed by the big-endian sequence number, so the reports of one
// run are contiguous and ordered.
type Store struct {
	db *bolt.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("monitor: failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(samplesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("monitor: failed to create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func reportKey(runID uuid.UUID, seq uint64) []byte {
	key := make([]byte, len(runID)+8)
	copy(key, runID[:])
	binary.BigEndian.PutUint64(key[len(runID):], seq)
	return key
}

// Put stores r under its run ID and sequence number, replacing any
// previous report with the same key.
func (s *Store) Put(r Report) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("monitor: failed to encode report: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(samplesBucket).Put(reportKey(r.RunID, r.Sequence), value)
	})
}

// Get returns the report with the given run ID and sequence number.
func (s *Store) Get(runID uuid.UUID, seq uint64) (Report, error) {
	var r Report
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(samplesBucket).Get(reportKey(runID, seq))
		if v == nil {
			return ErrReportNotFound
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// List returns the reports of one run in sequence order.
func (s *Store) List(runID uuid.UUID) ([]Report, error) {
	var reports []Report
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(samplesBucket).Cursor()
		prefix := runID[:]
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var r Report
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("monitor: corrupt report %x: %w", k, err)
			}
			reports = append(reports, r)
		}
		return nil
	})
	return reports, err
}

// Runs returns the distinct run IDs in the store.
func (s *Store) Runs() ([]uuid.UUID, error) {
	var runs []uuid.UUID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(samplesBucket).ForEach(func(k, _ []byte) error {
			id, err := uuid.FromBytes(k[:16])
			if err != nil {
				return err
			}
			if len(runs) == 0 || runs[len(runs)-1] != id {
				runs = append(runs, id)
			}
			return nil
		})
	})
	return runs, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
