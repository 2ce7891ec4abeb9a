package dataset

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	bolt "go.etcd.io/bbolt"
)

const bookKeyBytes = 8

// BoltSink stores records in a bbolt file keyed by book id. Keys are
// big-endian so iteration follows id order.
type BoltSink struct {
	db *bolt.DB
}

// OpenBoltSink opens or creates the bbolt file at path.
func OpenBoltSink(path string) (*BoltSink, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		err := os.MkdirAll(dir, constants.DataDirPerm)
		if err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, constants.ConfigFilePerm, &bolt.Options{Timeout: constants.BoltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(constants.BoltBooksBucket))

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &BoltSink{db: db}, nil
}

// Name implements Sink.Name.
func (s *BoltSink) Name() string {
	return constants.SinkBolt
}

// Write implements Sink.Write. An existing record for bookID is replaced.
func (s *BoltSink) Write(_ context.Context, bookID int, record litnet.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding book %d: %w", bookID, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(constants.BoltBooksBucket))
		if bucket == nil {
			return constants.ErrMissingBookBucket
		}

		return bucket.Put(bookKey(bookID), data)
	})
}

// Get returns the stored record of bookID, or nil if absent.
func (s *BoltSink) Get(bookID int) (litnet.Record, error) {
	var record litnet.Record

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(constants.BoltBooksBucket))
		if bucket == nil {
			return constants.ErrMissingBookBucket
		}

		data := bucket.Get(bookKey(bookID))
		if data == nil {
			return nil
		}

		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, fmt.Errorf("reading book %d: %w", bookID, err)
	}

	return record, nil
}

// IDs returns the stored book ids in ascending order.
func (s *BoltSink) IDs() ([]int, error) {
	var ids []int

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(constants.BoltBooksBucket))
		if bucket == nil {
			return constants.ErrMissingBookBucket
		}

		return bucket.ForEach(func(key, _ []byte) error {
			if len(key) == bookKeyBytes {
				ids = append(ids, int(binary.BigEndian.Uint64(key)))
			}

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	return ids, nil
}

// Close implements Sink.Close.
func (s *BoltSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func bookKey(bookID int) []byte {
	key := make([]byte, bookKeyBytes)
	binary.BigEndian.PutUint64(key, uint64(bookID))

	return key
}
