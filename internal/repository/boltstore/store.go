// Package boltstore persists the directory in a bbolt file. Churches are
// kept as JSON values under zero-padded sequence keys so a cursor walk
// returns them in directory order.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"churchmap/internal/domain/entities"
)

const bucketChurches = "churches"

// Store is a repository.ChurchRepository on top of bbolt.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketChurches))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns every church in stored order.
func (s *Store) Load(ctx context.Context) ([]entities.Church, error) {
	churches := []entities.Church{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketChurches)).ForEach(func(k, v []byte) error {
			var c entities.Church
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decoding church at %s: %w", k, err)
			}
			churches = append(churches, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return churches, nil
}

// Save replaces the stored directory in one transaction.
func (s *Store) Save(ctx context.Context, churches []entities.Church) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketChurches)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucketChurches))
		if err != nil {
			return err
		}
		for i, c := range churches {
			v, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("encoding church %s: %w", c.ID, err)
			}
			if err := b.Put([]byte(fmt.Sprintf("%010d", i)), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
