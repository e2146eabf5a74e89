// Package bolt persists navigation stacks in a local bbolt file, the way an
// app keeps its navigation state on the device between launches.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
	bolt "go.etcd.io/bbolt"
)

var stacksBucket = []byte("stacks")

// Store implements ports.StateStore on a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open stack database: %w", err)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the stacks bucket if needed.
func New(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(stacksBucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", stacksBucket, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save persists the stack.
func (s *Store) Save(ctx context.Context, sessionID string, stack *domain.Stack) error {
	data, err := json.Marshal(stack)
	if err != nil {
		return fmt.Errorf("failed to marshal stack: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stacksBucket).Put([]byte(sessionID), data)
	})
}

// Load retrieves the stack.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Stack, error) {
	var stack domain.Stack
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(stacksBucket).Get([]byte(sessionID))
		if data == nil {
			return domain.ErrSessionNotFound
		}
		// data is only valid inside the transaction; Unmarshal copies it.
		if err := json.Unmarshal(data, &stack); err != nil {
			return fmt.Errorf("failed to unmarshal stack: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stack, nil
}

// Delete removes the stack.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stacksBucket).Delete([]byte(sessionID))
	})
}

// List returns the stored session IDs in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(stacksBucket).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
