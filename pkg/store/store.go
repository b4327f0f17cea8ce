// Package store provides local key-value persistence for the companion
// client: saved credentials and conversation snapshots.
//
// Two implementations are provided: a BadgerDB-backed store for real runs
// and an in-memory store for tests.
package store

import (
	"context"
	"errors"
	"iter"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: not found")

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a flat key-value store.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a key-value pair, overwriting any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List iterates over entries whose key starts with prefix, in
	// lexicographic key order.
	List(ctx context.Context, prefix string) iter.Seq2[Entry, error]

	// Close releases any resources held by the store.
	Close() error
}
