package memdb

import (
	"context"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	count int64
}

func New() *Store {
	return &Store{}
}

func (db *Store) Increment(ctx context.Context) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.count++
	return db.count, nil
}

func (db *Store) Read(ctx context.Context) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.count, nil
}
