package repository

import (
	"context"
	"errors"
	"sync"

	"ct-assessment/internal/domain"
)

var errDiskFull = errors.New("write refused")

// fakeStorage is an in-memory domain.Storage with switchable write failures,
// standing in for the Redis adapter.
type fakeStorage struct {
	mu       sync.Mutex
	data     map[string]string
	failSets bool
	sets     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string]string{}}
}

func (f *fakeStorage) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.failSets {
		return errDiskFull
	}
	f.data[key] = value
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}
