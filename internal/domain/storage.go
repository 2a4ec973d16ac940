package domain

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Storage.Get when no value exists for a key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Storage is the shared durable key-value space. Values are whole-document
// UTF-8 JSON blobs: every mutation rewrites the entire value for its key,
// there is no partial-update protocol. Each owning component writes only its
// own keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
