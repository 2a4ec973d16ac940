package repository

import (
	"context"
	"encoding/json"
	"sync"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/storage"

	"go.uber.org/zap"
)

// ResultArchive is the append-only log of completed assessment records,
// ordered newest-first. Local archival is unconditional: the archive is
// persisted on every Record call, and the remote mirror outcome never
// reverts it.
type ResultArchive struct {
	mu      sync.RWMutex
	storage domain.Storage
	results []domain.StoredAssessmentResult
	loaded  bool
}

// NewResultArchive creates a ResultArchive backed by the given storage.
func NewResultArchive(storage domain.Storage) *ResultArchive {
	return &ResultArchive{storage: storage}
}

func (a *ResultArchive) load(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	raw, err := a.storage.Get(ctx, storage.KeyResults)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			a.results = nil
			a.loaded = true
			return nil
		}
		return domain.NewStorageError("failed to load result archive", err)
	}
	var results []domain.StoredAssessmentResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return domain.NewInternalError("corrupt result archive in storage", err)
	}
	a.results = results
	a.loaded = true
	return nil
}

// Record prepends the result and persists the whole archive. A persistence
// failure keeps the in-memory prepend and is reported as a non-fatal
// storage error.
func (a *ResultArchive) Record(ctx context.Context, result *domain.StoredAssessmentResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.load(ctx); err != nil {
		return err
	}

	a.results = append([]domain.StoredAssessmentResult{*result}, a.results...)

	raw, err := json.Marshal(a.results)
	if err != nil {
		return domain.NewInternalError("failed to marshal result archive", err)
	}
	if err := a.storage.Set(ctx, storage.KeyResults, string(raw)); err != nil {
		logger.Get().Warn("result archive not persisted, record kept in memory",
			zap.Error(err),
			zap.Int64("resultID", result.ID))
		return domain.NewStorageError("failed to persist result archive", err)
	}
	return nil
}

// List returns a copy of the archive, newest-first.
func (a *ResultArchive) List(ctx context.Context) ([]domain.StoredAssessmentResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.load(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.StoredAssessmentResult, len(a.results))
	copy(out, a.results)
	return out, nil
}
