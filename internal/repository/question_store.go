package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/storage"

	"go.uber.org/zap"
)

// QuestionStore owns the authored question set. The in-memory list is the
// source of truth; every successful mutation writes the full list through to
// durable storage. A persistence failure is reported to the caller but does
// not roll back the in-memory change: authoring continues in a degraded,
// non-durable mode.
type QuestionStore struct {
	mu        sync.RWMutex
	storage   domain.Storage
	questions []domain.Question
	loaded    bool
	// nowMillis generates identities for new questions; overridable in tests.
	nowMillis func() int64
}

// NewQuestionStore creates a QuestionStore backed by the given storage.
func NewQuestionStore(storage domain.Storage) *QuestionStore {
	return &QuestionStore{
		storage:   storage,
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *QuestionStore) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, err := s.storage.Get(ctx, storage.KeyQuestions)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			s.questions = nil
			s.loaded = true
			return nil
		}
		return domain.NewStorageError("failed to load question list", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return domain.NewInternalError("corrupt question list in storage", err)
	}
	s.questions = questions
	s.loaded = true
	return nil
}

func (s *QuestionStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.questions)
	if err != nil {
		return domain.NewInternalError("failed to marshal question list", err)
	}
	if err := s.storage.Set(ctx, storage.KeyQuestions, string(raw)); err != nil {
		logger.Get().Warn("question list not persisted, continuing non-durable",
			zap.Error(err),
			zap.Int("count", len(s.questions)))
		return domain.NewStorageError("failed to persist question list", err)
	}
	return nil
}

// List returns a copy of the current question set.
func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

// Upsert validates and stores a question. A zero ID gets a fresh
// millisecond-timestamp identity; an existing ID replaces the matching entry
// in place, preserving its position. The returned error may be a
// STORAGE_ERROR even though the in-memory mutation was applied.
func (s *QuestionStore) Upsert(ctx context.Context, q domain.Question) (domain.Question, error) {
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return domain.Question{}, err
	}

	if q.ID == 0 {
		// Collision of two authoring actions in the same millisecond is an
		// accepted, extremely low-probability risk.
		q.ID = s.nowMillis()
		s.questions = append(s.questions, q)
	} else {
		replaced := false
		for i := range s.questions {
			if s.questions[i].ID == q.ID {
				s.questions[i] = q
				replaced = true
				break
			}
		}
		if !replaced {
			s.questions = append(s.questions, q)
		}
	}

	return q, s.persist(ctx)
}

// Remove deletes by identity. Already-stored results are unaffected: their
// details were denormalized at recording time.
func (s *QuestionStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return err
	}

	kept := s.questions[:0]
	found := false
	for _, q := range s.questions {
		if q.ID == id {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return domain.NewNotFoundError("question not found")
	}
	s.questions = kept

	return s.persist(ctx)
}
