package service

import (
	"context"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/repository"

	"go.uber.org/zap"
)

// AuthoringService fronts the question store for the admin console and adds
// AI-drafted question candidates.
type AuthoringService struct {
	store     *repository.QuestionStore
	generator domain.QuestionGenerator
}

// NewAuthoringService creates an AuthoringService. generator may be nil when
// no generation backend is configured.
func NewAuthoringService(store *repository.QuestionStore, generator domain.QuestionGenerator) *AuthoringService {
	return &AuthoringService{store: store, generator: generator}
}

// List returns the authored question set.
func (a *AuthoringService) List(ctx context.Context) ([]domain.Question, error) {
	return a.store.List(ctx)
}

// Upsert validates and stores one question.
func (a *AuthoringService) Upsert(ctx context.Context, q domain.Question) (domain.Question, error) {
	return a.store.Upsert(ctx, q)
}

// Remove deletes one question by identity.
func (a *AuthoringService) Remove(ctx context.Context, id int64) error {
	return a.store.Remove(ctx, id)
}

// GenerateCandidates asks the generation backend for draft questions. Drafts
// that fail validation are dropped; nothing is persisted here.
func (a *AuthoringService) GenerateCandidates(ctx context.Context, age, count int) ([]domain.Question, error) {
	if a.generator == nil {
		return nil, domain.NewError(domain.CodeGenerationError, "question generation is not configured", nil)
	}
	if count <= 0 {
		count = 5
	}
	if count > 20 {
		count = 20
	}

	drafts, err := a.generator.GenerateQuestionCandidates(ctx, age, count)
	if err != nil {
		return nil, domain.NewError(domain.CodeGenerationError, "failed to generate question candidates", err)
	}

	valid := make([]domain.Question, 0, len(drafts))
	for _, d := range drafts {
		d.ID = 0 // identity is assigned on upsert, never by the generator
		if err := d.Validate(); err != nil {
			logger.Get().Warn("dropping invalid generated question", zap.Error(err))
			continue
		}
		valid = append(valid, d)
	}
	return valid, nil
}
