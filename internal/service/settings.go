package service

import (
	"context"
	"encoding/json"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/storage"
)

// HomepageSettings is the admin-managed welcome screen customization. Image
// references are opaque strings (URL or inline-encoded binary).
type HomepageSettings struct {
	TestTitle       string `json:"testTitle"`
	TestDescription string `json:"testDescription"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	MainImage       string `json:"mainImage,omitempty"`
}

const (
	defaultTestTitle       = "웹기반 유아 컴퓨팅 사고력 검사"
	defaultTestDescription = "유아 컴퓨팅 사고력 검사를 실시합니다."
)

// SettingsService owns the homepage customization document.
type SettingsService struct {
	storage domain.Storage
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(st domain.Storage) *SettingsService {
	return &SettingsService{storage: st}
}

// Homepage returns the stored customization, falling back to the defaults.
func (s *SettingsService) Homepage(ctx context.Context) (HomepageSettings, error) {
	defaults := HomepageSettings{
		TestTitle:       defaultTestTitle,
		TestDescription: defaultTestDescription,
	}
	raw, err := s.storage.Get(ctx, storage.KeyHomepage)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return defaults, nil
		}
		return defaults, domain.NewStorageError("failed to read homepage settings", err)
	}
	var settings HomepageSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return defaults, domain.NewInternalError("corrupt homepage settings", err)
	}
	if settings.TestTitle == "" {
		settings.TestTitle = defaultTestTitle
	}
	if settings.TestDescription == "" {
		settings.TestDescription = defaultTestDescription
	}
	return settings, nil
}

// SaveHomepage rewrites the customization document. Oversized inline images
// surface as a storage error; the caller treats it as a non-fatal warning.
func (s *SettingsService) SaveHomepage(ctx context.Context, settings HomepageSettings) error {
	if settings.TestTitle == "" {
		return domain.NewInvalidInputError("test title is required")
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return domain.NewInternalError("failed to marshal homepage settings", err)
	}
	if err := s.storage.Set(ctx, storage.KeyHomepage, string(raw)); err != nil {
		return domain.NewStorageError("failed to persist homepage settings", err)
	}
	return nil
}
