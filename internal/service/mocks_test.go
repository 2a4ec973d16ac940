package service

import (
	"context"
	"errors"
	"sync"

	"ct-assessment/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionLister ---
type MockQuestionLister struct {
	mock.Mock
}

func (m *MockQuestionLister) List(ctx context.Context) ([]domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// --- MockRecorder ---
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, result *domain.StoredAssessmentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- MockMirrorer ---
type MockMirrorer struct {
	mock.Mock
}

func (m *MockMirrorer) Mirror(ctx context.Context, result *domain.StoredAssessmentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- MockResultLister ---
type MockResultLister struct {
	mock.Mock
}

func (m *MockResultLister) List(ctx context.Context) ([]domain.StoredAssessmentResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredAssessmentResult), args.Error(1)
}

// --- MockSpreadsheetClient ---
type MockSpreadsheetClient struct {
	mock.Mock
}

func (m *MockSpreadsheetClient) Create(ctx context.Context, token, title string) (string, error) {
	args := m.Called(ctx, token, title)
	return args.String(0), args.Error(1)
}

func (m *MockSpreadsheetClient) AppendRow(ctx context.Context, token, spreadsheetID string, row []interface{}) error {
	args := m.Called(ctx, token, spreadsheetID, row)
	return args.Error(0)
}

// --- MockFileUploader ---
type MockFileUploader struct {
	mock.Mock
}

func (m *MockFileUploader) Upload(ctx context.Context, token, name, mimeType string, content []byte) error {
	args := m.Called(ctx, token, name, mimeType, content)
	return args.Error(0)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestionCandidates(ctx context.Context, age, count int) ([]domain.Question, error) {
	args := m.Called(ctx, age, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// --- stubTokenProvider ---
// A stateful stand-in for GoogleConnection: returns a fixed token and
// remembers invalidation.
type stubTokenProvider struct {
	mu          sync.Mutex
	token       string
	invalidated bool
}

func (s *stubTokenProvider) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", domain.ErrNotConnected
	}
	return s.token, nil
}

func (s *stubTokenProvider) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.invalidated = true
}

func (s *stubTokenProvider) wasInvalidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

var errWriteRefused = errors.New("write refused")

// --- fakeStorage ---
// In-memory domain.Storage for the services that persist settings and
// cached references.
type fakeStorage struct {
	mu       sync.Mutex
	data     map[string]string
	failSets bool
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
	if f.failSets {
		return errWriteRefused
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
