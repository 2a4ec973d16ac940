package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/dto"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/util"

	"go.uber.org/zap"
)

// Mirrorer is the backup synchronizer surface the session service depends
// on. Mirror outcomes never influence session transitions.
type Mirrorer interface {
	Mirror(ctx context.Context, result *domain.StoredAssessmentResult) error
}

// QuestionLister supplies the question snapshot captured at session start.
type QuestionLister interface {
	List(ctx context.Context) ([]domain.Question, error)
}

// Recorder persists completed results locally.
type Recorder interface {
	Record(ctx context.Context, result *domain.StoredAssessmentResult) error
}

// sessionEntry pairs a session with the mutex serializing operations on it.
// Session methods are not safe for concurrent use, and HTTP requests for the
// same session ID can arrive concurrently (a double-submitted advance, for
// example); the per-entry lock makes them take turns while distinct sessions
// proceed in parallel. Response snapshots are built under the same lock so
// no caller ever reads a session another request is mutating.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

// SessionService is the single controller owning all live sessions. No
// ambient singletons: every dependency is injected.
type SessionService struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionEntry
	questions QuestionLister
	archive   Recorder
	backup    Mirrorer
	now       func() time.Time

	// wg tracks in-flight mirror goroutines for a clean shutdown; tests use
	// it to observe that mirroring is detached from completion.
	wg sync.WaitGroup
}

// NewSessionService creates a SessionService.
func NewSessionService(questions QuestionLister, archive Recorder, backup Mirrorer) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*sessionEntry),
		questions: questions,
		archive:   archive,
		backup:    backup,
		now:       time.Now,
	}
}

// Create opens a new session at Welcome.
func (s *SessionService) Create() dto.SessionResponse {
	session := domain.NewSession(util.NewULID())
	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()
	return dto.NewSessionResponse(session)
}

func (s *SessionService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(id)
	}
	return entry, nil
}

// withSession runs fn on the session under its lock and returns the
// post-operation snapshot.
func (s *SessionService) withSession(id string, fn func(*domain.Session) error) (dto.SessionResponse, error) {
	entry, err := s.entry(id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return dto.SessionResponse{}, err
	}
	return dto.NewSessionResponse(entry.session), nil
}

// Get returns a snapshot of the session with the given ID.
func (s *SessionService) Get(id string) (dto.SessionResponse, error) {
	return s.withSession(id, func(*domain.Session) error { return nil })
}

// BeginIntake moves a session from Welcome into the profile-entry steps.
func (s *SessionService) BeginIntake(id string) (dto.SessionResponse, error) {
	return s.withSession(id, func(session *domain.Session) error {
		return session.BeginIntake()
	})
}

// SetExaminer records the examiner fields and advances to examinee entry.
func (s *SessionService) SetExaminer(id string, examiner domain.Examiner) (dto.SessionResponse, error) {
	return s.withSession(id, func(session *domain.Session) error {
		return session.SetExaminer(examiner)
	})
}

// Start captures a snapshot of the question store and moves the session into
// Quiz(0). With no questions configured the session stays at Welcome and the
// failure is returned.
func (s *SessionService) Start(ctx context.Context, sessionID string, profile domain.UserProfile) (dto.SessionResponse, error) {
	snapshot, err := s.questions.List(ctx)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	return s.withSession(sessionID, func(session *domain.Session) error {
		if err := session.Start(profile, snapshot); err != nil {
			return err
		}
		logger.Get().Info("assessment started",
			zap.String("sessionID", session.ID),
			zap.Int("questions", len(snapshot)))
		return nil
	})
}

// Answer records the pending selection for the session's current question.
func (s *SessionService) Answer(sessionID string, optionID int64) (dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *domain.Session) error {
		return session.Answer(optionID)
	})
}

// Advance moves the session forward. On the final question it assembles the
// result record, archives it locally (unconditional), transitions the
// session to Results, and only then hands the record to the backup
// synchronizer on a detached goroutine. No synchronizer error can propagate
// into the transition.
func (s *SessionService) Advance(ctx context.Context, sessionID string) (dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *domain.Session) error {
		result, err := session.Advance(s.now())
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}

		// Local archival is write-through; a storage failure is surfaced as a
		// warning but the session has already reached Results.
		var storageErr *domain.DomainError
		if err := s.archive.Record(ctx, result); err != nil {
			if errors.As(err, &storageErr) && storageErr.Code == domain.CodeStorage {
				logger.Get().Warn("result archived in memory only", zap.Error(err))
			} else {
				logger.Get().Error("failed to archive result", zap.Error(err))
			}
		}

		// The result record is immutable once assembled, so the goroutine
		// may read it after the session lock is released.
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// Detached from the request context: the mirror must not be
			// cancelled by the client finishing its request.
			if err := s.backup.Mirror(context.Background(), result); err != nil {
				if errors.Is(err, domain.ErrNotConnected) {
					logger.Get().Debug("mirror skipped, google account not connected",
						zap.Int64("resultID", result.ID))
					return
				}
				logger.Get().Warn("result mirror failed",
					zap.Error(err),
					zap.Int64("resultID", result.ID))
			}
		}()
		return nil
	})
}

// Restart returns a Results session to Welcome, preserving examiner fields.
func (s *SessionService) Restart(sessionID string) (dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *domain.Session) error {
		return session.Restart()
	})
}

// Wait blocks until all in-flight mirror operations have finished.
func (s *SessionService) Wait() {
	s.wg.Wait()
}
