package domain

import "time"

// SessionState names a node of the assessment flow.
type SessionState string

const (
	StateWelcome       SessionState = "WELCOME"
	StateExaminerInfo  SessionState = "EXAMINER_INFO"
	StateExamineeInfo  SessionState = "EXAMINEE_INFO"
	StateQuiz          SessionState = "QUIZ"
	StateResults       SessionState = "RESULTS"
	StateBuilder       SessionState = "BUILDER"
	StateAdminSettings SessionState = "ADMIN_SETTINGS"
)

// Session is one examinee's pass through the question set:
// Welcome -> ExaminerInfo -> ExamineeInfo -> Quiz(i) -> Results, with an
// orthogonal Builder/AdminSettings branch reachable from Welcome. The
// session owns only the transient response accumulator; completed results
// are handed off to the archive by the caller.
//
// A session is driven by a single examinee sitting (one logical thread of
// control); its methods are not safe for concurrent use. The session
// service serializes requests on a session with a per-session lock.
type Session struct {
	ID       string
	State    SessionState
	Profile  UserProfile
	Examiner Examiner

	// quiz sub-machine over index into the administered snapshot
	questions []Question
	index     int
	pending   *int64
	responses []QuizResponse

	Result *StoredAssessmentResult
}

// NewSession returns a session parked at Welcome.
func NewSession(id string) *Session {
	return &Session{ID: id, State: StateWelcome}
}

// BeginIntake moves from Welcome into the profile-entry steps. When the
// examiner fields are already captured from a previous run the examiner
// screen is skipped.
func (s *Session) BeginIntake() error {
	if s.State != StateWelcome {
		return NewInvalidTransitionError(s.State, "beginIntake")
	}
	if s.Examiner.Name != "" {
		s.State = StateExamineeInfo
	} else {
		s.State = StateExaminerInfo
	}
	return nil
}

// SetExaminer records the examiner fields and advances to examinee entry.
func (s *Session) SetExaminer(examiner Examiner) error {
	if s.State != StateExaminerInfo {
		return NewInvalidTransitionError(s.State, "setExaminer")
	}
	s.Examiner = examiner
	s.State = StateExamineeInfo
	return nil
}

// Start captures the profile and the question snapshot and enters Quiz(0).
// An empty snapshot fails with a no-questions-configured condition and the
// state is unchanged. The snapshot is a copy: editing the store mid-session
// does not affect a session in progress.
func (s *Session) Start(profile UserProfile, snapshot []Question) error {
	if s.State != StateWelcome && s.State != StateExamineeInfo {
		return NewInvalidTransitionError(s.State, "start")
	}
	if len(snapshot) == 0 {
		return NewNoQuestionsError()
	}
	if profile.ExaminerName != "" {
		s.Examiner = profile.ExaminerInfo()
	} else {
		profile.ExaminerName = s.Examiner.Name
		profile.ExaminerAge = s.Examiner.Age
		profile.ExaminerGender = s.Examiner.Gender
	}
	s.Profile = profile
	s.questions = make([]Question, len(snapshot))
	copy(s.questions, snapshot)
	s.index = 0
	s.pending = nil
	s.responses = make([]QuizResponse, 0, len(snapshot))
	s.Result = nil
	s.State = StateQuiz
	return nil
}

// Current returns the question at the quiz index.
func (s *Session) Current() (*Question, error) {
	if s.State != StateQuiz {
		return nil, NewInvalidTransitionError(s.State, "current")
	}
	return &s.questions[s.index], nil
}

// Index returns the zero-based quiz position and the snapshot size.
func (s *Session) Index() (int, int) {
	return s.index, len(s.questions)
}

// Answer records the pending selection for the current question. Selecting
// again before advancing overwrites it: last write wins, no history of
// changed minds.
func (s *Session) Answer(optionID int64) error {
	if s.State != StateQuiz {
		return NewInvalidTransitionError(s.State, "answer")
	}
	if s.questions[s.index].OptionByID(optionID) == nil {
		return NewInvalidInputError("selected option does not exist")
	}
	s.pending = &optionID
	return nil
}

// Advance commits the pending selection as a QuizResponse and moves to the
// next question, or finalizes the session. It is blocked while no option has
// been selected for the current question. On finalization the assembled
// result is stored on the session and returned; the caller archives and
// mirrors it.
func (s *Session) Advance(now time.Time) (*StoredAssessmentResult, error) {
	if s.State != StateQuiz {
		return nil, NewInvalidTransitionError(s.State, "advance")
	}
	if s.pending == nil {
		return nil, NewError(CodeNoSelection, "no option selected for the current question", nil)
	}

	q := s.questions[s.index]
	s.responses = append(s.responses, QuizResponse{
		QuestionID:       q.ID,
		SelectedOptionID: *s.pending,
		Correct:          *s.pending == q.CorrectOptionID,
		Category:         q.Category,
	})
	s.pending = nil

	if s.index+1 < len(s.questions) {
		s.index++
		return nil, nil
	}

	s.Result = NewAssessmentResult(s.Profile, s.questions, s.responses, now)
	s.State = StateResults
	return s.Result, nil
}

// Restart clears the accumulator and returns to Welcome, keeping the
// examiner fields so a repeat operator does not re-enter their own info for
// the next child.
func (s *Session) Restart() error {
	if s.State != StateResults {
		return NewInvalidTransitionError(s.State, "restart")
	}
	s.Examiner = s.Profile.ExaminerInfo()
	s.Profile = UserProfile{
		ExaminerName:    s.Examiner.Name,
		ExaminerAge:     s.Examiner.Age,
		ExaminerGender:  s.Examiner.Gender,
		TestTitle:       s.Profile.TestTitle,
		TestDescription: s.Profile.TestDescription,
	}
	s.questions = nil
	s.index = 0
	s.pending = nil
	s.responses = nil
	s.Result = nil
	s.State = StateWelcome
	return nil
}

// EnterBuilder and EnterAdmin open the authoring branches from Welcome.
func (s *Session) EnterBuilder() error {
	if s.State != StateWelcome {
		return NewInvalidTransitionError(s.State, "enterBuilder")
	}
	s.State = StateBuilder
	return nil
}

func (s *Session) EnterAdmin() error {
	if s.State != StateWelcome {
		return NewInvalidTransitionError(s.State, "enterAdmin")
	}
	s.State = StateAdminSettings
	return nil
}

// ExitToWelcome leaves a Builder or AdminSettings branch.
func (s *Session) ExitToWelcome() error {
	if s.State != StateBuilder && s.State != StateAdminSettings {
		return NewInvalidTransitionError(s.State, "exit")
	}
	s.State = StateWelcome
	return nil
}

// Responses returns a copy of the committed responses.
func (s *Session) Responses() []QuizResponse {
	out := make([]QuizResponse, len(s.responses))
	copy(out, s.responses)
	return out
}
