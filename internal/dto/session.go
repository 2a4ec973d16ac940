package dto

import "ct-assessment/internal/domain"

// StartSessionRequest carries the full profile collected on the intake
// screens.
type StartSessionRequest struct {
	Profile domain.UserProfile `json:"profile"`
}

// SetExaminerRequest carries the examiner-info step.
type SetExaminerRequest struct {
	Examiner domain.Examiner `json:"examiner"`
}

// AnswerRequest records a selection for the current question.
type AnswerRequest struct {
	OptionID int64 `json:"optionId"`
}

// QuestionView is a question as served to the examinee: the correct option
// and the explanation are withheld.
type QuestionView struct {
	ID       int64             `json:"id"`
	Category domain.CTCategory `json:"category"`
	Text     string            `json:"questionText"`
	ImageRef string            `json:"questionImageUrl,omitempty"`
	AudioRef string            `json:"audioUrl,omitempty"`
	Options  []domain.Option   `json:"options"`
}

// SessionResponse is the state-machine snapshot returned by every session
// endpoint.
type SessionResponse struct {
	SessionID string                         `json:"sessionId"`
	State     domain.SessionState            `json:"state"`
	Index     int                            `json:"index,omitempty"`
	Total     int                            `json:"total,omitempty"`
	Question  *QuestionView                  `json:"question,omitempty"`
	Result    *domain.StoredAssessmentResult `json:"result,omitempty"`
	Warning   string                         `json:"warning,omitempty"`
}

// NewSessionResponse builds the snapshot for a session.
func NewSessionResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		SessionID: s.ID,
		State:     s.State,
	}
	if s.State == domain.StateQuiz {
		index, total := s.Index()
		resp.Index = index
		resp.Total = total
		if q, err := s.Current(); err == nil {
			resp.Question = &QuestionView{
				ID:       q.ID,
				Category: q.Category,
				Text:     q.Text,
				ImageRef: q.ImageRef,
				AudioRef: q.AudioRef,
				Options:  q.Options,
			}
		}
	}
	if s.State == domain.StateResults {
		resp.Result = s.Result
	}
	return resp
}
