package dto

import "ct-assessment/internal/domain"

// LoginRequest is the admin gate.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ChangePasswordRequest replaces the admin gate password.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// UpsertQuestionRequest creates or edits one question. A zero/absent ID
// means create.
type UpsertQuestionRequest struct {
	Question domain.Question `json:"question"`
}

// QuestionListResponse is the authored question set.
type QuestionListResponse struct {
	Questions []domain.Question `json:"questions"`
	Warning   string            `json:"warning,omitempty"`
}

// GenerateQuestionsRequest asks for AI-drafted candidates.
type GenerateQuestionsRequest struct {
	Age   int `json:"age"`
	Count int `json:"count"`
}

// ResultListResponse is the archive, newest-first.
type ResultListResponse struct {
	Results []domain.StoredAssessmentResult `json:"results"`
}

// ClientIDRequest supplies the Google application identifier.
type ClientIDRequest struct {
	ClientID string `json:"clientId"`
}

// GoogleStatusResponse reports the connection state.
type GoogleStatusResponse struct {
	Connected   bool   `json:"connected"`
	ClientIDSet bool   `json:"clientIdSet"`
	AuthURL     string `json:"authUrl,omitempty"`
}

// UploadResponse names the file created by a manual Drive upload.
type UploadResponse struct {
	FileName string `json:"fileName"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
