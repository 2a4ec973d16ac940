package domain

import (
	"context"
	"errors"
)

// Sentinel errors surfaced by the remote adapters. The synchronizer keys its
// failure handling off these, never off provider-specific shapes.
var (
	// ErrNotConnected means no access token has been granted (or the last
	// one was invalidated).
	ErrNotConnected = errors.New("google account is not connected")
	// ErrSpreadsheetNotFound means the cached remote resource no longer
	// exists; the cached reference must be discarded so the next call
	// recreates it.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	// ErrRemoteUnauthorized means the bearer token was rejected; the
	// connection status must flip to disconnected.
	ErrRemoteUnauthorized = errors.New("remote call unauthorized")
)

// SpreadsheetClient is the remote tabular resource protocol: creation
// returns an opaque identifier, append writes a single flat row.
type SpreadsheetClient interface {
	Create(ctx context.Context, token, title string) (string, error)
	AppendRow(ctx context.Context, token, spreadsheetID string, row []interface{}) error
}

// FileUploader uploads a named document to the remote file-storage resource.
type FileUploader interface {
	Upload(ctx context.Context, token, name, mimeType string, content []byte) error
}

// TokenProvider hands out the short-lived bearer token for remote calls and
// invalidates it when a call reports an authorization error. Tokens live in
// volatile memory only.
type TokenProvider interface {
	Token() (string, error) // ErrNotConnected when no valid token is held
	Invalidate()
}

// QuestionGenerator produces draft questions for an age group. Drafts are
// returned for review, never persisted directly.
type QuestionGenerator interface {
	GenerateQuestionCandidates(ctx context.Context, age int, count int) ([]Question, error)
}
