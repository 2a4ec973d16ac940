package service

import (
	"context"
	"strings"
	"sync"

	"ct-assessment/internal/config"
	"ct-assessment/internal/domain"
	"ct-assessment/internal/logger"
	"ct-assessment/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	sheetsScope    = "https://www.googleapis.com/auth/spreadsheets"
	driveFileScope = "https://www.googleapis.com/auth/drive.file"

	// clientIDSuffix is a usability guard on the administrator-supplied
	// client ID, not a security control.
	clientIDSuffix = "apps.googleusercontent.com"
)

// GoogleConnection manages the authorization sub-protocol with Google: a
// durable, administrator-supplied client ID, an interactive consent grant,
// and a bearer token held in volatile memory only. The token is treated as
// expired the moment any remote call reports an authorization error.
//
// It implements domain.TokenProvider for the backup synchronizer.
type GoogleConnection struct {
	mu      sync.Mutex
	storage domain.Storage
	cfg     config.GoogleConfig
	token   string // never persisted
}

// NewGoogleConnection creates a GoogleConnection backed by the given storage.
func NewGoogleConnection(st domain.Storage, cfg config.GoogleConfig) *GoogleConnection {
	return &GoogleConnection{storage: st, cfg: cfg}
}

// SetClientID validates and persists the application identifier. Validation
// is a superficial format check only.
func (g *GoogleConnection) SetClientID(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.NewInvalidInputError("client ID is required")
	}
	if !strings.Contains(clientID, clientIDSuffix) {
		return domain.NewInvalidInputError("client ID must contain " + clientIDSuffix)
	}
	if err := g.storage.Set(ctx, storage.KeyClientID, clientID); err != nil {
		return domain.NewStorageError("failed to persist client ID", err)
	}
	return nil
}

// ClientID returns the persisted application identifier, or empty when none
// has been supplied.
func (g *GoogleConnection) ClientID(ctx context.Context) (string, error) {
	id, err := g.storage.Get(ctx, storage.KeyClientID)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return "", nil
		}
		return "", domain.NewStorageError("failed to read client ID", err)
	}
	// Self-heal a previously stored malformed value.
	if !strings.Contains(id, clientIDSuffix) {
		logger.Get().Warn("stored client ID has invalid format, clearing", zap.String("clientID", id))
		_ = g.storage.Delete(ctx, storage.KeyClientID)
		return "", nil
	}
	return id, nil
}

// ResetClientID discards the persisted identifier so the administrator can
// enter a new one.
func (g *GoogleConnection) ResetClientID(ctx context.Context) error {
	if err := g.storage.Delete(ctx, storage.KeyClientID); err != nil {
		return domain.NewStorageError("failed to delete client ID", err)
	}
	g.Invalidate()
	return nil
}

func (g *GoogleConnection) oauthConfig(clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: g.cfg.ClientSecret,
		RedirectURL:  g.cfg.RedirectURL,
		Scopes:       []string{sheetsScope, driveFileScope},
		Endpoint:     google.Endpoint,
	}
}

// AuthURL builds the consent URL for the interactive grant. It requires a
// previously supplied client ID.
func (g *GoogleConnection) AuthURL(ctx context.Context, state string) (string, error) {
	clientID, err := g.ClientID(ctx)
	if err != nil {
		return "", err
	}
	if clientID == "" {
		return "", domain.NewError(domain.CodeNotConnected, "no client ID configured", nil)
	}
	return g.oauthConfig(clientID).AuthCodeURL(state), nil
}

// HandleCallback exchanges the consent code for a bearer token. A mismatched
// state or a failed exchange leaves the connection untouched. The resulting
// token lives in memory only.
func (g *GoogleConnection) HandleCallback(ctx context.Context, code, receivedState, expectedState string) error {
	if receivedState != expectedState {
		return domain.NewError(domain.CodeUnauthorized, "oauth state mismatch", nil)
	}
	clientID, err := g.ClientID(ctx)
	if err != nil {
		return err
	}
	if clientID == "" {
		return domain.NewError(domain.CodeNotConnected, "no client ID configured", nil)
	}

	tok, err := g.oauthConfig(clientID).Exchange(ctx, code)
	if err != nil {
		return domain.NewError(domain.CodeRemoteUnauthorized, "failed to exchange oauth code", err)
	}

	g.mu.Lock()
	g.token = tok.AccessToken
	g.mu.Unlock()
	logger.Get().Info("google account connected")
	return nil
}

// Token implements domain.TokenProvider.
func (g *GoogleConnection) Token() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == "" {
		return "", domain.ErrNotConnected
	}
	return g.token, nil
}

// Invalidate implements domain.TokenProvider. It flips the connection status
// to disconnected so the next attempt re-prompts for authorization.
func (g *GoogleConnection) Invalidate() {
	g.mu.Lock()
	hadToken := g.token != ""
	g.token = ""
	g.mu.Unlock()
	if hadToken {
		logger.Get().Info("google connection invalidated, re-authorization required")
	}
}

// Connected reports whether a token is currently held.
func (g *GoogleConnection) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != ""
}
