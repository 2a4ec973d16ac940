package service

import (
	"context"
	"time"

	"ct-assessment/internal/config"
	"ct-assessment/internal/domain"
	"ct-assessment/internal/storage"
	"ct-assessment/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthService guards the admin console. The password is a plaintext
// local gate, not a trust boundary; the issued JWT only carries the gate
// across HTTP requests.
type AdminAuthService struct {
	storage domain.Storage
	cfg     config.AdminConfig
}

// NewAdminAuthService creates an AdminAuthService.
func NewAdminAuthService(st domain.Storage, cfg config.AdminConfig) (*AdminAuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, domain.NewInternalError("admin JWT secret is not configured", nil)
	}
	return &AdminAuthService{storage: st, cfg: cfg}, nil
}

func (a *AdminAuthService) currentPassword(ctx context.Context) (string, error) {
	pw, err := a.storage.Get(ctx, storage.KeyAdminPassword)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return a.cfg.DefaultPassword, nil
		}
		return "", domain.NewStorageError("failed to read admin password", err)
	}
	return pw, nil
}

// Login checks the password and issues a short-lived admin token.
func (a *AdminAuthService) Login(ctx context.Context, password string) (string, error) {
	current, err := a.currentPassword(ctx)
	if err != nil {
		return "", err
	}
	if password != current {
		return "", domain.NewError(domain.CodeUnauthorized, "wrong admin password", nil)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        util.NewULID(),
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", domain.NewInternalError("failed to sign admin token", err)
	}
	return signed, nil
}

// Validate parses and verifies an admin token.
func (a *AdminAuthService) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewError(domain.CodeUnauthorized, "unexpected signing method", nil)
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.NewError(domain.CodeUnauthorized, "invalid admin token", err)
	}
	return nil
}

// ChangePassword replaces the stored gate password.
func (a *AdminAuthService) ChangePassword(ctx context.Context, newPassword string) error {
	if len(newPassword) < 4 {
		return domain.NewInvalidInputError("password must be at least 4 characters")
	}
	if err := a.storage.Set(ctx, storage.KeyAdminPassword, newPassword); err != nil {
		return domain.NewStorageError("failed to persist admin password", err)
	}
	return nil
}
