package auth

import (
	"context"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// TokenClaims are the decoded contents of a validated access token.
type TokenClaims struct {
	UserID    kernel.UserID
	TenantID  kernel.TenantID
	Email     string
	Name      string
	Role      string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessTokenInput carries everything that goes into a signed access token.
type AccessTokenInput struct {
	UserID   kernel.UserID
	TenantID kernel.TenantID
	Email    string
	Name     string
	Role     string
	Scopes   []string
}

// TokenService defines the contract for issuing and validating access tokens.
type TokenService interface {
	GenerateAccessToken(in AccessTokenInput) (string, error)
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
	AccessTokenTTL() time.Duration
}

// RefreshSession is a server-side session backing one refresh token. The
// token string itself is the lookup key and is never stored in the payload.
type RefreshSession struct {
	UserID    kernel.UserID `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// SessionRepository defines the contract for refresh session storage.
// Consume removes the session as it reads it, so a refresh token can only
// ever be redeemed once.
type SessionRepository interface {
	Store(ctx context.Context, token string, session RefreshSession) error
	Consume(ctx context.Context, token string) (*RefreshSession, error)
	Revoke(ctx context.Context, token string) error
}
