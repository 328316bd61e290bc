package auth

import (
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/config"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService(ttl time.Duration) *JWTService {
	return NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      "0123456789abcdef0123456789abcdef",
		AccessTokenTTL: ttl,
		Issuer:         "tkbm-coop",
		Audience:       []string{"tkbm-coop-api"},
	})
}

func TestJWTRoundTrip(t *testing.T) {
	svc := testJWTService(15 * time.Minute)

	userID := kernel.NewUserID()
	tenantID := kernel.NewTenantID()

	token, err := svc.GenerateAccessToken(AccessTokenInput{
		UserID:   userID,
		TenantID: tenantID,
		Email:    "budi@koperasi.example",
		Name:     "Budi Santoso",
		Role:     "ADMIN",
		Scopes:   []string{"jobs:*", "members:read"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "budi@koperasi.example", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, []string{"jobs:*", "members:read"}, claims.Scopes)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWTNilScopesBecomeEmpty(t *testing.T) {
	svc := testJWTService(time.Minute)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: kernel.NewUserID()})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims.Scopes)
	assert.Empty(t, claims.Scopes)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	svc := testJWTService(time.Minute)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: kernel.NewUserID()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token + "x")
	assert.Error(t, err)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	issuer := testJWTService(time.Minute)
	verifier := NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      "anothersecretkeyanothersecretkey",
		AccessTokenTTL: time.Minute,
		Issuer:         "tkbm-coop",
		Audience:       []string{"tkbm-coop-api"},
	})

	token, err := issuer.GenerateAccessToken(AccessTokenInput{UserID: kernel.NewUserID()})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: kernel.NewUserID()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}
