package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/config"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
)

// AuthHandlers serves the authentication routes.
type AuthHandlers struct {
	tokenService TokenService
	userRepo     user.UserRepository
	tenantRepo   tenant.TenantRepository
	sessionRepo  SessionRepository
	passwordSvc  user.PasswordService
	config       *config.Config
}

// NewAuthHandlers creates a new auth handler instance.
func NewAuthHandlers(
	tokenService TokenService,
	userRepo user.UserRepository,
	tenantRepo tenant.TenantRepository,
	sessionRepo SessionRepository,
	passwordSvc user.PasswordService,
	cfg *config.Config,
) *AuthHandlers {
	return &AuthHandlers{
		tokenService: tokenService,
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		sessionRepo:  sessionRepo,
		passwordSvc:  passwordSvc,
		config:       cfg,
	}
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string                   `json:"access_token"`
	RefreshToken string                   `json:"refresh_token"`
	TokenType    string                   `json:"token_type"`
	ExpiresIn    int                      `json:"expires_in"`
	User         user.UserDetailsDTO      `json:"user"`
	Tenant       *tenant.TenantDetailsDTO `json:"tenant,omitempty"`
	Menu         []iam.MenuItem           `json:"menu"`
}

// RefreshTokenRequest is the payload for renewing a token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRoutes registers the auth routes on Fiber.
func (ah *AuthHandlers) RegisterRoutes(router fiber.Router, authMiddleware *AuthMiddleware) {
	auth := router.Group("/auth")

	auth.Post("/login", ah.Login)
	auth.Post("/refresh", ah.RefreshToken)
	auth.Post("/logout", ah.Logout)
	auth.Get("/me", authMiddleware.Authenticate(), ah.GetCurrentUser)

	router.Get("/menu", authMiddleware.Authenticate(), ah.GetMenu)
}

// Login authenticates a username/password pair and issues a token pair.
func (ah *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	u, err := ah.userRepo.FindByUsername(c.Context(), username)
	if err != nil {
		// A missing account and a wrong password are indistinguishable to
		// the caller.
		return ErrInvalidCredentials()
	}

	if !ah.passwordSvc.VerifyPassword(u.PasswordHash, req.Password) {
		return ErrInvalidCredentials()
	}

	if !u.CanLogin() {
		return user.ErrUserInactive().WithDetail("user_id", u.ID.String())
	}

	var tenantDTO *tenant.TenantDetailsDTO
	if u.IsTenantScoped() {
		t, err := ah.tenantRepo.FindByID(c.Context(), u.EffectiveTenantID())
		if err != nil {
			return err
		}
		if !t.IsActive() {
			return tenant.ErrTenantInactive().WithDetail("tenant_id", t.ID.String())
		}
		dto := t.ToDTO()
		tenantDTO = &dto
	}

	resp, err := ah.issueTokens(c, u, tenantDTO)
	if err != nil {
		return err
	}

	u.UpdateLastLogin()
	if err := ah.userRepo.Save(c.Context(), *u); err != nil {
		logx.WithFields(logx.Fields{"user_id": u.ID.String()}).
			Warnf("failed to record last login: %v", err)
	}

	logx.WithFields(logx.Fields{
		"user_id": u.ID.String(),
		"role":    string(u.Role),
	}).Info("user logged in")

	return c.JSON(resp)
}

// RefreshToken redeems a refresh token for a new token pair. Sessions are
// single use; the old refresh token is consumed either way.
func (ah *AuthHandlers) RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken = c.Cookies(ah.config.Auth.Cookie.RefreshTokenName)
	}
	if refreshToken == "" {
		return ErrSessionNotFound()
	}

	session, err := ah.sessionRepo.Consume(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	if time.Now().After(session.ExpiresAt) {
		return ErrSessionNotFound().WithDetail("reason", "session expired")
	}

	u, err := ah.userRepo.FindByID(c.Context(), session.UserID)
	if err != nil {
		return err
	}
	if !u.CanLogin() {
		return user.ErrUserInactive().WithDetail("user_id", u.ID.String())
	}

	var tenantDTO *tenant.TenantDetailsDTO
	if u.IsTenantScoped() {
		t, err := ah.tenantRepo.FindByID(c.Context(), u.EffectiveTenantID())
		if err != nil {
			return err
		}
		if !t.IsActive() {
			return tenant.ErrTenantInactive().WithDetail("tenant_id", t.ID.String())
		}
		dto := t.ToDTO()
		tenantDTO = &dto
	}

	resp, err := ah.issueTokens(c, u, tenantDTO)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Logout revokes the refresh session and clears auth cookies.
func (ah *AuthHandlers) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(ah.config.Auth.Cookie.RefreshTokenName)
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken != "" {
		if err := ah.sessionRepo.Revoke(c.Context(), refreshToken); err != nil {
			logx.Warnf("failed to revoke session on logout: %v", err)
		}
	}

	ah.clearAuthCookies(c)

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GetCurrentUser returns the authenticated account.
func (ah *AuthHandlers) GetCurrentUser(c *fiber.Ctx) error {
	authContext, ok := GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	u, err := ah.userRepo.FindByID(c.Context(), *authContext.UserID)
	if err != nil {
		return err
	}

	response := fiber.Map{
		"user":   u.ToDTO(),
		"scopes": authContext.Scopes,
	}

	if u.IsTenantScoped() {
		t, err := ah.tenantRepo.FindByID(c.Context(), u.EffectiveTenantID())
		if err == nil {
			response["tenant"] = t.ToDTO()
		}
	}

	return c.JSON(response)
}

// GetMenu returns the navigation entries for the caller's role.
func (ah *AuthHandlers) GetMenu(c *fiber.Ctx) error {
	authContext, ok := GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	role, err := iam.ParseRole(authContext.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"role": role,
		"menu": iam.MenuFor(role),
	})
}

func (ah *AuthHandlers) issueTokens(c *fiber.Ctx, u *user.User, tenantDTO *tenant.TenantDetailsDTO) (*TokenResponse, error) {
	grantedScopes := scopes.ForRole(string(u.Role))

	accessToken, err := ah.tokenService.GenerateAccessToken(AccessTokenInput{
		UserID:   u.ID,
		TenantID: u.EffectiveTenantID(),
		Email:    u.Email,
		Name:     u.FullName,
		Role:     string(u.Role),
		Scopes:   grantedScopes,
	})
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	now := time.Now()
	session := RefreshSession{
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ah.config.Auth.JWT.RefreshTokenTTL),
	}
	if err := ah.sessionRepo.Store(c.Context(), refreshToken, session); err != nil {
		return nil, err
	}

	ah.setAuthCookies(c, accessToken, refreshToken)

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(ah.tokenService.AccessTokenTTL().Seconds()),
		User:         u.ToDTO(),
		Tenant:       tenantDTO,
		Menu:         iam.MenuFor(u.Role),
	}, nil
}

func (ah *AuthHandlers) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	cookieCfg := ah.config.Auth.Cookie

	c.Cookie(&fiber.Cookie{
		Name:     cookieCfg.AccessTokenName,
		Value:    accessToken,
		Domain:   cookieCfg.Domain,
		Path:     cookieCfg.Path,
		Secure:   cookieCfg.Secure,
		HTTPOnly: cookieCfg.HTTPOnly,
		SameSite: cookieCfg.SameSite,
		Expires:  time.Now().Add(ah.config.Auth.JWT.AccessTokenTTL),
	})

	c.Cookie(&fiber.Cookie{
		Name:     cookieCfg.RefreshTokenName,
		Value:    refreshToken,
		Domain:   cookieCfg.Domain,
		Path:     cookieCfg.Path,
		Secure:   cookieCfg.Secure,
		HTTPOnly: cookieCfg.HTTPOnly,
		SameSite: cookieCfg.SameSite,
		Expires:  time.Now().Add(ah.config.Auth.JWT.RefreshTokenTTL),
	})
}

func (ah *AuthHandlers) clearAuthCookies(c *fiber.Ctx) {
	cookieCfg := ah.config.Auth.Cookie
	expired := time.Now().Add(-time.Hour)

	for _, name := range []string{cookieCfg.AccessTokenName, cookieCfg.RefreshTokenName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Domain:   cookieCfg.Domain,
			Path:     cookieCfg.Path,
			Secure:   cookieCfg.Secure,
			HTTPOnly: cookieCfg.HTTPOnly,
			SameSite: cookieCfg.SameSite,
			Expires:  expired,
		})
	}
}
