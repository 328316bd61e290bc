package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// ============================================================================
// User Entity
// ============================================================================

// User is an account that can sign in to the dashboard. Every user except the
// superadmin belongs to exactly one cooperative (tenant); the superadmin has
// no tenant and sees data across all of them.
type User struct {
	ID           kernel.UserID    `db:"id" json:"id"`
	TenantID     *kernel.TenantID `db:"tenant_id" json:"tenant_id,omitempty"`
	Username     string           `db:"username" json:"username"`
	Email        string           `db:"email" json:"email"`
	FullName     string           `db:"full_name" json:"full_name"`
	Role         iam.Role         `db:"role" json:"role"`
	PasswordHash string           `db:"password_hash" json:"-"`
	IsActive     bool             `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time       `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool {
	return u.IsActive
}

// IsTenantScoped reports whether the account only sees its own cooperative.
func (u *User) IsTenantScoped() bool {
	return u.Role.IsTenantScoped()
}

// EffectiveTenantID returns the tenant the account is bound to, or the empty
// ID for the superadmin.
func (u *User) EffectiveTenantID() kernel.TenantID {
	if u.TenantID == nil {
		return kernel.TenantID("")
	}
	return *u.TenantID
}

// Deactivate marks the account as unable to sign in.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// Activate re-enables a deactivated account.
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

// UpdateLastLogin records a successful sign-in.
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// UpdateProfile updates mutable profile fields, ignoring empty values.
func (u *User) UpdateProfile(fullName, email string) {
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(email))
	}
	u.UpdatedAt = time.Now()
}

// ============================================================================
// DTOs
// ============================================================================

// UserDetailsDTO is the account view exposed to other modules and the API.
type UserDetailsDTO struct {
	ID       kernel.UserID    `json:"id"`
	TenantID *kernel.TenantID `json:"tenant_id,omitempty"`
	Username string           `json:"username"`
	Email    string           `json:"email"`
	FullName string           `json:"full_name"`
	Role     iam.Role         `json:"role"`
	RoleName string           `json:"role_name"`
	IsActive bool             `json:"is_active"`
}

// ToDTO converts the User entity to UserDetailsDTO.
func (u *User) ToDTO() UserDetailsDTO {
	return UserDetailsDTO{
		ID:       u.ID,
		TenantID: u.TenantID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		RoleName: u.Role.DisplayName(),
		IsActive: u.IsActive,
	}
}

// CreateUserRequest is the payload for registering a dashboard account.
type CreateUserRequest struct {
	TenantID *kernel.TenantID `json:"tenant_id,omitempty"`
	Username string           `json:"username" validate:"required,min=3"`
	Email    string           `json:"email" validate:"required,email"`
	FullName string           `json:"full_name" validate:"required,min=2"`
	Role     string           `json:"role" validate:"required"`
	Password string           `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest is the payload for editing an account.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeUserAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "User already exists")
	CodeUserInactive      = ErrRegistry.Register("INACTIVE", errx.TypeBusiness, http.StatusForbidden, "User account is deactivated")
	CodeTenantRequired    = ErrRegistry.Register("TENANT_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A cooperative is required for this role")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrUserAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeUserAlreadyExists)
}

func ErrUserInactive() *errx.Error {
	return ErrRegistry.New(CodeUserInactive)
}

func ErrTenantRequired() *errx.Error {
	return ErrRegistry.New(CodeTenantRequired)
}
