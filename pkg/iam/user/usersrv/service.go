package usersrv

import (
	"context"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
)

// UserService coordinates account management.
type UserService struct {
	userRepo    user.UserRepository
	passwordSvc user.PasswordService
}

// NewUserService creates a new user service instance.
func NewUserService(userRepo user.UserRepository, passwordSvc user.PasswordService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

// CreateUser registers a dashboard account. Every role except the superadmin
// must be bound to a cooperative.
func (s *UserService) CreateUser(ctx context.Context, auth *kernel.AuthContext, req user.CreateUserRequest) (*user.User, error) {
	role, err := iam.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if role.IsTenantScoped() && (req.TenantID == nil || req.TenantID.IsEmpty()) {
		return nil, user.ErrTenantRequired().WithDetail("role", string(role))
	}

	// Tenant-scoped admins can only create accounts inside their own cooperative.
	if auth != nil && !auth.TenantID.IsEmpty() {
		if req.TenantID == nil || *req.TenantID != auth.TenantID {
			return nil, iam.ErrForbidden().WithDetail("reason", "cannot create accounts for another cooperative")
		}
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrUserAlreadyExists().WithDetail("username", username)
	}

	hash, err := s.passwordSvc.HashPassword(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now()
	u := user.User{
		ID:           kernel.NewUserID(),
		TenantID:     req.TenantID,
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     req.FullName,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if role == iam.RoleSuperadmin {
		u.TenantID = nil
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"role":     string(u.Role),
	}).Info("user account created")

	return &u, nil
}

// GetUser fetches an account, enforcing tenant boundaries for scoped actors.
func (s *UserService) GetUser(ctx context.Context, auth *kernel.AuthContext, id kernel.UserID) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guardTenant(auth, u); err != nil {
		return nil, err
	}

	return u, nil
}

// ListByTenant lists the accounts of one cooperative.
func (s *UserService) ListByTenant(ctx context.Context, auth *kernel.AuthContext, tenantID kernel.TenantID) ([]*user.User, error) {
	if auth != nil && !auth.TenantID.IsEmpty() && auth.TenantID != tenantID {
		return nil, iam.ErrForbidden().WithDetail("reason", "cannot list accounts of another cooperative")
	}
	return s.userRepo.FindByTenant(ctx, tenantID)
}

// UpdateUser edits an account's mutable fields.
func (s *UserService) UpdateUser(ctx context.Context, auth *kernel.AuthContext, id kernel.UserID, req user.UpdateUserRequest) (*user.User, error) {
	u, err := s.GetUser(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil || req.Email != nil {
		fullName := ""
		email := ""
		if req.FullName != nil {
			fullName = *req.FullName
		}
		if req.Email != nil {
			email = *req.Email
		}
		u.UpdateProfile(fullName, email)
	}

	if req.IsActive != nil {
		if *req.IsActive {
			u.Activate()
		} else {
			u.Deactivate()
		}
	}

	if err := s.userRepo.Save(ctx, *u); err != nil {
		return nil, err
	}

	return u, nil
}

// ChangePassword replaces an account's password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, auth *kernel.AuthContext, id kernel.UserID, oldPassword, newPassword string) error {
	u, err := s.GetUser(ctx, auth, id)
	if err != nil {
		return err
	}

	if !s.passwordSvc.VerifyPassword(u.PasswordHash, oldPassword) {
		return iam.ErrUnauthorized().WithDetail("reason", "current password does not match")
	}

	hash, err := s.passwordSvc.HashPassword(newPassword)
	if err != nil {
		return errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()

	return s.userRepo.Save(ctx, *u)
}

// DeactivateUser blocks an account from signing in without deleting it.
func (s *UserService) DeactivateUser(ctx context.Context, auth *kernel.AuthContext, id kernel.UserID) error {
	u, err := s.GetUser(ctx, auth, id)
	if err != nil {
		return err
	}

	u.Deactivate()
	return s.userRepo.Save(ctx, *u)
}

func (s *UserService) guardTenant(auth *kernel.AuthContext, u *user.User) error {
	if auth == nil || auth.TenantID.IsEmpty() {
		return nil
	}
	if u.TenantID == nil || *u.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "account belongs to another cooperative")
	}
	return nil
}
