package userinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// PostgresUserRepository is the PostgreSQL implementation of UserRepository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a new user repository instance.
func NewPostgresUserRepository(db *sqlx.DB) user.UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = `
	id, tenant_id, username, email, full_name, role, password_hash,
	is_active, last_login_at, created_at, updated_at`

// FindByID looks up an account by ID.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`

	var u user.User
	err := r.db.GetContext(ctx, &u, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound().WithDetail("user_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find user by id", errx.TypeInternal).
			WithDetail("user_id", id.String())
	}

	return &u, nil
}

// FindByUsername looks up an account by its login name.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE username = $1`

	var u user.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound().WithDetail("username", username)
		}
		return nil, errx.Wrap(err, "failed to find user by username", errx.TypeInternal).
			WithDetail("username", username)
	}

	return &u, nil
}

// FindByTenant lists every account of a cooperative.
func (r *PostgresUserRepository) FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*user.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE tenant_id = $1 ORDER BY full_name ASC`

	var users []user.User
	err := r.db.SelectContext(ctx, &users, query, tenantID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find users by tenant", errx.TypeInternal).
			WithDetail("tenant_id", tenantID.String())
	}

	result := make([]*user.User, len(users))
	for i := range users {
		result[i] = &users[i]
	}

	return result, nil
}

// Save creates or updates an account.
func (r *PostgresUserRepository) Save(ctx context.Context, u user.User) error {
	exists, err := r.userExists(ctx, u.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check user existence", errx.TypeInternal)
	}

	if exists {
		return r.update(ctx, u)
	}
	return r.create(ctx, u)
}

func (r *PostgresUserRepository) create(ctx context.Context, u user.User) error {
	query := `
		INSERT INTO users (
			id, tenant_id, username, email, full_name, role, password_hash,
			is_active, last_login_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :username, :email, :full_name, :role, :password_hash,
			:is_active, :last_login_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return user.ErrUserAlreadyExists().
					WithDetail("username", u.Username)
			}
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).
			WithDetail("user_id", u.ID.String()).
			WithDetail("username", u.Username)
	}

	return nil
}

func (r *PostgresUserRepository) update(ctx context.Context, u user.User) error {
	query := `
		UPDATE users SET
			tenant_id = :tenant_id,
			username = :username,
			email = :email,
			full_name = :full_name,
			role = :role,
			password_hash = :password_hash,
			is_active = :is_active,
			last_login_at = :last_login_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return user.ErrUserAlreadyExists().
					WithDetail("username", u.Username)
			}
		}
		return errx.Wrap(err, "failed to update user", errx.TypeInternal).
			WithDetail("user_id", u.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return user.ErrUserNotFound().WithDetail("user_id", u.ID.String())
	}

	return nil
}

// Delete removes an account.
func (r *PostgresUserRepository) Delete(ctx context.Context, id kernel.UserID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete user", errx.TypeInternal).
			WithDetail("user_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return user.ErrUserNotFound().WithDetail("user_id", id.String())
	}

	return nil
}

// ExistsByUsername reports whether a login name is taken.
func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, errx.Wrap(err, "failed to check username existence", errx.TypeInternal).
			WithDetail("username", username)
	}

	return exists, nil
}

func (r *PostgresUserRepository) userExists(ctx context.Context, id kernel.UserID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id.String())
	return exists, err
}
