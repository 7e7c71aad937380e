package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/pkg/database"
)

const userColumns = `id, user_name, email, password_hash, role, status, telephone, address, refresh_token_hash, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, user_name, email, password_hash, role, status, telephone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Status == "" {
		user.Status = domain.StatusUnverified
	}
	user.Email = strings.ToLower(user.Email)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.UserName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.Telephone,
		user.Address,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// SetRefreshToken replaces the stored refresh token digest unconditionally
func (r *userRepository) SetRefreshToken(ctx context.Context, userID string, tokenHash *string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET refresh_token_hash = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, tokenHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	return requireAffected(result, userID)
}

// RotateRefreshToken swaps the stored digest only while it still equals oldHash
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	if err := checkUserID(userID); err != nil {
		return false, err
	}

	query := `
		UPDATE users
		SET refresh_token_hash = $3, updated_at = $4
		WHERE id = $1 AND refresh_token_hash = $2
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, oldHash, newHash, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// UpdateStatus changes the account status. Banning also revokes the session.
func (r *userRepository) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET status = $2,
		    refresh_token_hash = CASE WHEN $4 THEN NULL ELSE refresh_token_hash END,
		    updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, status, time.Now().UTC(), status == domain.StatusBanned)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	return requireAffected(result, userID)
}

// UpdateRole changes the user's role
func (r *userRepository) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET role = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return requireAffected(result, userID)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var refreshTokenHash sql.NullString

	err := row.Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.Telephone,
		&user.Address,
		&refreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if refreshTokenHash.Valid {
		user.RefreshTokenHash = &refreshTokenHash.String
	}

	return user, nil
}

func requireAffected(result sql.Result, userID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
	}

	return nil
}

// checkUserID rejects ids the uuid column could never hold
func checkUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}
