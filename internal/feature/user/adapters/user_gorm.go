// Package adapters provides the store implementations for the user feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// userGorm is the gorm implementation of usecase.UserRepository.
// It runs on PostgreSQL in production and SQLite locally and in tests.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check that userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a userGorm over db.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts the user, assigning a new UUID.
// A unique index violation is reported as *usecase.DuplicateKeyError.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	u.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return err
	}
	return nil
}

// FindByID returns usecase.ErrUserNotFound if no user has the ID.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByUsername returns usecase.ErrUserNotFound if no user has the username.
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByEmail returns usecase.ErrUserNotFound if no user has the email.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// UpdatePartial applies fields to the user and returns the fresh row.
func (r *userGorm) UpdatePartial(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if dup := duplicateKeyError(res.Error); dup != nil {
			return nil, dup
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// TouchLastLogin sets last_login without bumping updated_at.
func (r *userGorm) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).UpdateColumn("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userGorm) first(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// duplicateKeyError maps driver unique violations to *usecase.DuplicateKeyError.
// It returns nil for any other error.
func duplicateKeyError(err error) *usecase.DuplicateKeyError {
	var detail string
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		detail = pgErr.ConstraintName
	case errors.Is(err, gorm.ErrDuplicatedKey):
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		// SQLite reports "UNIQUE constraint failed: users.<column>".
		detail = err.Error()
	default:
		return nil
	}
	return &usecase.DuplicateKeyError{Field: fieldFromDetail(detail)}
}

func fieldFromDetail(detail string) string {
	switch {
	case strings.Contains(detail, "username"):
		return "username"
	case strings.Contains(detail, "email"):
		return "email"
	default:
		return ""
	}
}
