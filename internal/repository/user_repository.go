package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"userAccounts/internal/models"
)

// publicColumns leaves out password_hash and refresh_token.
const publicColumns = `user_id, fullname, email, username, avatar, cover_image, created_at, updated_at`

const uniqueViolation = "23505"

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *userRepository) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:       uuid.New().String(),
		Fullname:     req.Fullname,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Avatar:       req.Avatar,
		CoverImage:   req.CoverImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (user_id, fullname, email, username, password_hash, avatar, cover_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		user.UserID,
		user.Fullname,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Avatar,
		user.CoverImage,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetPublicUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + publicColumns + ` FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get public user by id: %w", err)
	}

	return &user, nil
}

// FindByEmailOrUsername matches either column; an empty value never matches.
func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE (email = $1 AND $1 <> '') OR (username = $2 AND $2 <> '')
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &user, query, email, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email or username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	query := `UPDATE users SET refresh_token = $1 WHERE user_id = $2`

	return r.execAffectingUser(ctx, "update refresh token", query, refreshToken, userID)
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token = NULL WHERE user_id = $1`

	return r.execAffectingUser(ctx, "clear refresh token", query, userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	query := `UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`

	return r.execAffectingUser(ctx, "update password", query, string(hashedPassword), userID)
}

func (r *userRepository) UpdateAccountDetails(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error) {
	query := `
		UPDATE users SET
			fullname = COALESCE($1, fullname),
			email = COALESCE($2, email),
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $3
		RETURNING ` + publicColumns

	var fullname, email sql.NullString
	if req.Fullname != nil {
		fullname = sql.NullString{String: *req.Fullname, Valid: true}
	}
	if req.Email != nil {
		email = sql.NullString{String: *req.Email, Valid: true}
	}

	return r.updateReturning(ctx, "update account details", query, fullname, email, userID)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users SET avatar = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
		RETURNING ` + publicColumns

	return r.updateReturning(ctx, "update avatar", query, avatarURL, userID)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*models.User, error) {
	query := `
		UPDATE users SET cover_image = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
		RETURNING ` + publicColumns

	return r.updateReturning(ctx, "update cover image", query, coverImageURL, userID)
}

func (r *userRepository) execAffectingUser(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: check affected rows: %w", op, err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) updateReturning(ctx context.Context, op, query string, args ...any) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrUserNotFound
		case isUniqueViolation(err):
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}
