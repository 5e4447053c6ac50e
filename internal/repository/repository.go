package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"userAccounts/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with given email or username already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetPublicUserByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, password string) error
	UpdateAccountDetails(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*models.User, error)
}

type Repository struct {
	User UserRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User: NewUserRepository(db),
	}
}
