package repository

import (
	"context"
	"time"

	"userAccounts/internal/models"
)

// timeoutUserRepository bounds every call of the wrapped repository by a fixed deadline.
type timeoutUserRepository struct {
	next    UserRepository
	timeout time.Duration
}

// WithTimeout returns next unchanged when timeout is not positive.
func WithTimeout(next UserRepository, timeout time.Duration) UserRepository {
	if timeout <= 0 {
		return next
	}
	return &timeoutUserRepository{next: next, timeout: timeout}
}

func (r *timeoutUserRepository) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *timeoutUserRepository) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.CreateUser(ctx, req)
}

func (r *timeoutUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.GetUserByID(ctx, userID)
}

func (r *timeoutUserRepository) GetPublicUserByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.GetPublicUserByID(ctx, userID)
}

func (r *timeoutUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.FindByEmailOrUsername(ctx, email, username)
}

func (r *timeoutUserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.UpdateRefreshToken(ctx, userID, refreshToken)
}

func (r *timeoutUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.ClearRefreshToken(ctx, userID)
}

func (r *timeoutUserRepository) UpdatePassword(ctx context.Context, userID, password string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.UpdatePassword(ctx, userID, password)
}

func (r *timeoutUserRepository) UpdateAccountDetails(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.UpdateAccountDetails(ctx, userID, req)
}

func (r *timeoutUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.UpdateAvatar(ctx, userID, avatarURL)
}

func (r *timeoutUserRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.next.UpdateCoverImage(ctx, userID, coverImageURL)
}
