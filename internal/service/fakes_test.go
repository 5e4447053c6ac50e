package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"userAccounts/internal/models"
	"userAccounts/internal/repository"
)

// memoryUserRepository keeps accounts in a map and mimics the unique indexes.
type memoryUserRepository struct {
	mu      sync.Mutex
	users   map[string]*models.User
	created int
	failOn  map[string]error
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{
		users:  make(map[string]*models.User),
		failOn: make(map[string]error),
	}
}

func (r *memoryUserRepository) fail(method string) error {
	return r.failOn[method]
}

func (r *memoryUserRepository) seed(fullname, email, username, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	now := time.Now()
	user := &models.User{
		UserID:       uuid.New().String(),
		Fullname:     fullname,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Avatar:       "http://media.test/avatar.png",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[user.UserID] = user
	return user
}

func (r *memoryUserRepository) stored(userID string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.users[userID]
	return &copied
}

func (r *memoryUserRepository) CreateUser(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := r.fail("CreateUser"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == req.Email || u.Username == req.Username {
			return nil, repository.ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		UserID:       uuid.New().String(),
		Fullname:     req.Fullname,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Avatar:       req.Avatar,
		CoverImage:   req.CoverImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[user.UserID] = user
	r.created++

	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	if err := r.fail("GetUserByID"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) GetPublicUserByID(ctx context.Context, userID string) (*models.User, error) {
	if err := r.fail("GetPublicUserByID"); err != nil {
		return nil, err
	}
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.RefreshToken = sql.NullString{}
	return user, nil
}

func (r *memoryUserRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	if err := r.fail("FindByEmailOrUsername"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepository) update(userID string, fn func(u *models.User) error) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()

	copied := *user
	copied.PasswordHash = ""
	copied.RefreshToken = sql.NullString{}
	return &copied, nil
}

func (r *memoryUserRepository) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	if err := r.fail("UpdateRefreshToken"); err != nil {
		return err
	}
	_, err := r.update(userID, func(u *models.User) error {
		u.RefreshToken = sql.NullString{String: refreshToken, Valid: true}
		return nil
	})
	return err
}

func (r *memoryUserRepository) ClearRefreshToken(_ context.Context, userID string) error {
	if err := r.fail("ClearRefreshToken"); err != nil {
		return err
	}
	_, err := r.update(userID, func(u *models.User) error {
		u.RefreshToken = sql.NullString{}
		return nil
	})
	return err
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, userID, password string) error {
	if err := r.fail("UpdatePassword"); err != nil {
		return err
	}
	_, err := r.update(userID, func(u *models.User) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
		return nil
	})
	return err
}

func (r *memoryUserRepository) UpdateAccountDetails(_ context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error) {
	if err := r.fail("UpdateAccountDetails"); err != nil {
		return nil, err
	}
	if req.Email != nil {
		r.mu.Lock()
		for id, u := range r.users {
			if id != userID && u.Email == *req.Email {
				r.mu.Unlock()
				return nil, repository.ErrUserExists
			}
		}
		r.mu.Unlock()
	}
	return r.update(userID, func(u *models.User) error {
		if req.Fullname != nil {
			u.Fullname = *req.Fullname
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		return nil
	})
}

func (r *memoryUserRepository) UpdateAvatar(_ context.Context, userID, avatarURL string) (*models.User, error) {
	if err := r.fail("UpdateAvatar"); err != nil {
		return nil, err
	}
	return r.update(userID, func(u *models.User) error {
		u.Avatar = avatarURL
		return nil
	})
}

func (r *memoryUserRepository) UpdateCoverImage(_ context.Context, userID, coverImageURL string) (*models.User, error) {
	if err := r.fail("UpdateCoverImage"); err != nil {
		return nil, err
	}
	return r.update(userID, func(u *models.User) error {
		u.CoverImage = coverImageURL
		return nil
	})
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

var errStore = errors.New("connection reset")
