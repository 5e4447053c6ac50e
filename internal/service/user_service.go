package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"userAccounts/internal/apperror"
	"userAccounts/internal/config"
	"userAccounts/internal/models"
	"userAccounts/internal/repository"
	"userAccounts/internal/storage"
)

type UserService interface {
	UpdateAccountDetails(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	cfg      *config.Config
	log      logrus.FieldLogger
}

func NewUserService(userRepo repository.UserRepository, storage storage.Storage, cfg *config.Config, log logrus.FieldLogger) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
		cfg:      cfg,
		log:      log,
	}
}

// UpdateAccountDetails changes only the fields that were provided. Blank values count as absent.
func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error) {
	var update models.UpdateAccountRequest

	if req.Fullname != nil {
		if fullname := strings.TrimSpace(*req.Fullname); fullname != "" {
			update.Fullname = &fullname
		}
	}
	if req.Email != nil {
		if email := normalize(*req.Email); email != "" {
			update.Email = &email
		}
	}

	if update.Fullname == nil && update.Email == nil {
		return nil, apperror.BadRequest("At least one of fullName or email is required")
	}

	user, err := s.userRepo.UpdateAccountDetails(ctx, userID, update)
	switch {
	case errors.Is(err, repository.ErrUserExists):
		return nil, apperror.Conflict("Email is already in use")
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, apperror.NotFound("User not found")
	case err != nil:
		return nil, apperror.Internal("Error updating account details").Wrap(err)
	}

	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, apperror.BadRequest("Avatar file is missing")
	}

	avatarURL, err := uploadMedia(ctx, s.storage, s.cfg.MediaTimeout, localPath)
	if err != nil {
		return nil, apperror.BadRequest("Error while uploading avatar").Wrap(err)
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL)
	if err != nil {
		return nil, s.mediaUpdateError(err, userID, avatarURL)
	}

	return user, nil
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, apperror.BadRequest("Cover image file is missing")
	}

	coverImageURL, err := uploadMedia(ctx, s.storage, s.cfg.MediaTimeout, localPath)
	if err != nil {
		return nil, apperror.BadRequest("Error while uploading cover image").Wrap(err)
	}

	user, err := s.userRepo.UpdateCoverImage(ctx, userID, coverImageURL)
	if err != nil {
		return nil, s.mediaUpdateError(err, userID, coverImageURL)
	}

	return user, nil
}

func (s *userService) mediaUpdateError(err error, userID, url string) error {
	s.log.WithError(err).WithFields(logrus.Fields{
		"user_id": userID,
		"url":     url,
	}).Warn("account not updated, uploaded media left orphaned")

	if errors.Is(err, repository.ErrUserNotFound) {
		return apperror.NotFound("User not found")
	}
	return apperror.Internal("Error updating user").Wrap(err)
}
