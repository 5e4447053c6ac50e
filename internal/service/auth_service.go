package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"userAccounts/internal/apperror"
	"userAccounts/internal/auth"
	"userAccounts/internal/config"
	"userAccounts/internal/models"
	"userAccounts/internal/repository"
	"userAccounts/internal/storage"
)

var errGeneratingTokens = apperror.Internal("Error generating tokens")

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GenerateAccessAndRefreshTokens(ctx context.Context, userID string) (*models.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	tokens   auth.TokenManager
	cfg      *config.Config
	log      logrus.FieldLogger
}

func NewAuthService(userRepo repository.UserRepository, storage storage.Storage, tokens auth.TokenManager, cfg *config.Config, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo: userRepo,
		storage:  storage,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fullname := strings.TrimSpace(req.Fullname)
	email := normalize(req.Email)
	username := normalize(req.Username)

	if fullname == "" || email == "" || username == "" || req.Password == "" {
		return nil, apperror.BadRequest("All fields are required")
	}

	// check if the user already exists
	existingUser, err := s.userRepo.FindByEmailOrUsername(ctx, email, username)
	if err == nil && existingUser != nil {
		return nil, apperror.Conflict("User with given email or username already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Internal("Error creating user").Wrap(err)
	}

	if req.AvatarLocalPath == "" {
		return nil, apperror.BadRequest("Avatar image is required")
	}

	avatarURL, err := uploadMedia(ctx, s.storage, s.cfg.MediaTimeout, req.AvatarLocalPath)
	if err != nil {
		return nil, apperror.Internal("Error uploading avatar image").Wrap(err)
	}

	// cover image is optional, a failed upload leaves it empty
	var coverImageURL string
	if req.CoverImageLocalPath != "" {
		coverImageURL, err = uploadMedia(ctx, s.storage, s.cfg.MediaTimeout, req.CoverImageLocalPath)
		if err != nil {
			s.log.WithError(err).WithField("username", username).Warn("cover image upload failed")
			coverImageURL = ""
		}
	}

	created, err := s.userRepo.CreateUser(ctx, models.CreateUserRequest{
		Fullname:   fullname,
		Email:      email,
		Username:   username,
		Password:   req.Password,
		Avatar:     avatarURL,
		CoverImage: coverImageURL,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"avatar":      avatarURL,
			"cover_image": coverImageURL,
		}).Warn("account not created, uploaded media left orphaned")

		if errors.Is(err, repository.ErrUserExists) {
			return nil, apperror.Conflict("User with given email or username already exists")
		}
		return nil, apperror.Internal("Error creating user").Wrap(err)
	}

	user, err := s.userRepo.GetPublicUserByID(ctx, created.UserID)
	if err != nil || user == nil {
		return nil, apperror.Internal("Error creating user").Wrap(err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	email := normalize(req.Email)
	username := normalize(req.Username)

	if email == "" && username == "" {
		return nil, apperror.BadRequest("Email or username is required")
	}

	user, err := s.userRepo.FindByEmailOrUsername(ctx, email, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal("Error logging in").Wrap(err)
	}

	if !user.IsPasswordCorrect(req.Password) {
		return nil, apperror.Unauthorized("Invalid password")
	}

	tokens, err := s.GenerateAccessAndRefreshTokens(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	loggedInUser, err := s.userRepo.GetPublicUserByID(ctx, user.UserID)
	if err != nil {
		return nil, apperror.Internal("Error logging in").Wrap(err)
	}

	return &models.LoginResult{
		User:         loggedInUser,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout clears the stored refresh token. A vanished account is not an error.
func (s *authService) Logout(ctx context.Context, userID string) error {
	err := s.userRepo.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return apperror.Internal("Error logging out").Wrap(err)
	}
	return nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperror.BadRequest("Refresh token is required")
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token").Wrap(err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token").Wrap(err)
	}

	if !user.HasRefreshToken(refreshToken) {
		return nil, apperror.Unauthorized("Refresh token is expired or used")
	}

	return s.GenerateAccessAndRefreshTokens(ctx, user.UserID)
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperror.BadRequest("Old and new password are required")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return apperror.Internal("Error changing password").Wrap(err)
	}

	if !user.IsPasswordCorrect(oldPassword) {
		return apperror.Unauthorized("Invalid old password")
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, newPassword); err != nil {
		return apperror.Internal("Error changing password").Wrap(err)
	}

	return nil
}

// GenerateAccessAndRefreshTokens signs a fresh pair and stores the refresh token on the account.
// Every failure is reported to the client as the same 500.
func (s *authService) GenerateAccessAndRefreshTokens(ctx context.Context, userID string) (*models.TokenPair, error) {
	logger := s.log.WithField("user_id", userID)

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("token generation: load account")
		return nil, errGeneratingTokens.Wrap(err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		logger.WithError(err).Error("token generation: sign access token")
		return nil, errGeneratingTokens.Wrap(err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		logger.WithError(err).Error("token generation: sign refresh token")
		return nil, errGeneratingTokens.Wrap(err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshToken); err != nil {
		logger.WithError(err).Error("token generation: store refresh token")
		return nil, errGeneratingTokens.Wrap(err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Authenticate resolves an access token to the account without sensitive columns.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}

	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid access token").Wrap(err)
	}

	user, err := s.userRepo.GetPublicUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Unauthorized("Invalid access token").Wrap(err)
	}
	if err != nil {
		return nil, apperror.Internal("Error loading user").Wrap(err)
	}

	return user, nil
}
