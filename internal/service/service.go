package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"userAccounts/internal/auth"
	"userAccounts/internal/config"
	"userAccounts/internal/repository"
	"userAccounts/internal/storage"
)

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, tokens auth.TokenManager, log logrus.FieldLogger) *Service {
	return &Service{
		Auth: NewAuthService(rep.User, storage, tokens, cfg, log),
		User: NewUserService(rep.User, storage, cfg, log),
	}
}

// uploadMedia sends a local file to the media host within the configured deadline.
// An empty URL counts as a failure.
func uploadMedia(ctx context.Context, store storage.Storage, timeout time.Duration, localPath string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	url, err := store.UploadFile(ctx, localPath)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", errors.New("media host returned an empty url")
	}

	return url, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
