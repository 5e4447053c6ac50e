package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"userAccounts/internal/auth"
	"userAccounts/internal/config"
	"userAccounts/internal/database"
	"userAccounts/internal/repository"
	"userAccounts/internal/service"
	"userAccounts/internal/storage"
)

func App(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to the database")
	}

	// media host
	mediaStorage, err := storage.New(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.MediaBackend).Fatal("failed to initialize media storage")
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	repo.User = repository.WithTimeout(repo.User, cfg.StoreTimeout)

	tokens := auth.NewTokenManager(cfg.Tokens)

	services := service.NewService(repo, cfg, mediaStorage, tokens, log)

	return db, repo, services
}
