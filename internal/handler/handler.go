package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"userAccounts/internal/config"
	"userAccounts/internal/service"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	AuthService service.AuthService
	UserService service.UserService
	DB          HealthChecker
	Cfg         *config.Config
	Validate    *validator.Validate
	Log         logrus.FieldLogger
}

func NewHandlers(service *service.Service, db HealthChecker, config *config.Config, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		AuthService: service.Auth,
		UserService: service.User,
		DB:          db,
		Cfg:         config,
		Validate:    validator.New(),
		Log:         log,
	}
}
