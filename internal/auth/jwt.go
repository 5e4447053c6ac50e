package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"userAccounts/internal/config"
	"userAccounts/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims identify the caller on protected routes.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// RefreshClaims only carry the account id.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
}

type TokenManager interface {
	GenerateAccessToken(user *models.User) (string, error)
	GenerateRefreshToken(user *models.User) (string, error)
	ParseAccessToken(tokenString string) (*AccessClaims, error)
	ParseRefreshToken(tokenString string) (*RefreshClaims, error)
}

type tokenManager struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	now             func() time.Time
}

func NewTokenManager(cfg config.Tokens) TokenManager {
	return &tokenManager{
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
		now:             time.Now,
	}
}

func (m *tokenManager) registered(duration time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}
}

func (m *tokenManager) GenerateAccessToken(user *models.User) (string, error) {
	if user == nil || user.UserID == "" {
		return "", errors.New("access token: missing user id")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: m.registered(m.accessDuration),
		UserID:           user.UserID,
		Email:            user.Email,
		Username:         user.Username,
		Fullname:         user.Fullname,
	})

	tokenString, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return tokenString, nil
}

func (m *tokenManager) GenerateRefreshToken(user *models.User) (string, error) {
	if user == nil || user.UserID == "" {
		return "", errors.New("refresh token: missing user id")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: m.registered(m.refreshDuration),
		UserID:           user.UserID,
	})

	tokenString, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return tokenString, nil
}

func (m *tokenManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenString, claims, m.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *tokenManager) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims, m.refreshSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *tokenManager) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// checking the signature algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
