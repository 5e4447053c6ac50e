package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the account record. PasswordHash and RefreshToken never leave the server.
type User struct {
	UserID       string         `json:"_id" db:"user_id"`
	Fullname     string         `json:"fullname" db:"fullname"`
	Email        string         `json:"email" db:"email"`
	Username     string         `json:"username" db:"username"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Avatar       string         `json:"avatar" db:"avatar"`
	CoverImage   string         `json:"coverImage" db:"cover_image"`
	RefreshToken sql.NullString `json:"-" db:"refresh_token"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

func (u *User) IsPasswordCorrect(password string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasRefreshToken reports whether token is the one currently stored on the account.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken.Valid && token != "" && u.RefreshToken.String == token
}

type CreateUserRequest struct {
	Fullname   string
	Email      string
	Username   string
	Password   string
	Avatar     string
	CoverImage string
}

type UpdateAccountRequest struct {
	Fullname *string
	Email    *string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest holds the register form; the file paths point at transient local copies.
type RegisterRequest struct {
	Fullname            string
	Email               string
	Username            string
	Password            string
	AvatarLocalPath     string
	CoverImageLocalPath string
}

type LoginRequest struct {
	Email    string
	Username string
	Password string
}
