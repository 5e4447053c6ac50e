package handlers

import (
	"net/http"
	"time"

	"userAccounts/internal/models"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func (h *Handlers) authCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
	}
}

func (h *Handlers) setAuthCookies(w http.ResponseWriter, tokens *models.TokenPair) {
	http.SetCookie(w, h.authCookie(AccessTokenCookie, tokens.AccessToken))
	http.SetCookie(w, h.authCookie(RefreshTokenCookie, tokens.RefreshToken))
}

func (h *Handlers) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := h.authCookie(name, "")
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}
