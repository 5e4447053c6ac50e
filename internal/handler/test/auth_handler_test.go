package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"userAccounts/internal/apperror"
	"userAccounts/internal/models"
)

func registerValues() map[string]string {
	return map[string]string{
		"fullname": "Ann Lee",
		"email":    "ann@x.io",
		"username": "AnnL",
		"password": "p@ss1234",
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	env := newTestEnv(t)

	var avatarPath string
	env.auth.On("Register", mock.Anything, mock.MatchedBy(func(req models.RegisterRequest) bool {
		avatarPath = req.AvatarLocalPath
		_, statErr := os.Stat(req.AvatarLocalPath)
		return req.Fullname == "Ann Lee" &&
			req.Email == "ann@x.io" &&
			req.Username == "AnnL" &&
			req.Password == "p@ss1234" &&
			strings.HasSuffix(req.AvatarLocalPath, ".png") &&
			statErr == nil &&
			req.CoverImageLocalPath == ""
	})).Return(&models.User{
		UserID:       "user-1",
		Fullname:     "Ann Lee",
		Email:        "ann@x.io",
		Username:     "annl",
		PasswordHash: "$2a$10$secret",
		Avatar:       "http://media.test/a.png",
	}, nil)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registerValues(),
		formFile{field: "avatar", name: "me.png", content: pngHeader})
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Equal(t, http.StatusOK, body.StatusCode)
	assert.True(t, body.Success)
	assert.Equal(t, "User registered successfully", body.Message)

	var user map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, "annl", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "refreshToken")
	assert.NotContains(t, rr.Body.String(), "secret")

	// the temp copy is gone once the request is served
	_, err := os.Stat(avatarPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRegisterHandler_Validation(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(values map[string]string)
		expectedMessage string
	}{
		{
			name:            "missing fullname",
			mutate:          func(v map[string]string) { delete(v, "fullname") },
			expectedMessage: "All fields are required",
		},
		{
			name:            "blank username",
			mutate:          func(v map[string]string) { v["username"] = "   " },
			expectedMessage: "All fields are required",
		},
		{
			name:            "missing password",
			mutate:          func(v map[string]string) { delete(v, "password") },
			expectedMessage: "All fields are required",
		},
		{
			name: "missing field wins over bad email",
			mutate: func(v map[string]string) {
				v["email"] = "nope"
				v["fullname"] = ""
			},
			expectedMessage: "All fields are required",
		},
		{
			name:            "bad email",
			mutate:          func(v map[string]string) { v["email"] = "not-an-email" },
			expectedMessage: "Invalid email format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			values := registerValues()
			tt.mutate(values)

			req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", values,
				formFile{field: "avatar", name: "me.png", content: pngHeader})
			rr := httptest.NewRecorder()

			env.handler.Register(rr, req)

			assertJSONError(t, rr, http.StatusBadRequest, tt.expectedMessage)
			env.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterHandler_PasswordIsNotTrimmed(t *testing.T) {
	env := newTestEnv(t)
	env.auth.On("Register", mock.Anything, mock.MatchedBy(func(req models.RegisterRequest) bool {
		return req.Password == "    "
	})).Return(&models.User{UserID: "user-1", Username: "annl"}, nil)

	values := registerValues()
	values["password"] = "    "
	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", values,
		formFile{field: "avatar", name: "me.png", content: pngHeader})
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestRegisterHandler_WithoutAvatar(t *testing.T) {
	env := newTestEnv(t)
	env.auth.On("Register", mock.Anything, mock.MatchedBy(func(req models.RegisterRequest) bool {
		return req.AvatarLocalPath == ""
	})).Return(nil, apperror.BadRequest("Avatar image is required"))

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registerValues())
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assertJSONError(t, rr, http.StatusBadRequest, "Avatar image is required")
}

func TestRegisterHandler_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.auth.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperror.Conflict("User with given email or username already exists"))

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registerValues(),
		formFile{field: "avatar", name: "me.png", content: pngHeader})
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assertJSONError(t, rr, http.StatusConflict, "User with given email or username already exists")
}

func TestRegisterHandler_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registerValues(),
		formFile{field: "avatar", name: "me.png", content: []byte("just some text pretending")})
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assertJSONError(t, rr, http.StatusBadRequest, "Only image files are allowed")

	entries, err := os.ReadDir(env.handler.Cfg.UploadTempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegisterHandler_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	env.handler.Cfg.MaxUploadSize = 1024

	big := append(append([]byte{}, pngHeader...), make([]byte, 4096)...)
	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", registerValues(),
		formFile{field: "avatar", name: "me.png", content: big})
	rr := httptest.NewRecorder()

	env.handler.Register(rr, req)

	assertJSONError(t, rr, http.StatusBadRequest, "File too large (max 1.0 KiB)")
}

func TestLoginHandler(t *testing.T) {
	t.Run("success sets both cookies", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("Login", mock.Anything, models.LoginRequest{Username: "AnnL", Password: "p@ss1234"}).
			Return(&models.LoginResult{
				User:         &models.User{UserID: "user-1", Username: "annl"},
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
			}, nil)

		rr := httptest.NewRecorder()
		env.handler.Login(rr, jsonRequest(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"username": "AnnL",
			"password": "p@ss1234",
		}))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "User logged in successfully", body.Message)

		var data map[string]any
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, "access-1", data["accessToken"])
		assert.Equal(t, "refresh-1", data["refreshToken"])
		assert.Contains(t, data, "user")

		cookies := map[string]*http.Cookie{}
		for _, c := range rr.Result().Cookies() {
			cookies[c.Name] = c
		}
		require.Contains(t, cookies, "accessToken")
		require.Contains(t, cookies, "refreshToken")
		assert.Equal(t, "access-1", cookies["accessToken"].Value)
		assert.Equal(t, "refresh-1", cookies["refreshToken"].Value)
		for _, c := range cookies {
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
			assert.Equal(t, "/", c.Path)
		}
	})

	t.Run("form encoded body", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("Login", mock.Anything, models.LoginRequest{Email: "ann@x.io", Password: "p@ss1234"}).
			Return(&models.LoginResult{User: &models.User{UserID: "user-1"}, AccessToken: "a", RefreshToken: "r"}, nil)

		form := url.Values{"email": {"ann@x.io"}, "password": {"p@ss1234"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong password sets no cookies", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Unauthorized("Invalid password"))

		rr := httptest.NewRecorder()
		env.handler.Login(rr, jsonRequest(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"username": "annl",
			"password": "wrong",
		}))

		assertJSONError(t, rr, http.StatusUnauthorized, "Invalid password")
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("oversized body", func(t *testing.T) {
		env := newTestEnv(t)

		body := `{"username":"` + strings.Repeat("a", 2<<20) + `","password":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "Request body too large")
		env.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		env.handler.Login(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "Invalid request body")
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("clears cookies", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("Logout", mock.Anything, "user-1").Return(nil)

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil), &models.User{UserID: "user-1"})
		rr := httptest.NewRecorder()

		env.handler.Logout(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "null", string(body.Data))
		assert.Equal(t, "User logged out successfully", body.Message)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, c := range cookies {
			assert.Empty(t, c.Value)
			assert.Less(t, c.MaxAge, 0)
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
		}
	})

	t.Run("no user in context", func(t *testing.T) {
		env := newTestEnv(t)

		rr := httptest.NewRecorder()
		env.handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))

		assertJSONError(t, rr, http.StatusUnauthorized, "Unauthorized request")
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	pair := &models.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}

	t.Run("from cookie", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("RefreshTokens", mock.Anything, "refresh-1").Return(pair, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-1"})
		rr := httptest.NewRecorder()

		env.handler.RefreshToken(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeEnvelope(t, rr)
		assert.Equal(t, "Access token refreshed", body.Message)
		assert.JSONEq(t, `{"accessToken":"access-2","refreshToken":"refresh-2"}`, string(body.Data))
		assert.Len(t, rr.Result().Cookies(), 2)
	})

	t.Run("from body", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("RefreshTokens", mock.Anything, "refresh-1").Return(pair, nil)

		rr := httptest.NewRecorder()
		env.handler.RefreshToken(rr, jsonRequest(t, http.MethodPost, "/api/v1/users/refresh-token",
			map[string]string{"refreshToken": "refresh-1"}))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("RefreshTokens", mock.Anything, "").Return(nil, apperror.BadRequest("Refresh token is required"))

		rr := httptest.NewRecorder()
		env.handler.RefreshToken(rr, httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil))

		assertJSONError(t, rr, http.StatusBadRequest, "Refresh token is required")
	})

	t.Run("superseded", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.On("RefreshTokens", mock.Anything, "old").
			Return(nil, apperror.Unauthorized("Refresh token is expired or used"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old"})
		rr := httptest.NewRecorder()

		env.handler.RefreshToken(rr, req)

		assertJSONError(t, rr, http.StatusUnauthorized, "Refresh token is expired or used")
		assert.Empty(t, rr.Result().Cookies())
	})
}

func TestChangePasswordHandler(t *testing.T) {
	user := &models.User{UserID: "user-1"}

	tests := []struct {
		name            string
		body            map[string]string
		mockSetup       func(m *MockAuthService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "success",
			body: map[string]string{"oldPassword": "p@ss1234", "newPassword": "n3wpassword"},
			mockSetup: func(m *MockAuthService) {
				m.On("ChangePassword", mock.Anything, "user-1", "p@ss1234", "n3wpassword").Return(nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Password changed successfully",
		},
		{
			name:            "missing old password",
			body:            map[string]string{"newPassword": "n3wpassword"},
			mockSetup:       func(*MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Old and new password are required",
		},
		{
			name:            "short new password",
			body:            map[string]string{"oldPassword": "p@ss1234", "newPassword": "short"},
			mockSetup:       func(*MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "New password must be at least 8 characters",
		},
		{
			name: "wrong old password",
			body: map[string]string{"oldPassword": "nope", "newPassword": "n3wpassword"},
			mockSetup: func(m *MockAuthService) {
				m.On("ChangePassword", mock.Anything, "user-1", "nope", "n3wpassword").
					Return(apperror.Unauthorized("Invalid old password"))
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid old password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.mockSetup(env.auth)

			req := withUser(jsonRequest(t, http.MethodPost, "/api/v1/users/change-password", tt.body), user)
			rr := httptest.NewRecorder()

			env.handler.ChangePassword(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			body := decodeEnvelope(t, rr)
			assert.Equal(t, tt.expectedMessage, body.Message)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "{}", string(body.Data))
			}
		})
	}
}
