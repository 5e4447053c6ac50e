package handlers

import (
	"net/http"

	"userAccounts/internal/auth"
	"userAccounts/internal/models"
)

type RegisterRequest struct {
	Fullname string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.parseUploadForm(w, r); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	req := RegisterRequest{
		Fullname: trim(r.FormValue("fullname")),
		Email:    trim(r.FormValue("email")),
		Username: trim(r.FormValue("username")),
		Password: r.FormValue("password"),
	}

	if err := h.Validate.Struct(req); err != nil {
		if validationTags(err)["required"] {
			WriteError(w, "All fields are required", http.StatusBadRequest)
		} else {
			WriteError(w, "Invalid email format", http.StatusBadRequest)
		}
		return
	}

	// transient local copies, removed whatever the outcome
	avatarPath, err := h.saveUpload(r, "avatar")
	defer func() { h.removeUploads(avatarPath) }()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	coverImagePath, err := h.saveUpload(r, "coverImage")
	defer func() { h.removeUploads(coverImagePath) }()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), models.RegisterRequest{
		Fullname:            req.Fullname,
		Email:               req.Email,
		Username:            req.Username,
		Password:            req.Password,
		AvatarLocalPath:     avatarPath,
		CoverImageLocalPath: coverImagePath,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// 201 on the wire, 200 inside the envelope
	writeJSON(w, http.StatusCreated, NewAPIResponse(http.StatusOK, user, "User registered successfully"))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.AuthService.Login(r.Context(), models.LoginRequest{
		Email:    fields.Get("email"),
		Username: fields.Get("username"),
		Password: fields.Get("password"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, &models.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})

	WriteSuccess(w, http.StatusOK, result, "User logged in successfully")
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized request", http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.Logout(r.Context(), user.UserID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.clearAuthCookies(w)

	WriteSuccess(w, http.StatusOK, nil, "User logged out successfully")
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// cookie first, body as a fallback
	var incoming string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		fields, err := readFields(w, r)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		incoming = fields.Get("refreshToken")
	}

	tokens, err := h.AuthService.RefreshTokens(r.Context(), incoming)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens)

	WriteSuccess(w, http.StatusOK, tokens, "Access token refreshed")
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized request", http.StatusUnauthorized)
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	req := ChangePasswordRequest{
		OldPassword: fields.Get("oldPassword"),
		NewPassword: fields.Get("newPassword"),
	}
	if err := h.Validate.Struct(req); err != nil {
		if validationTags(err)["required"] {
			WriteError(w, "Old and new password are required", http.StatusBadRequest)
		} else {
			WriteError(w, "New password must be at least 8 characters", http.StatusBadRequest)
		}
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), user.UserID, req.OldPassword, req.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, struct{}{}, "Password changed successfully")
}
