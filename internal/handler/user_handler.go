package handlers

import (
	"context"
	"net/http"

	"userAccounts/internal/auth"
	"userAccounts/internal/models"
)

type UpdateAccountRequest struct {
	Email string `validate:"omitempty,email"`
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized request", http.StatusUnauthorized)
		return
	}

	WriteSuccess(w, http.StatusOK, user, "Current user fetched successfully")
}

func (h *Handlers) UpdateAccountDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	var req models.UpdateAccountRequest
	if fullname, ok := fields.Lookup("fullName"); ok {
		req.Fullname = &fullname
	}
	if email, ok := fields.Lookup("email"); ok {
		req.Email = &email

		if err := h.Validate.Struct(UpdateAccountRequest{Email: trim(email)}); err != nil {
			WriteError(w, "Invalid email format", http.StatusBadRequest)
			return
		}
	}

	updated, err := h.UserService.UpdateAccountDetails(r.Context(), user.UserID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, updated, "Account details updated successfully")
}

func (h *Handlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, h.UserService.UpdateAvatar, "Avatar image updated successfully", "avatar")
}

func (h *Handlers) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, h.UserService.UpdateCoverImage, "Cover image updated successfully", "coverImage")
}

type imageUpdater func(ctx context.Context, userID, localPath string) (*models.User, error)

// updateImage saves the uploaded file from field (or the generic "file") and hands it to update.
func (h *Handlers) updateImage(w http.ResponseWriter, r *http.Request, update imageUpdater, message, field string) {
	if r.Method != http.MethodPatch {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized request", http.StatusUnauthorized)
		return
	}

	if err := h.parseUploadForm(w, r); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	localPath, err := h.saveUpload(r, field, "file")
	defer func() { h.removeUploads(localPath) }()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	updated, err := update(r.Context(), user.UserID, localPath)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, updated, message)
}
