package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"userAccounts/internal/apperror"
)

// APIResponse is the envelope every success response is wrapped in.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope for failures. Data is always null.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteSuccess sends the envelope with the same status on the wire and in the body.
func WriteSuccess(w http.ResponseWriter, statusCode int, data any, message string) {
	writeJSON(w, statusCode, NewAPIResponse(statusCode, data, message))
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	})
}

func WriteAPIError(w http.ResponseWriter, err *apperror.Error) {
	writeJSON(w, err.Status, ErrorResponse{
		StatusCode: err.Status,
		Message:    err.Message,
		Errors:     err.Errors,
	})
}

// writeServiceError renders service failures. Anything that is not an *apperror.Error is a 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.Log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})

	appErr, ok := apperror.As(err)
	if !ok {
		logger.WithError(err).Error("unexpected error")
		WriteError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.WithError(err).Error(appErr.Message)
	} else if appErr.Err != nil {
		logger.WithError(err).Debug(appErr.Message)
	}

	WriteAPIError(w, appErr)
}
