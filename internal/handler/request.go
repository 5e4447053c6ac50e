package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"userAccounts/internal/apperror"
)

// requestFields gives uniform access to JSON, urlencoded and multipart bodies.
type requestFields map[string]string

// Lookup reports whether the key was sent at all.
func (f requestFields) Lookup(key string) (string, bool) {
	value, ok := f[key]
	return value, ok
}

func (f requestFields) Get(key string) string {
	return f[key]
}

// maxFieldsBodySize caps bodies that carry form fields only.
const maxFieldsBodySize = 1 << 20

// readFields decodes the request body. Non-string JSON values are ignored and an empty body is not an error.
func readFields(w http.ResponseWriter, r *http.Request) (requestFields, error) {
	fields := requestFields{}

	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxFieldsBodySize)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json", "":
		if r.Body == nil {
			return fields, nil
		}

		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return fields, nil
			}
			return nil, bodyError(err)
		}
		for key, value := range raw {
			if s, ok := value.(string); ok {
				fields[key] = s
			}
		}
	case "multipart/form-data":
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(maxFieldsBodySize); err != nil {
				return nil, bodyError(err)
			}
		}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	return fields, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperror.BadRequest("Request body too large").Wrap(err)
	}
	return apperror.BadRequest("Invalid request body").Wrap(err)
}

// validationTags lists the failed validator tags of err, e.g. "required" or "email".
func validationTags(err error) map[string]bool {
	tags := map[string]bool{}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			tags[fe.Tag()] = true
		}
	}
	return tags
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
