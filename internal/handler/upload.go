package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"userAccounts/internal/apperror"
)

// allowedImageMimes is checked against the sniffed content, not the client header.
var allowedImageMimes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// parseUploadForm caps the body at MaxUploadSize and parses it.
// A body that is not multipart simply carries no files.
func (h *Handlers) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	err := r.ParseMultipartForm(h.Cfg.MaxUploadSize)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperror.BadRequest(fmt.Sprintf("File too large (max %s)",
			humanize.IBytes(uint64(h.Cfg.MaxUploadSize))))
	}

	return apperror.BadRequest("Error processing uploaded file").Wrap(err)
}

// saveUpload copies the first file found under one of fields into UPLOAD_TEMP_DIR.
// It returns an empty path when none of the fields carry a file.
func (h *Handlers) saveUpload(r *http.Request, fields ...string) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}

	for _, field := range fields {
		if headers := r.MultipartForm.File[field]; len(headers) > 0 {
			return h.saveTempFile(headers[0])
		}
	}

	return "", nil
}

func (h *Handlers) saveTempFile(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", apperror.BadRequest("Error processing uploaded file").Wrap(err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", apperror.BadRequest("Error processing uploaded file").Wrap(err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageMimes...) {
		return "", apperror.BadRequest("Only image files are allowed")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apperror.Internal("Error saving uploaded file").Wrap(err)
	}

	if err := os.MkdirAll(h.Cfg.UploadTempDir, 0o755); err != nil {
		return "", apperror.Internal("Error saving uploaded file").Wrap(err)
	}

	tmp, err := os.CreateTemp(h.Cfg.UploadTempDir, "upload-*"+mtype.Extension())
	if err != nil {
		return "", apperror.Internal("Error saving uploaded file").Wrap(err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", apperror.Internal("Error saving uploaded file").Wrap(err)
	}

	return tmp.Name(), nil
}

// removeUploads deletes the transient local copies once the operation is over.
func (h *Handlers) removeUploads(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.Log.WithError(err).WithField("path", path).Warn("temp upload not removed")
		}
	}
}
