package handlers

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/storage"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils/response"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxUploadBytes is the 5 MB image cap.
const DefaultMaxUploadBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadHandler struct {
	store    storage.ImageStore
	maxBytes int64
}

func NewUploadHandler(store storage.ImageStore, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	return &UploadHandler{store: store, maxBytes: maxBytes}
}

func uploadFailed(w http.ResponseWriter, status int, message string) {
	response.WriteJson(w, status, models.UploadResponse{Success: false, Error: message})
}

// Upload godoc
//
//	@Summary		Upload a product image
//	@Description	JPEG, PNG or WebP, detected from content, at most 5 MB.
//	@Tags			Uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		200		{object}	models.UploadResponse
//	@Failure		400		{object}	models.UploadResponse
//	@Failure		413		{object}	models.UploadResponse
//	@Failure		415		{object}	models.UploadResponse
//	@Security		BearerAuth
//	@Router			/upload [post]
func (h *UploadHandler) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		// leave room for multipart headers around the file itself
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+(1<<20))

		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if stdErrors.As(err, &tooLarge) {
				logger.Warn("Upload exceeds size limit", slog.Int64("limit", h.maxBytes))
				uploadFailed(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5MB.")
				return
			}
			logger.Warn("Invalid multipart upload", slog.String("error", err.Error()))
			uploadFailed(w, http.StatusBadRequest, "Invalid upload request")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			uploadFailed(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		if header.Size > h.maxBytes {
			logger.Warn("Upload exceeds size limit", slog.Int64("size", header.Size))
			uploadFailed(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 5MB.")
			return
		}

		mtype, err := mimetype.DetectReader(file)
		if err != nil {
			uploadFailed(w, http.StatusBadRequest, "Could not read file")
			return
		}
		if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
			logger.Warn("Rejected upload type", slog.String("mime", mtype.String()), slog.String("filename", header.Filename))
			uploadFailed(w, http.StatusUnsupportedMediaType, "Invalid file type. Only JPEG, PNG, and WebP are allowed.")
			return
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			uploadFailed(w, http.StatusInternalServerError, "Upload failed")
			return
		}

		name := uuid.NewString() + mtype.Extension()

		url, err := h.store.Save(r.Context(), name, file)
		if err != nil {
			logger.Error("Failed to store upload", slog.Any("error", err))
			uploadFailed(w, http.StatusInternalServerError, "Upload failed")
			return
		}

		logger.Info("Image uploaded", slog.String("url", url), slog.Int64("size", header.Size))
		response.WriteJson(w, http.StatusOK, models.UploadResponse{Success: true, URL: url})
	}
}
