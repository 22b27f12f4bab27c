package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stagehand-live/stagehand/internal/gallery"
	"github.com/stagehand-live/stagehand/internal/image"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/overlay"
	"github.com/stagehand-live/stagehand/internal/upload"
)

// CaptionRequest represents the request body for a caption broadcast.
type CaptionRequest struct {
	Text string `json:"text"`
}

// ImageHandlers holds dependencies for image and overlay HTTP handlers.
type ImageHandlers struct {
	images    gallery.Repository
	store     upload.Store
	sanitizer *image.Sanitizer
	hub       *overlay.Hub
	metrics   *middleware.Metrics
	maxBytes  int64
}

// NewImageHandlers creates a new ImageHandlers instance. sanitizer, hub, and
// metrics may be nil; maxBytes falls back to the default upload ceiling when
// zero or negative.
func NewImageHandlers(images gallery.Repository, store upload.Store, sanitizer *image.Sanitizer, hub *overlay.Hub, metrics *middleware.Metrics, maxBytes int64) *ImageHandlers {
	if maxBytes <= 0 {
		maxBytes = upload.DefaultMaxSizeBytes
	}
	return &ImageHandlers{
		images:    images,
		store:     store,
		sanitizer: sanitizer,
		hub:       hub,
		metrics:   metrics,
		maxBytes:  maxBytes,
	}
}

// ListImages handles GET /api/images, newest first.
func (h *ImageHandlers) ListImages(w http.ResponseWriter, r *http.Request) {
	_, limit, offset := listParams(r)

	images, err := h.images.List(r.Context(), gallery.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list images")
		return
	}

	WriteJSON(w, http.StatusOK, images)
}

// UploadImage handles POST /api/images/upload. Stores the file, inserts the
// row, optionally activates it, and pushes the overlay events. A DB insert
// failure removes the already stored file so no orphan remains.
func (h *ImageHandlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeFileTooLarge)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeFileTooLarge, "Upload exceeds the maximum allowed size")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Multipart field 'image' is required")
		return
	}
	defer file.Close()

	if err := upload.ValidateFileSize(header.Size, h.maxBytes); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeFileTooLarge)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeFileTooLarge, "Upload exceeds the maximum allowed size")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if err := upload.ValidateContentType(contentType); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnsupportedType)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnsupportedType, "Only image uploads are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to read upload")
		return
	}

	if h.sanitizer != nil {
		sanitized, err := h.sanitizer.Sanitize(data)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnsupportedType)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnsupportedType, "Upload could not be decoded as an image")
			return
		}
		data = sanitized
	}

	filename := upload.NewFilename(header.Filename)
	url, err := h.store.Save(r.Context(), filename, data, contentType)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to store upload")
		return
	}

	img := &gallery.Image{
		Filename:     filename,
		OriginalName: header.Filename,
		URL:          url,
		TemplateID:   formTemplateID(r),
	}
	if err := h.images.Create(r.Context(), img); err != nil {
		if rmErr := h.store.Remove(r.Context(), filename); rmErr != nil {
			slog.ErrorContext(r.Context(), "failed to remove orphaned upload", "filename", filename, "error", rmErr)
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to save image")
		return
	}

	if r.FormValue("setActive") != "false" {
		activated, err := h.images.SetActive(r.Context(), img.ID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to activate uploaded image", "image_id", img.ID, "error", err)
		} else {
			img = activated
			if h.hub != nil {
				h.hub.BroadcastRoom(overlay.RoomOverlay, overlay.EventImageUpdate, img)
			}
		}
	}
	if h.hub != nil {
		h.hub.BroadcastAll(overlay.EventImageUploaded, img)
	}
	if h.metrics != nil {
		h.metrics.IncImagesUploaded()
	}

	WriteJSON(w, http.StatusCreated, img)
}

// ActivateImage handles PUT /api/images/{id}/activate.
func (h *ImageHandlers) ActivateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Image id must be a positive integer")
		return
	}

	img, err := h.images.SetActive(r.Context(), id)
	if err != nil {
		if errors.Is(err, gallery.ErrImageNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Image not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to activate image")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastRoom(overlay.RoomOverlay, overlay.EventImageUpdate, img)
	}

	WriteJSON(w, http.StatusOK, img)
}

// HideImage handles PUT /api/images/hide. Clears every active flag and
// blanks the overlay.
func (h *ImageHandlers) HideImage(w http.ResponseWriter, r *http.Request) {
	if err := h.images.ClearActive(r.Context()); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to hide image")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastRoom(overlay.RoomOverlay, overlay.EventImageUpdate, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Caption handles PUT /api/images/caption. Pure broadcast, nothing is
// persisted.
func (h *ImageHandlers) Caption(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastRoom(overlay.RoomOverlay, overlay.EventCaptionUpdate, CaptionRequest{Text: req.Text})
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActiveImage handles GET /api/images/active. Reconnecting overlays call
// this to catch up; a null body means nothing is active.
func (h *ImageHandlers) ActiveImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.images.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, gallery.ErrImageNotFound) {
			WriteJSON(w, http.StatusOK, nil)
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load active image")
		return
	}

	WriteJSON(w, http.StatusOK, img)
}

// DeleteImage handles DELETE /api/images/{id}. The stored file is removed
// best-effort after the row; a file removal failure is logged, not surfaced.
func (h *ImageHandlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Image id must be a positive integer")
		return
	}

	img, err := h.images.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gallery.ErrImageNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Image not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve image")
		return
	}

	if err := h.images.Delete(r.Context(), id); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete image")
		return
	}

	if err := h.store.Remove(r.Context(), img.Filename); err != nil {
		slog.ErrorContext(r.Context(), "failed to remove deleted image file", "filename", img.Filename, "error", err)
	}

	if img.IsActive && h.hub != nil {
		h.hub.BroadcastRoom(overlay.RoomOverlay, overlay.EventImageUpdate, nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

// formTemplateID reads the optional templateId multipart field.
func formTemplateID(r *http.Request) *int64 {
	raw := r.FormValue("templateId")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
