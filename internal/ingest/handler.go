package ingest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/shared/server/middleware"
	"consent-backend/internal/shared/server/respond"
	"consent-backend/internal/shared/telemetry"
)

const maxUploadSize = 20 << 20 // 20MB

// DocumentStore persists uploaded documents and resolves them to paths the
// extraction pipeline can read.
type DocumentStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (string, int64, string, error)
	AbsolutePath(storageKey string) (string, error)
	Remove(ctx context.Context, storageKey string) error
}

// Handler wires HTTP handlers to the ingestion service.
type Handler struct {
	Svc   *Service
	Store DocumentStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store DocumentStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches ingestion routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	uploaderID := middleware.PatientIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are accepted", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	storageKey, size, mimeType, err := h.Store.Save(ctx, uploaderID, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to store document", nil)
		return
	}
	if mimeType != "application/pdf" {
		_ = h.Store.Remove(ctx, storageKey)
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are accepted", nil)
		return
	}

	path, err := h.Store.AbsolutePath(storageKey)
	if err != nil {
		_ = h.Store.Remove(ctx, storageKey)
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to resolve document", nil)
		return
	}

	result, err := h.Svc.IngestFile(ctx, path)
	if err != nil {
		_ = h.Store.Remove(ctx, storageKey)
		if errors.Is(err, ErrInsufficientText) {
			respond.Error(c, http.StatusUnprocessableEntity, "insufficient_text",
				"could not extract enough text from the document", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "ingest_failed", "failed to process document", nil)
		return
	}

	c.Set("consentId", result.ConsentID)
	telemetry.Info("upload.ingested", map[string]any{
		"uploader_id": uploaderID,
		"filename":    fileHeader.Filename,
		"size_bytes":  size,
		"consent_id":  result.ConsentID,
	})
	respond.JSON(c, http.StatusCreated, result)
}
