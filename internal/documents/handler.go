package documents

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/server/middleware"
	"resume-ocr/internal/shared/server/respond"
)

const defaultMaxUploadSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

// NewHandler constructs a Handler. A non-positive maxUpload uses 20MB.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadSize: maxUpload}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	owner := middleware.ClientIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"limitBytes": h.MaxUploadSize})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	c.Set(middleware.FileNameKey, fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	result, err := h.Svc.Upload(c.Request.Context(), owner, fileHeader.Filename, data)
	if err != nil {
		var ocrErr *ocr.Error
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.As(err, &ocrErr):
			respond.Error(c, http.StatusBadGateway, "ocr_failed", ocrErr.Message, gin.H{"status": ocrErr.StatusCode})
		case errors.Is(err, ErrOCRFailed):
			respond.Error(c, http.StatusBadGateway, "ocr_failed", "OCR request failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process document", nil)
		}
		return
	}

	c.Set(middleware.HistoryIDKey, result.ID)
	c.Set(middleware.PageCountKey, len(result.Result.Pages))
	respond.JSON(c, http.StatusCreated, result)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// multipart parsing does not always wrap the reader error
	return strings.Contains(err.Error(), "request body too large")
}
