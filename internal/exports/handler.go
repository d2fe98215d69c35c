package exports

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/history"
	"resume-ocr/internal/shared/metrics"
	"resume-ocr/internal/shared/server/middleware"
	"resume-ocr/internal/shared/server/respond"
	"resume-ocr/internal/shared/util"
	"resume-ocr/resume/extractor"
	"resume-ocr/resume/render"
	resumesvc "resume-ocr/resume/service"
)

// Handler serves the export endpoints.
type Handler struct {
	History *history.Service
	Resume  *resumesvc.Service
	Now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(hist *history.Service, resume *resumesvc.Service) *Handler {
	return &Handler{History: hist, Resume: resume, Now: time.Now}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exports/markdown", h.markdown)
	rg.POST("/exports/zip", h.zip)
	rg.POST("/exports/resume", h.resume)
	rg.POST("/exports/resume-xlsx", h.resumeXLSX)
}

func (h *Handler) markdown(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	metrics.IncExports()
	respond.OK(c, gin.H{
		"filename": src.filename,
		"markdown": src.doc.Markdown(),
	})
}

func (h *Handler) zip(c *gin.Context) {
	mode, err := ParseZipMode(c.Query("mode"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "mode must be full or markdown", nil)
		return
	}
	src, ok := h.source(c)
	if !ok {
		return
	}

	base := util.BaseName(src.filename, "ocr-result")
	data, err := BuildZip(c.Request.Context(), base, src.doc, mode, h.now())
	if err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "export_failed", err.Error(), nil)
		return
	}
	metrics.IncExports()
	respond.Attachment(c, "application/zip", base+".zip", data)
}

func (h *Handler) resume(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	data, err := h.Resume.Extract(src.doc)
	if err != nil {
		h.resumeError(c, err)
		return
	}
	metrics.IncExports()
	respond.OK(c, data)
}

func (h *Handler) resumeXLSX(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}

	if c.Query("delivery") == "url" {
		published, err := h.Resume.Publish(c.Request.Context(), src.doc)
		if err != nil {
			h.resumeError(c, err)
			return
		}
		metrics.IncExports()
		respond.OK(c, published)
		return
	}

	wb, err := h.Resume.BuildWorkbook(src.doc)
	if err != nil {
		h.resumeError(c, err)
		return
	}
	metrics.IncExports()
	respond.Attachment(c, render.XLSXContentType, wb.FileName, wb.Bytes)
}

func (h *Handler) source(c *gin.Context) (source, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return source{}, false
	}
	if req.HistoryID != "" {
		c.Set(middleware.HistoryIDKey, req.HistoryID)
	}

	src, err := resolve(c.Request.Context(), h.History, middleware.ClientIDFromContext(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "history entry not found", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return source{}, false
	}
	c.Set(middleware.PageCountKey, len(src.doc.Pages))
	return src, true
}

func (h *Handler) resumeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extractor.ErrNoPages):
		respond.Error(c, http.StatusBadRequest, "empty_document", "document has no pages", nil)
	case errors.Is(err, render.ErrSheetNotFound), errors.Is(err, render.ErrInvalidMapping):
		respond.Error(c, http.StatusInternalServerError, "template_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resume", nil)
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
