package history

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/shared/server/middleware"
	"resume-ocr/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the history service.
type Handler struct {
	Svc *Service
	// DevRoutes enables DELETE /dev/storage.
	DevRoutes bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, devRoutes bool) *Handler {
	return &Handler{Svc: svc, DevRoutes: devRoutes}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.GET("/history/:id", h.get)
	rg.GET("/history/:id/preview", h.preview)
	rg.DELETE("/history/:id", h.delete)
	rg.DELETE("/history", h.clear)
	if h.DevRoutes {
		rg.DELETE("/dev/storage", h.clearAll)
	}
}

func (h *Handler) list(c *gin.Context) {
	owner := middleware.ClientIDFromContext(c)
	entries := h.Svc.Read(c.Request.Context(), owner)

	if c.Query("view") == "summary" {
		out := make([]Summary, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Summary())
		}
		respond.OK(c, out)
		return
	}
	respond.OK(c, entries)
}

func (h *Handler) get(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, entry)
}

func (h *Handler) preview(c *gin.Context) {
	entry, ok := h.lookup(c)
	if !ok {
		return
	}
	page, err := RenderPreview(entry.Filename, entry.Result)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render preview", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *Handler) delete(c *gin.Context) {
	owner := middleware.ClientIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.HistoryIDKey, id)

	if err := h.Svc.Delete(c.Request.Context(), owner, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "history entry not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete history entry", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clear(c *gin.Context) {
	owner := middleware.ClientIDFromContext(c)
	if err := h.Svc.Clear(c.Request.Context(), owner); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear history", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearAll(c *gin.Context) {
	if err := h.Svc.ClearAll(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear storage", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookup(c *gin.Context) (StoredResult, bool) {
	owner := middleware.ClientIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.HistoryIDKey, id)

	entry, err := h.Svc.Get(c.Request.Context(), owner, id)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "history entry not found", nil)
		return StoredResult{}, false
	}
	return entry, true
}
