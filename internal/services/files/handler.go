// Package files streams stored objects back to clients of the local store.
package files

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/shared/server/respond"
	"resume-ocr/internal/shared/storage/object"
)

// Handler serves GET /files/*key from an ObjectStore. Only keys under one of
// Prefixes are served; the route is reachable without a client id.
type Handler struct {
	Store    object.ObjectStore
	Prefixes []string
}

func NewHandler(store object.ObjectStore, prefixes ...string) *Handler {
	return &Handler{Store: store, Prefixes: prefixes}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/*key", h.get)
}

func (h *Handler) get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "key is required", nil)
		return
	}
	key = path.Clean(key)
	if !h.servable(key) {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}

	reader, err := h.Store.Open(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrInvalidKey):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid key", nil)
		case errors.Is(err, object.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load file", nil)
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType(key))
	c.Header("Content-Disposition", respond.ContentDisposition(path.Base(key)))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *Handler) servable(key string) bool {
	for _, prefix := range h.Prefixes {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

var knownTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".zip":  "application/zip",
	".md":   "text/markdown; charset=utf-8",
	".pdf":  "application/pdf",
}

func contentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
