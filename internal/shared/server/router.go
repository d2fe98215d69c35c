package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/documents"
	"resume-ocr/internal/exports"
	"resume-ocr/internal/history"
	"resume-ocr/internal/services/files"
	"resume-ocr/internal/services/health"
	"resume-ocr/internal/shared/config"
	"resume-ocr/internal/shared/metrics"
	"resume-ocr/internal/shared/server/middleware"
	"resume-ocr/internal/shared/server/respond"
)

const (
	apiPrefix = "/api/v1"

	rateGroupOCR     = "OCR"
	rateGroupDefault = "DEFAULT"
)

// RouterDeps holds the handlers mounted on the API group.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	DocumentHandler *documents.Handler
	HistoryHandler  *history.Handler
	ExportHandler   *exports.Handler
	FileHandler     *files.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(
			apiPrefix+"/health",
			apiPrefix+"/metrics",
			apiPrefix+"/files/",
		),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupOCR:     perMinute(cfg.RateLimitOCRPerMinute),
				rateGroupDefault: perMinute(cfg.RateLimitPerMinute),
			},
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroup,
			Limiter:      deps.RateLimiter,
		}),
	)

	api := r.Group(apiPrefix)
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	} else {
		api.GET("/health", func(c *gin.Context) {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
		})
	}
	api.GET("/metrics", metrics.Handler())

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.HistoryHandler != nil {
		deps.HistoryHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.FileHandler != nil {
		deps.FileHandler.RegisterRoutes(api)
	}

	return r
}

// rateGroup puts OCR uploads in their own, stricter bucket.
func rateGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/documents") {
		return rateGroupOCR
	}
	return rateGroupDefault
}

func perMinute(n int) middleware.RateLimitRule {
	if n <= 0 {
		return middleware.RateLimitRule{}
	}
	return middleware.RateLimitRule{Rate: float64(n) / 60.0, Burst: n}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
