package health

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-ocr/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB          *sql.DB
	StoreType   string
	OCRProvider string
}

// NewService constructs a new health service. database may be nil.
func NewService(database *sql.DB, storeType, ocrProvider string) *Service {
	return &Service{DB: database, StoreType: storeType, OCRProvider: ocrProvider}
}

// Status reports overall health and the configured backends. A missing
// database is not a failure; an unreachable one is.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	status := map[string]any{
		"ok":          true,
		"objectStore": s.StoreType,
		"ocr":         s.OCRProvider,
		"history":     "memory",
	}
	err := db.Ping(ctx, s.DB, pingTimeout)
	switch {
	case errors.Is(err, db.ErrNoDatabase):
		return status, true
	case err != nil:
		status["ok"] = false
		status["history"] = "postgres"
		status["database"] = err.Error()
		return status, false
	default:
		status["history"] = "postgres"
		return status, true
	}
}
