package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/documents"
	"resume-ocr/internal/exports"
	"resume-ocr/internal/history"
	"resume-ocr/internal/ocr"
	"resume-ocr/internal/services/files"
	"resume-ocr/internal/services/health"
	"resume-ocr/internal/shared/config"
	"resume-ocr/internal/shared/server"
	"resume-ocr/internal/shared/server/middleware"
	"resume-ocr/internal/shared/storage/db"
	"resume-ocr/internal/shared/storage/object"
	gcsstore "resume-ocr/internal/shared/storage/object/gcs"
	localstore "resume-ocr/internal/shared/storage/object/local"
	s3store "resume-ocr/internal/shared/storage/object/s3"
	resumesvc "resume-ocr/resume/service"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	OCR              ocr.Performer
	HistoryStorage   history.Storage
	HistoryService   *history.Service
	DocumentsService *documents.Service
	ResumeService    *resumesvc.Service
	HealthService    *health.Service
	DocumentsHandler *documents.Handler
	HistoryHandler   *history.Handler
	ExportsHandler   *exports.Handler
	FilesHandler     *files.Handler
}

// Option overrides a dependency before handlers are wired.
type Option func(*App)

// WithOCR replaces the configured OCR performer.
func WithOCR(p ocr.Performer) Option {
	return func(a *App) { a.OCR = p }
}

// WithStore replaces the configured object store.
func WithStore(s object.ObjectStore) Option {
	return func(a *App) { a.Store = s }
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	for _, opt := range opts {
		opt(app)
	}

	if app.Store == nil {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Store = store
	}
	if app.OCR == nil {
		performer, err := buildOCR(cfg)
		if err != nil {
			return nil, err
		}
		app.OCR = performer
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.HealthService,
		DocumentHandler: app.DocumentsHandler,
		HistoryHandler:  app.HistoryHandler,
		ExportHandler:   app.ExportsHandler,
		FileHandler:     app.FilesHandler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("bootstrap: migrations failed; using in-memory history: %v", err)
			return nil, nil
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID, cfg.BlobURLExpiry)
	case "gcs":
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
		return gcsstore.Dial(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.BlobURLExpiry)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOCR(cfg config.Config) (ocr.Performer, error) {
	switch cfg.OCRProvider {
	case "pdftext":
		return ocr.PDFTextPerformer{}, nil
	default:
		if strings.TrimSpace(cfg.OCRAPIKey) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: MISTRAL_API_KEY empty; using PDF text layer")
				return ocr.PDFTextPerformer{}, nil
			}
			return nil, fmt.Errorf("MISTRAL_API_KEY is required for OCR_PROVIDER=mistral")
		}
		return ocr.NewMistralClient(cfg.OCRAPIKey, cfg.OCRBaseURL, cfg.OCRModel, cfg.OCRTimeout)
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.HistoryStorage = &history.PGStorage{DB: app.DB}
	} else {
		app.HistoryStorage = history.NewMemoryStorage()
	}

	resume, err := resumesvc.New(app.Config.TemplatePath, app.Config.CellMappingPath, app.Store)
	if err != nil {
		return fmt.Errorf("resume service: %w", err)
	}

	app.HistoryService = history.NewService(app.HistoryStorage, app.Config.HistoryLimit)
	app.DocumentsService = documents.NewService(app.Store, app.OCR, app.HistoryService)
	app.ResumeService = resume
	app.HealthService = health.NewService(app.DB, app.Config.ObjectStoreType, app.Config.OCRProvider)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService, app.Config.MaxUploadBytes)
	app.HistoryHandler = history.NewHandler(app.HistoryService, isDevLike(app.Config.Env))
	app.ExportsHandler = exports.NewHandler(app.HistoryService, app.ResumeService)
	app.FilesHandler = files.NewHandler(app.Store, resumesvc.ExportPrefix)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
