package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port                  string
	CORSAllowOrigin       []string
	ObjectStoreType       string
	LocalStoreDir         string
	AWSRegion             string
	S3Bucket              string
	S3Prefix              string
	SSEKMSKeyID           string
	GCSBucket             string
	GCSPrefix             string
	BlobURLExpiry         time.Duration
	OCRProvider           string
	OCRAPIKey             string
	OCRBaseURL            string
	OCRModel              string
	OCRTimeout            time.Duration
	MaxUploadBytes        int64
	HistoryLimit          int
	RateLimitPerMinute    int
	RateLimitOCRPerMinute int
	TemplatePath          string
	CellMappingPath       string
	DatabaseURL           string
	Env                   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		CORSAllowOrigin:       splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		ObjectStoreType:       normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:         getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:             getEnv("AWS_REGION", ""),
		S3Bucket:              getEnv("S3_BUCKET", ""),
		S3Prefix:              getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:           getEnv("SSE_KMS_KEY_ID", ""),
		GCSBucket:             getEnv("GCS_BUCKET", ""),
		GCSPrefix:             getEnv("GCS_PREFIX", ""),
		BlobURLExpiry:         getDuration("BLOB_URL_EXPIRY", time.Hour),
		OCRProvider:           normalizeOCRProvider(getEnv("OCR_PROVIDER", "mistral")),
		OCRAPIKey:             getEnv("MISTRAL_API_KEY", ""),
		OCRBaseURL:            getEnv("OCR_BASE_URL", "https://api.mistral.ai"),
		OCRModel:              getEnv("OCR_MODEL", "mistral-ocr-latest"),
		OCRTimeout:            getDuration("OCR_TIMEOUT", 120*time.Second),
		MaxUploadBytes:        int64(getInt("MAX_UPLOAD_BYTES", 20<<20)),
		HistoryLimit:          getInt("HISTORY_LIMIT", 10),
		RateLimitPerMinute:    getInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitOCRPerMinute: getInt("RATE_LIMIT_OCR_PER_MINUTE", 10),
		TemplatePath:          getEnv("RESUME_TEMPLATE_PATH", ""),
		CellMappingPath:       getEnv("CELL_MAPPING_PATH", ""),
		DatabaseURL:           dbURL,
		Env:                   env,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config env %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	default:
		return "local"
	}
}

func normalizeOCRProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pdftext", "local":
		return "pdftext"
	default:
		return "mistral"
	}
}
