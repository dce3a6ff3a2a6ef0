package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// BucketConfig describes one object storage bucket: a partition scoped to a
// single MIME family, with its own size ceiling and allowed-type allowlist.
// An empty allowlist admits any type in the family.
type BucketConfig struct {
	Name         string
	MaxSizeBytes int64
	AllowedTypes []string
}

// StorageConfig holds object storage settings for the S3-compatible backend
// (MinIO). Buckets is keyed by MIME family.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Buckets   map[string]BucketConfig
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	Storage  StorageConfig
}

const mb = 1 << 20

// Bucket family keys.
const (
	FamilyDocuments     = "documents"
	FamilyImages        = "images"
	FamilyVideos        = "videos"
	FamilyAudio         = "audio"
	FamilySpreadsheets  = "spreadsheets"
	FamilyPresentations = "presentations"
	FamilyArchives      = "archives"
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over defaults.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Buckets:   loadBuckets(),
		},
	}
}

// loadBuckets returns the per-family bucket map. Bucket names can be
// overridden via MINIO_BUCKET_<FAMILY>; ceilings and allowlists are fixed.
func loadBuckets() map[string]BucketConfig {
	return map[string]BucketConfig{
		FamilyDocuments: {
			Name:         getEnv("MINIO_BUCKET_DOCUMENTS", "documents"),
			MaxSizeBytes: 50 * mb,
			AllowedTypes: []string{"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/plain", "application/rtf", "application/vnd.oasis.opendocument.text"},
		},
		FamilyImages: {
			Name:         getEnv("MINIO_BUCKET_IMAGES", "images"),
			MaxSizeBytes: 10 * mb,
			AllowedTypes: []string{"image/"},
		},
		FamilyVideos: {
			Name:         getEnv("MINIO_BUCKET_VIDEOS", "videos"),
			MaxSizeBytes: 500 * mb,
			AllowedTypes: []string{"video/"},
		},
		FamilyAudio: {
			Name:         getEnv("MINIO_BUCKET_AUDIO", "audio"),
			MaxSizeBytes: 100 * mb,
			AllowedTypes: []string{"audio/"},
		},
		FamilySpreadsheets: {
			Name:         getEnv("MINIO_BUCKET_SPREADSHEETS", "spreadsheets"),
			MaxSizeBytes: 20 * mb,
			AllowedTypes: []string{"application/vnd.ms-excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv", "application/vnd.oasis.opendocument.spreadsheet"},
		},
		FamilyPresentations: {
			Name:         getEnv("MINIO_BUCKET_PRESENTATIONS", "presentations"),
			MaxSizeBytes: 50 * mb,
			AllowedTypes: []string{"application/vnd.ms-powerpoint", "application/vnd.openxmlformats-officedocument.presentationml.presentation", "application/vnd.oasis.opendocument.presentation"},
		},
		FamilyArchives: {
			Name:         getEnv("MINIO_BUCKET_ARCHIVES", "archives"),
			MaxSizeBytes: 200 * mb,
			AllowedTypes: []string{"application/zip", "application/x-tar", "application/gzip", "application/x-7z-compressed", "application/x-rar-compressed"},
		},
	}
}

// BucketForFamily returns the bucket for a MIME family key, falling back to
// the documents bucket for unknown families.
func (s StorageConfig) BucketForFamily(family string) BucketConfig {
	if b, ok := s.Buckets[family]; ok {
		return b
	}
	return s.Buckets[FamilyDocuments]
}

// FamilyForMime maps a declared MIME type to its bucket family.
func FamilyForMime(mimeType string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FamilyImages
	case strings.HasPrefix(mt, "video/"):
		return FamilyVideos
	case strings.HasPrefix(mt, "audio/"):
		return FamilyAudio
	case strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "ms-excel") || mt == "text/csv":
		return FamilySpreadsheets
	case strings.Contains(mt, "presentation") || strings.Contains(mt, "ms-powerpoint"):
		return FamilyPresentations
	case strings.Contains(mt, "zip") || strings.Contains(mt, "tar") || strings.Contains(mt, "gzip") || strings.Contains(mt, "compressed"):
		return FamilyArchives
	default:
		return FamilyDocuments
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
