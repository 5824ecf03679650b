package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Env            string
	Port           string
	GinMode        string
	LogLevel       string
	DatabaseURL    string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	AdminEmail     string
	AdminPassword  string
	BlobBackend    string
	BlobDir        string
	S3Bucket       string
	S3Prefix       string
	MaxUploadBytes int64
	CORSOrigins    []string
}

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load reads the configuration from the environment
func Load() Config {
	cfg := Config{
		Env:           GetEnv("APP_ENV", "production"),
		Port:          GetEnv("PORT", "8080"),
		GinMode:       GetEnv("GIN_MODE", "release"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		DatabaseURL:   GetEnv("DATABASE_URL", ""),
		DBPath:        GetEnv("DB_PATH", "mangrove.db"),
		JWTSecret:     GetEnv("JWT_SECRET", ""),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		AdminEmail:    GetEnv("ADMIN_EMAIL", ""),
		AdminPassword: GetEnv("ADMIN_PASSWORD", ""),
		BlobBackend:   GetEnv("BLOB_BACKEND", "local"),
		BlobDir:       GetEnv("BLOB_DIR", "media"),
		S3Bucket:      GetEnv("S3_BUCKET", ""),
		S3Prefix:      GetEnv("S3_PREFIX", "project_docs"),
		CORSOrigins:   splitList(GetEnv("CORS_ORIGINS", "*")),
	}

	maxMB, err := strconv.ParseInt(GetEnv("MAX_UPLOAD_MB", "20"), 10, 64)
	if err != nil || maxMB <= 0 {
		maxMB = 20
	}
	cfg.MaxUploadBytes = maxMB << 20

	return cfg
}

// Validate reports settings that prevent the server from starting
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.BlobBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must be set when BLOB_BACKEND=s3"))
		}
	default:
		errs = append(errs, errors.New("BLOB_BACKEND must be local or s3"))
	}
	return errors.Join(errs...)
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
