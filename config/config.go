package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds every setting the service reads from the environment
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Upload  UploadConfig
	Logging LoggingConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP listener and session settings
type ServerConfig struct {
	Port            string
	UseHTTPS        bool
	SessionLifetime int64 // seconds
}

// StorageConfig holds the SQLite location
type StorageConfig struct {
	DBPath string
}

// UploadConfig controls where uploaded CSV files are kept
type UploadConfig struct {
	Dir      string
	MaxBytes int64
	S3Region string
	S3Bucket string
	S3Prefix string
}

// LoggingConfig controls zerolog output
type LoggingConfig struct {
	Level       string
	Pretty      bool
	ServiceName string
}

// AuthConfig holds the optional OpenID Connect settings for operator login
type AuthConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether operator login is configured
func (a AuthConfig) Enabled() bool {
	return a.Domain != ""
}

// ArchiveToS3 reports whether uploads should also be copied to S3
func (u UploadConfig) ArchiveToS3() bool {
	return u.S3Bucket != ""
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("error while loading .env file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:            strings.TrimPrefix(cast.ToString(coalesce("PORT", "8080")), ":"),
			UseHTTPS:        cast.ToBool(coalesce("USE_HTTPS", false)),
			SessionLifetime: cast.ToInt64(coalesce("SESSION_LIFETIME", 3600)),
		},
		Storage: StorageConfig{
			DBPath: cast.ToString(coalesce("DB_PATH", "access_logs.db")),
		},
		Upload: UploadConfig{
			Dir:      cast.ToString(coalesce("UPLOAD_DIR", "data")),
			MaxBytes: cast.ToInt64(coalesce("MAX_UPLOAD_BYTES", 32<<20)),
			S3Region: cast.ToString(coalesce("AWS_REGION", "")),
			S3Bucket: cast.ToString(coalesce("UPLOAD_S3_BUCKET", "")),
			S3Prefix: cast.ToString(coalesce("UPLOAD_S3_PREFIX", "uploads/")),
		},
		Logging: LoggingConfig{
			Level:       cast.ToString(coalesce("LOG_LEVEL", "info")),
			Pretty:      cast.ToBool(coalesce("LOG_PRETTY", false)),
			ServiceName: cast.ToString(coalesce("SERVICE_NAME", "access-log-viewer")),
		},
		Auth: AuthConfig{
			Domain:       cast.ToString(coalesce("OIDC_DOMAIN", "")),
			ClientID:     cast.ToString(coalesce("OIDC_CLIENT_ID", "")),
			ClientSecret: cast.ToString(coalesce("OIDC_CLIENT_SECRET", "")),
			CallbackURL:  cast.ToString(coalesce("OIDC_CALLBACK_URL", "")),
		},
	}
}

func coalesce(key string, value interface{}) interface{} {
	val, exist := os.LookupEnv(key)
	if exist {
		return val
	}
	return value
}
