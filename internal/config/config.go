package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the image gateway.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	S3       S3Config
	Storage  StorageConfig
	Registry RegistryConfig
	Gallery  GalleryConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int `validate:"min=1,max=65535"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	PublicRead      bool
}

// S3Config carries settings for AWS S3 or an S3-compatible endpoint such as R2.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// StorageConfig selects the object store backend.
type StorageConfig struct {
	Driver string `validate:"oneof=minio s3 memory"`
	Bucket string `validate:"required"`
}

// RegistryConfig selects the key-value backend used for shares and upload paths.
type RegistryConfig struct {
	Driver     string `validate:"oneof=postgres badger memory"`
	BadgerPath string `validate:"required_if=Driver badger"`
}

// GalleryConfig holds settings for uploads and listings.
type GalleryConfig struct {
	BaseURL         string `validate:"required,url"`
	DefaultPageSize int    `validate:"min=1"`
	MaxPageSize     int    `validate:"gtefield=DefaultPageSize"`
	MaxUploadBytes  int64  `validate:"min=1"`
}

// AuthConfig groups settings for the shared-secret gate.
type AuthConfig struct {
	SecretKey  string `validate:"required"`
	SessionTTL time.Duration
	BcryptCost int
}

// TelegramConfig configures the chat-bot upload channel. An empty token disables it.
type TelegramConfig struct {
	BotToken       string
	AllowedChatIDs []string `validate:"required_with=BotToken"`
	APIBaseURL     string
}

// Enabled reports whether the bot is configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != ""
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("IMGDRIVE_API_HOST", "0.0.0.0"),
			Port:         getInt("IMGDRIVE_API_PORT", 8080),
			ReadTimeout:  getDuration("IMGDRIVE_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("IMGDRIVE_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IMGDRIVE_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "imgdrive_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "imgdrive"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "imgdrive"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PublicRead:      getBool("MINIO_PUBLIC_READ", true),
		},
		S3: S3Config{
			Endpoint:        getString("S3_ENDPOINT", ""),
			AccessKeyID:     getString("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString("S3_SECRET_ACCESS_KEY", ""),
			Region:          getString("S3_REGION", "auto"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString("IMGDRIVE_STORAGE_DRIVER", "minio")),
			Bucket: getString("IMGDRIVE_BUCKET", "images"),
		},
		Registry: RegistryConfig{
			Driver:     strings.ToLower(getString("IMGDRIVE_REGISTRY_DRIVER", "postgres")),
			BadgerPath: getString("IMGDRIVE_BADGER_PATH", "./data/registry"),
		},
		Gallery: GalleryConfig{
			BaseURL:         NormalizeBaseURL(getString("BASE_URL", "")),
			DefaultPageSize: getInt("IMGDRIVE_PAGE_SIZE", 50),
			MaxPageSize:     getInt("IMGDRIVE_MAX_PAGE_SIZE", 1000),
			MaxUploadBytes:  int64(getInt("IMGDRIVE_MAX_UPLOAD_BYTES", 20*1024*1024)),
		},
		Auth: loadAuthConfig(),
		Telegram: TelegramConfig{
			BotToken:       getString("TELEGRAM_BOT_TOKEN", ""),
			AllowedChatIDs: getList("CHAT_ID"),
			APIBaseURL:     getString("TELEGRAM_API_URL", "https://api.telegram.org"),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("IMGDRIVE_METRICS_PATH", "/metrics"),
		},
	}

	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NormalizeBaseURL forces https and strips trailing slashes from the public base URL.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(raw, "http://"):
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	case !strings.HasPrefix(raw, "https://"):
		raw = "https://" + raw
	}
	return strings.TrimRight(raw, "/")
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// getList splits a comma separated variable, dropping blanks.
func getList(key string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadAuthConfig() AuthConfig {
	cost := getInt("IMGDRIVE_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		SecretKey:  getString("SECRET_KEY", ""),
		SessionTTL: getDuration("IMGDRIVE_SESSION_TTL", 24*time.Hour),
		BcryptCost: cost,
	}
}
