package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Matching  MatchingConfig
	Reminder  ReminderConfig
	Notify    NotifyConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	LogFormat    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KeycloakConfig enables the optional admin SSO verifier.
type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	CookieName     string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// StorageConfig selects where uploads go. When MinIOEndpoint is empty files
// are written below LocalDir.
type StorageConfig struct {
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
	LocalDir       string
	PublicPrefix   string
	MaxUploadBytes int64
	PresignTTL     time.Duration
}

type MatchingConfig struct {
	DefaultPageSize int
}

type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
	Window   time.Duration
}

type NotifyConfig struct {
	RedisChannel string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("MONGODB_DATABASE", "bizlink")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 60)
	viper.SetDefault("JWT_COOKIE_NAME", "token")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("MINIO_BUCKET", "bizlink")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_PUBLIC_PREFIX", "/uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	viper.SetDefault("UPLOAD_PRESIGN_TTL", 15)
	viper.SetDefault("MATCH_PAGE_SIZE", 5)
	viper.SetDefault("REMINDER_ENABLED", true)
	viper.SetDefault("REMINDER_INTERVAL", 60)
	viper.SetDefault("REMINDER_WINDOW", 60)
	viper.SetDefault("NOTIFY_REDIS_CHANNEL", "bizlink:notifications")

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return nil, fmt.Errorf("environment variable MONGODB_URI is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			LogFormat:    viper.GetString("LOG_FORMAT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      uri,
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Keycloak: KeycloakConfig{
			URL:      viper.GetString("KEYCLOAK_URL"),
			Realm:    viper.GetString("KEYCLOAK_REALM"),
			ClientID: viper.GetString("KEYCLOAK_CLIENT_ID"),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			CookieName:     viper.GetString("JWT_COOKIE_NAME"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Storage: StorageConfig{
			MinIOEndpoint:  viper.GetString("MINIO_ENDPOINT"),
			MinIOAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinIOUseSSL:    viper.GetBool("MINIO_USE_SSL"),
			MinIOBucket:    viper.GetString("MINIO_BUCKET"),
			LocalDir:       viper.GetString("UPLOAD_DIR"),
			PublicPrefix:   viper.GetString("UPLOAD_PUBLIC_PREFIX"),
			MaxUploadBytes: viper.GetInt64("UPLOAD_MAX_BYTES"),
			PresignTTL:     time.Duration(viper.GetInt("UPLOAD_PRESIGN_TTL")) * time.Minute,
		},
		Matching: MatchingConfig{
			DefaultPageSize: viper.GetInt("MATCH_PAGE_SIZE"),
		},
		Reminder: ReminderConfig{
			Enabled:  viper.GetBool("REMINDER_ENABLED"),
			Interval: time.Duration(viper.GetInt("REMINDER_INTERVAL")) * time.Minute,
			Window:   time.Duration(viper.GetInt("REMINDER_WINDOW")) * time.Minute,
		},
		Notify: NotifyConfig{
			RedisChannel: viper.GetString("NOTIFY_REDIS_CHANNEL"),
		},
	}

	if cfg.Matching.DefaultPageSize <= 0 {
		cfg.Matching.DefaultPageSize = 5
	}
	if cfg.JWT.Secret == "" && cfg.Server.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}
