package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Artifact ArtifactConfig
	Auth     AuthConfig
	Discount DiscountConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type ArtifactConfig struct {
	// Prefix is the artifact path prefix without extensions; the loader
	// expects <prefix>.model.json and <prefix>.meta.json.
	Prefix string

	// EagerLoad loads artifacts at startup instead of on first request.
	EagerLoad bool
}

type AuthConfig struct {
	JWTSecret string

	// AdminAPIKeyHash is a bcrypt hash of the ops API key accepted on admin
	// routes as an alternative to a service JWT.
	AdminAPIKeyHash string
}

type DiscountConfig struct {
	DefaultPlaceID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database number")
	}

	defaultPlaceID, err := strconv.ParseInt(getEnv("DISCOUNT_DEFAULT_PLACE_ID", "59897"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid default place id")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Discount Recommendation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "discount_engine"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Artifact: ArtifactConfig{
			Prefix:    getEnv("DISCOUNT_ARTIFACT_PREFIX", "artifacts/discount_gbm"),
			EagerLoad: getEnv("DISCOUNT_ARTIFACT_EAGER_LOAD", "false") == "true",
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AdminAPIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Discount: DiscountConfig{
			DefaultPlaceID: defaultPlaceID,
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.Auth.AdminAPIKeyHash == "" {
		return nil, errors.New("missing admin credentials: set JWT_SECRET or ADMIN_API_KEY_HASH")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
