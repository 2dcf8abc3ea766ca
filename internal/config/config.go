package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort   string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir       string
	UploadURLPrefix string
	PublicBaseURL   string
	MaxUploadBytes  int64

	GoogleClientID string
	OpenAIAPIKey   string

	LogFile  string
	LogLevel string

	SeedDatabase      bool
	SeedAdminPassword string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	ginMode := getEnv("GIN_MODE", "debug")

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "emsuser"),
		DBPassword: getEnv("DB_PASSWORD", "emspassword"),
		DBName:     getEnv("DB_NAME", "ems"),

		ServerPort:   getEnv("SERVER_PORT", "5000"),
		GinMode:      ginMode,
		ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", time.Hour),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:5000"),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),

		LogFile:  getEnv("LOG_FILE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SeedDatabase:      getEnvBool("SEED_DATABASE", ginMode != "release"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "Admin@123"),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
