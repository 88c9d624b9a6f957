package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/pkg/jwt"
)

// DefaultPageSize is the number of products per search page.
const DefaultPageSize = 10

type AppConfig struct {
	// Server
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// Admin session
	JWT          jwt.Config
	CookieSecure bool

	// Storefront
	CartSecret string
	PageSize   int

	// Media
	CloudinaryURL string
	UploadFolder  string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			Secret: getEnv("AUTH_SECRET", ""),
			Issuer: "nextfaster-admin",
			TTL:    jwt.SessionTTL,
		},
		CookieSecure: getEnvBool("COOKIE_SECURE", true),

		CartSecret: getEnv("CART_SECRET", ""),
		PageSize:   getEnvInt("PRODUCT_PAGE_SIZE", DefaultPageSize),

		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		UploadFolder:  getEnv("UPLOAD_FOLDER", "products"),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}
