// Package config provides centralized default values for the storefront service
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port              string
	ServerReadTimeout time.Duration
	ServerIdleTimeout time.Duration

	// Store Configuration
	StorePath                string
	LibsqlURL                string
	LibsqlToken              string
	MemoryStore              bool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Session / Auth Configuration
	JWTSecret           string
	SessionCookieMaxAge int
	ProfileTokenTTL     time.Duration

	// Checkout Configuration
	PendingPurchaseTTL time.Duration

	// Cross-context Sync Configuration
	SSEHeartbeatInterval time.Duration
	SyncChannelBuffer    int

	// Email Configuration
	EmailFrom     string
	EmailFromName string

	// Logging Configuration
	LogDirectory  string
	LogToFile     bool
	LogToConsole  bool
	LogJSONFormat bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Store Configuration
	StorePath = getEnvString("STORE_PATH", "data/storefront.db")
	LibsqlURL = getEnvString("LIBSQL_URL", "")
	LibsqlToken = getEnvString("LIBSQL_AUTH_TOKEN", "")
	MemoryStore = getEnvBool("MEMORY_STORE", false)
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Session / Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "")
	SessionCookieMaxAge = getEnvInt("SESSION_COOKIE_MAX_AGE", 86400)
	ProfileTokenTTL = time.Duration(getEnvInt("PROFILE_TOKEN_TTL_HOURS", 720)) * time.Hour

	// Checkout Configuration
	PendingPurchaseTTL = time.Duration(getEnvInt("PENDING_PURCHASE_TTL_HOURS", 24)) * time.Hour

	// Cross-context Sync Configuration
	SSEHeartbeatInterval = time.Duration(getEnvInt("SSE_HEARTBEAT_INTERVAL_SECONDS", 30)) * time.Second
	SyncChannelBuffer = getEnvInt("SYNC_CHANNEL_BUFFER", 16)

	// Email Configuration
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@motonorte.example")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "MotoNorte")

	// Logging Configuration
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", true)
	LogToConsole = getEnvBool("LOG_TO_CONSOLE", true)
	LogJSONFormat = getEnvBool("LOG_JSON_FORMAT", true)
}
