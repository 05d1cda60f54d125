package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Snapshot backend
	DataBackend  string
	SQLiteDBPath string
	PostgresDSN  string
	SeedFile     string

	// AMQP (empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Assistant
	GeminiAPIKey       string
	GeminiModel        string
	AssistantTimeout   time.Duration
	AssistantCacheSize int

	// Google Sheets (reports and activity log)
	GoogleSpreadsheetID      string
	GoogleActivitySheet      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Property documents
	DocumentsDriver string
	DocumentsDir    string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3UsePathStyle  bool
	S3PresignTTL    time.Duration
}

var (
	validBackends        = []string{"memory", "postgres", "sqlite"}
	validDocumentDrivers = []string{"fs", "s3"}
)

// LoadEnvFile loads a .env file when present. Missing files are fine.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/condo.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
		SeedFile:     getEnv("SEED_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "condo"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "condo_activity"),

		// API_KEY is the variable the hosted dashboard used.
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AssistantTimeout:   getEnvDuration("ASSISTANT_TIMEOUT", 30*time.Second),
		AssistantCacheSize: getEnvInt("ASSISTANT_CACHE_SIZE", 128),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleActivitySheet:      getEnv("GOOGLE_ACTIVITY_SHEET", "Actividad"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		DocumentsDriver: getEnv("DOCUMENTS_DRIVER", "fs"),
		DocumentsDir:    getEnv("DOCUMENTS_DIR", "./data/documents"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3UsePathStyle:  getEnvBool("S3_USE_PATH_STYLE", false),
		S3PresignTTL:    getEnvDuration("S3_PRESIGN_TTL", 15*time.Minute),
	}
}

// SheetsEnabled reports whether a spreadsheet is configured for exports.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate collects every problem instead of stopping at the first one.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errors = append(errors, "POSTGRES_DSN is required when using postgres backend")
		}
	}

	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); err != nil {
			errors = append(errors, fmt.Sprintf("seed file is not readable: %s", c.SeedFile))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL cannot be empty")
	}
	if c.AssistantTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid assistant timeout %v: must be at least 1 second", c.AssistantTimeout))
	} else if c.AssistantTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid assistant timeout %v: must be at most 5 minutes", c.AssistantTimeout))
	}
	if c.AssistantCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid assistant cache size %d: must not be negative", c.AssistantCacheSize))
	}

	if c.SheetsEnabled() {
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if !slices.Contains(validDocumentDrivers, c.DocumentsDriver) {
		errors = append(errors, fmt.Sprintf("invalid documents driver '%s': must be one of %v", c.DocumentsDriver, validDocumentDrivers))
	}
	switch c.DocumentsDriver {
	case "fs":
		if c.DocumentsDir == "" {
			errors = append(errors, "DOCUMENTS_DIR cannot be empty when using fs documents driver")
		}
	case "s3":
		if c.S3Bucket == "" {
			errors = append(errors, "S3_BUCKET is required when using s3 documents driver")
		}
		if c.S3PresignTTL < time.Minute || c.S3PresignTTL > 7*24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid S3 presign TTL %v: must be between 1 minute and 7 days", c.S3PresignTTL))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
