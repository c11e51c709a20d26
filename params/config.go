package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Server struct {
	Addr        string
	CORSOrigins []string
}

type Storage struct {
	// LedgerBackend selects the order ledger engine: "memory" or "pebble".
	// Both keep state in memory only; nothing survives a restart.
	LedgerBackend string
	// JournalFile receives one JSON line per accepted order. Empty disables it.
	JournalFile string
}

type Trading struct {
	// DefaultUserID is the single implicit identity every request acts as.
	DefaultUserID int64
	// CatalogFile is an optional YAML instrument catalog. Empty uses the built-in one.
	CatalogFile string
}

type Logging struct {
	File    string
	Verbose bool
}

type Config struct {
	Server  Server
	Storage Storage
	Trading Trading
	Logging Logging
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:        ":5000",
			CORSOrigins: []string{"*"},
		},
		Storage: Storage{
			LedgerBackend: "memory",
		},
		Trading: Trading{
			DefaultUserID: 123,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.Server.Addr = getEnv("API_ADDR", cfg.Server.Addr)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}

	cfg.Storage.LedgerBackend = getEnv("LEDGER_BACKEND", cfg.Storage.LedgerBackend)
	cfg.Storage.JournalFile = getEnv("JOURNAL_FILE", cfg.Storage.JournalFile)

	if uid := os.Getenv("DEFAULT_USER_ID"); uid != "" {
		if v, err := strconv.ParseInt(uid, 10, 64); err == nil {
			cfg.Trading.DefaultUserID = v
		}
	}
	cfg.Trading.CatalogFile = getEnv("CATALOG_FILE", cfg.Trading.CatalogFile)

	cfg.Logging.File = getEnv("LOG_FILE", cfg.Logging.File)
	if verbose := os.Getenv("VERBOSE"); verbose != "" {
		cfg.Logging.Verbose = verbose == "true"
	}

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
