package database

import (
	"os"
	"strconv"
)

// Config holds the history store configuration
type Config struct {
	// Driver is "libsql" (default) or "sqlite".
	Driver         string
	URL            string
	AuthToken      string
	MaxOpenConns   int
	MaxIdleConns   int
	ConnMaxIdleSec int
	ConnMaxLifeSec int
}

// NewConfig creates a new Config from environment variables
func NewConfig() *Config {
	url := os.Getenv("LIBSQL_URL")
	if url == "" {
		url = "file:./textsim.db"
	}
	driver := os.Getenv("HISTORY_DRIVER")
	if driver == "" {
		driver = "libsql"
	}

	return &Config{
		Driver:         driver,
		URL:            url,
		AuthToken:      os.Getenv("LIBSQL_AUTH_TOKEN"),
		MaxOpenConns:   envInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:   envInt("DB_MAX_IDLE_CONNS"),
		ConnMaxIdleSec: envInt("DB_CONN_MAX_IDLE_SEC"),
		ConnMaxLifeSec: envInt("DB_CONN_MAX_LIFETIME_SEC"),
	}
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}
