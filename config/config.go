package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, Postgres connection details, the ETL import cycle and the
// per-client rate limiter.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=cryptopulse
//	POSTGRES_SSLMODE=disable
//	ETL_DIR=./data/input
//	ETL_BATCH_SIZE=1000
//	ETL_CRON=@every 1m
//	RATE_LIMIT_CAPACITY=10
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	ETL       ETLConfig       // Import cycle settings
	RateLimit RateLimitConfig // Per-client rate limiting settings
	Symbols   []string        // Fallback whitelist when discovery finds nothing
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// ETLConfig defines how import cycles discover and process input files.
//
// Fields:
//   - Dir: directory scanned (non-recursively) for input files.
//   - FileSuffix: suffix a file must carry to be picked up (default ".csv").
//   - BatchSize: rows accumulated before a batched upsert is flushed (default 1000).
//   - Cron: cron expression for scheduled cycles in API mode (default "@every 1m").
//   - MaxParallel: cap on concurrent file tasks; 0 means one task per file.
type ETLConfig struct {
	Dir         string
	FileSuffix  string
	BatchSize   int
	Cron        string
	MaxParallel int
}

// RateLimitConfig defines the per-client token bucket parameters.
//
// Fields:
//   - Capacity: bucket capacity (burst size), default 10.
//   - TokensPerMinute: refill rate, default 10.
//   - BucketTTLMinutes: idle window after which a client bucket is evicted, default 60.
type RateLimitConfig struct {
	Capacity         int
	TokensPerMinute  int
	BucketTTLMinutes int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "cryptopulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("ETL_DIR", "./data/input")
	viper.SetDefault("ETL_FILE_SUFFIX", ".csv")
	viper.SetDefault("ETL_BATCH_SIZE", 1000)
	viper.SetDefault("ETL_CRON", "@every 1m")
	viper.SetDefault("ETL_MAX_PARALLEL", 0)

	viper.SetDefault("RATE_LIMIT_CAPACITY", 10)
	viper.SetDefault("RATE_LIMIT_TOKENS_PER_MINUTE", 10)
	viper.SetDefault("RATE_LIMIT_BUCKET_TTL_MINUTES", 60)

	viper.SetDefault("SYMBOLS", "BTC,ETH,LTC,XRP,DOGE")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		ETL: ETLConfig{
			Dir:         viper.GetString("ETL_DIR"),
			FileSuffix:  viper.GetString("ETL_FILE_SUFFIX"),
			BatchSize:   viper.GetInt("ETL_BATCH_SIZE"),
			Cron:        viper.GetString("ETL_CRON"),
			MaxParallel: viper.GetInt("ETL_MAX_PARALLEL"),
		},
		RateLimit: RateLimitConfig{
			Capacity:         viper.GetInt("RATE_LIMIT_CAPACITY"),
			TokensPerMinute:  viper.GetInt("RATE_LIMIT_TOKENS_PER_MINUTE"),
			BucketTTLMinutes: viper.GetInt("RATE_LIMIT_BUCKET_TTL_MINUTES"),
		},
		Symbols: splitSymbols(viper.GetString("SYMBOLS")),
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// splitSymbols parses a comma-separated ticker list, trimming blanks.
func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.ETL.Dir == "" {
		missing = append(missing, "ETL_DIR")
	}
	if AppConfig.ETL.BatchSize <= 0 {
		missing = append(missing, "ETL_BATCH_SIZE")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
