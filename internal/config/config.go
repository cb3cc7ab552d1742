package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort        string
	TokenSecret     string
	TokenTTL        time.Duration
	OperatorWorkers int
	LogLevel        string

	AdminUsername string
	AdminPassword string
}

// ProcessEnvironmentVariables builds the config from defaults, an optional .env
// file in the working directory and the process environment, in that order.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		HTTPPort:         "9446",
		TokenSecret:      "change-me",
		TokenTTL:         24 * time.Hour,
		OperatorWorkers:  4,
		LogLevel:         "info",
		AdminUsername:    "admin",
	}

	overrideString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	overrideString(&env.PostgresPort, "POSTGRES_PORT")
	overrideString(&env.PostgresDB, "POSTGRES_DB")
	overrideString(&env.PostgresUsername, "POSTGRES_USERNAME")
	overrideString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	overrideString(&env.HTTPPort, "HTTP_PORT")
	overrideString(&env.TokenSecret, "TOKEN_SECRET")
	overrideString(&env.LogLevel, "LOG_LEVEL")
	overrideString(&env.AdminUsername, "ADMIN_USERNAME")
	overrideString(&env.AdminPassword, "ADMIN_PASSWORD")

	if v := os.Getenv("TOKEN_TTL"); len(v) != 0 {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL must be positive, got %v", ttl)
		}
		env.TokenTTL = ttl
	}

	if v := os.Getenv("OPERATOR_WORKERS"); len(v) != 0 {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("OPERATOR_WORKERS: %w", err)
		}
		env.OperatorWorkers = workers
	}

	return &env, nil
}

// PostgresDSN returns the lib/pq connection string for the configured database.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*target = v
	}
}
