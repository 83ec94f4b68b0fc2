package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the app reads from its environment.
type Config struct {
	Port        int
	Env         string
	Pepper      string
	DatabaseURL string
}

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// DefaultConfig returns the local development setup.
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		Env:         "dev",
		Pepper:      "secret-random-string",
		DatabaseURL: "host=localhost port=5432 user=postgres dbname=happy_thoughts sslmode=disable",
	}
}

// LoadConfig reads configuration from the environment, starting from the
// default dev setup. A .env file is loaded first when present, matching how
// the app is usually run in development.
func LoadConfig() Config {
	godotenv.Load()

	c := DefaultConfig()
	if raw := os.Getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			c.Port = port
		}
	}
	if env := os.Getenv("ENV"); env != "" {
		c.Env = env
	}
	if pepper := os.Getenv("PEPPER"); pepper != "" {
		c.Pepper = pepper
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.DatabaseURL = dsn
	}
	return c
}
