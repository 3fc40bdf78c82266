package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AuthBackendURL string
	AuthBackendKey string
	SiteURL        string
}

// ParseFlags validates flags, falling back to environment variables.
// A .env file in the working directory is loaded first when present.
func ParseFlags(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("pollgate", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Auth backend (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AuthBackendURL, "auth-url", "", "Identity backend base URL (prefer env)")
	fs.StringVar(&cfg.AuthBackendKey, "auth-key", "", "Identity backend API key (prefer env)")
	fs.StringVar(&cfg.SiteURL, "site-url", "", "Public site base URL for verification links")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, errors.New("database type must be postgres or sqlite")
	}

	// Auth backend - MUST be provided
	if cfg.AuthBackendURL == "" {
		cfg.AuthBackendURL = os.Getenv("AUTH_BACKEND_URL")
	}
	if cfg.AuthBackendURL == "" {
		return Config{}, errors.New("AUTH_BACKEND_URL required")
	}

	if cfg.AuthBackendKey == "" {
		cfg.AuthBackendKey = os.Getenv("AUTH_BACKEND_KEY")
	}
	if cfg.AuthBackendKey == "" {
		return Config{}, errors.New("AUTH_BACKEND_KEY required")
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = os.Getenv("SITE_URL")
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}
