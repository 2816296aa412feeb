package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default relays queried when RELAYS is unset.
var defaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
}

// Config holds all configuration for the application
type Config struct {
	Environment      string
	Relays           []string
	FetchTimeout     time.Duration
	EventLimit       int
	ProfileBatchSize int
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production.
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:      env,
		Relays:           splitRelays(os.Getenv("RELAYS")),
		FetchTimeout:     time.Duration(intEnv("FETCH_TIMEOUT_SECONDS", 8)) * time.Second,
		EventLimit:       intEnv("EVENT_LIMIT", 200),
		ProfileBatchSize: intEnv("PROFILE_BATCH_SIZE", 10),
	}
	if len(cfg.Relays) == 0 {
		cfg.Relays = defaultRelays
	}
	return cfg, nil
}

func splitRelays(s string) []string {
	var relays []string
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			relays = append(relays, r)
		}
	}
	return relays
}

func intEnv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %d", key, s, def)
		return def
	}
	return n
}
