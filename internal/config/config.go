// Package config reads service configuration from the environment once at
// startup. The resulting struct is injected everywhere; nothing in this
// codebase reads settings from process globals at request time.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "CREATORLABS_"

// Config carries every knob the binaries need.
type Config struct {
	Addr string

	// PGDSN is the PostgreSQL connection string.
	PGDSN string

	// AuthSecret signs HS256 session tokens.
	AuthSecret string
	TokenTTL   time.Duration

	// GatewayURL/GatewayKey point at the hosted LLM completion endpoint.
	GatewayURL string
	GatewayKey string

	// YouTubeKey authorizes Data API lookups for the channel inspector.
	YouTubeKey string

	RateBurst  int
	RatePerSec int

	MaxBodyBytes int64
}

// Load reads configuration from CREATORLABS_* environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:         getenv("ADDR", ":8080"),
		PGDSN:        getenv("PG_DSN", ""),
		AuthSecret:   getenv("AUTH_SECRET", ""),
		GatewayURL:   getenv("GATEWAY_URL", ""),
		GatewayKey:   getenv("GATEWAY_KEY", ""),
		YouTubeKey:   getenv("YOUTUBE_KEY", ""),
		TokenTTL:     24 * time.Hour,
		RateBurst:    20,
		RatePerSec:   10,
		MaxBodyBytes: 1 << 20,
	}
	if raw := getenv("TOKEN_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid %sTOKEN_TTL: %q", envPrefix, raw)
		}
		cfg.TokenTTL = ttl
	}
	var err error
	if cfg.RateBurst, err = getint("RATE_BURST", cfg.RateBurst); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSec, err = getint("RATE_PER_SEC", cfg.RatePerSec); err != nil {
		return Config{}, err
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("missing " + envPrefix + "AUTH_SECRET")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(envPrefix + key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s%s: %q", envPrefix, key, raw)
	}
	return v, nil
}
