package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Module-level policy
// (thresholds, weights, bands) lives with the owning module as Config
// structs with defaults; this is only what varies per deployment.
type Config struct {
	Addr string

	// PostgresDSN enables the postgres-backed evidence and audit stores.
	// Empty means in-memory stores (development, tests).
	PostgresDSN string

	Redis RedisConfig

	// AttestationKey is the keyed-hash secret shared with the partner
	// portal for attestation signatures.
	AttestationKey string

	// RegionalTTL bounds how long a regional indicator snapshot is served
	// before a refresh is attempted.
	RegionalTTL time.Duration

	// RegionalFeedURL points at the open-data indicator feed. Empty means
	// no feed; scoring then runs with a zero risk adjustment.
	RegionalFeedURL string

	// SanctionsListURL points at the sanctions/PEP list feed. Empty means
	// no feed; screening then fails closed to REVIEW.
	SanctionsListURL string

	// SanctionsRefresh is the interval between list refresh attempts.
	SanctionsRefresh time.Duration

	// ScoringWeightsPath and RegionalBaselinePath point at YAML policy
	// files; empty means compiled-in defaults.
	ScoringWeightsPath   string
	RegionalBaselinePath string
}

// RedisConfig configures the optional redis snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("SCORING_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	key := os.Getenv("ATTESTATION_SIGNING_KEY")
	if key == "" {
		// Development default - must be overridden in production.
		key = "dev-attestation-key-change-in-production"
	}

	return Config{
		Addr:             addr,
		PostgresDSN:      os.Getenv("SCORING_POSTGRES_DSN"),
		AttestationKey:   key,
		RegionalTTL:      durationEnv("REGIONAL_CACHE_TTL", 24*time.Hour),
		RegionalFeedURL:  os.Getenv("REGIONAL_FEED_URL"),
		SanctionsListURL: os.Getenv("SANCTIONS_LIST_URL"),
		SanctionsRefresh: durationEnv("SANCTIONS_REFRESH_INTERVAL", 6*time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("SCORING_REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		ScoringWeightsPath:   os.Getenv("SCORING_WEIGHTS_PATH"),
		RegionalBaselinePath: os.Getenv("REGIONAL_BASELINE_PATH"),
	}
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
