package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the certification service.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string

	// ClaimBasedDefault controls whether semantic documents are certified
	// through claim evaluation when a request does not say otherwise.
	ClaimBasedDefault bool
}

// RedisConfig holds connection settings for the canonical-hash dedup index.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CERTIFI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	if raw := os.Getenv("CERTIFI_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("CERTIFI_KAFKA_TOPIC")
	if topic == "" {
		topic = "certifi.audit"
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("CERTIFI_DB_URL"),
		Redis:             redisFromEnv(),
		KafkaBrokers:      brokers,
		KafkaTopic:        topic,
		JWTSigningKey:     os.Getenv("CERTIFI_JWT_KEY"),
		ClaimBasedDefault: os.Getenv("CERTIFI_CLAIM_BASED") == "true",
	}
}

func redisFromEnv() RedisConfig {
	poolSize := intFromEnv("CERTIFI_REDIS_POOL_SIZE", 10)
	return RedisConfig{
		URL:          os.Getenv("CERTIFI_REDIS_URL"),
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
