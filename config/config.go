package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Upstream Lookaly API (catalog, auth, orders).
	APIBaseURL string
	APITimeout time.Duration

	RedisURL string

	// Fallback session TTL when the access token carries no usable expiry.
	SessionTTL time.Duration
	CartTTL    time.Duration
	CacheTTL   time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	StripeSecretKey string
	SNSTopicARN     string

	AllowedOrigins []string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8000/api"),
		APITimeout:      getDuration("API_TIMEOUT", 10*time.Second),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:      getDuration("SESSION_TTL", 30*time.Minute),
		CartTTL:         getDuration("CART_TTL", time.Hour*24*30),
		CacheTTL:        getDuration("CACHE_TTL", time.Minute),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "order.placed"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		SNSTopicARN:     getEnv("SNS_TOPIC_ARN", ""),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using default %s", key, defaultVal)
	}
	return defaultVal
}
