package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (verification only; tokens are issued by the auth service)
	JWTSecret string

	// Server
	Port        string
	CORSOrigins string

	// Scheduler
	SchedulerPort  string
	PollIntervalMS int
	DueWindowSec   int
	TickTimeout    time.Duration

	// Twilio delivery
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Plant photo storage (S3 compatible)
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Redis read cache (optional)
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "verdant_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		SchedulerPort:  getEnv("SCHEDULER_PORT", "4000"),
		PollIntervalMS: getEnvInt("POLL_INTERVAL_MS", 30000),
		DueWindowSec:   getEnvInt("DUE_WINDOW_SEC", 60),
		TickTimeout:    parseDuration(getEnv("TICK_TIMEOUT", "30s"), 30*time.Second),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      parseDuration(getEnv("CACHE_TTL", "10m"), 10*time.Minute),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// PollInterval converts POLL_INTERVAL_MS to seconds with a 5 second
// floor to avoid runaway polling.
func (c *Config) PollInterval() int {
	sec := c.PollIntervalMS / 1000
	if sec < 5 {
		sec = 5
	}
	return sec
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer env value, using fallback", "key", key, "value", val)
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
