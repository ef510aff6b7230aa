package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPassword is accepted when neither DRIVER_PASSWORD nor
// DRIVER_PASSWORD_HASH is configured.
const DefaultPassword = "driver123"

type Config struct {
	DatabaseURL  string
	DBName       string
	JWTSecret    string
	Password     string
	PasswordHash string
	GRPCPort     string
	WebPort      string
	CORSOrigins  []string
	RedisURL     string
	EventChannel string
	ReportFont   string
	LoginRPS     float64
	LoginBurst   int
	GinMode      string
}

var ErrNoSecret = errors.New("JWT_SECRET is required")

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	dbURL, dbName := Database()
	redisURL, channel := Events()
	c := &Config{
		DatabaseURL:  dbURL,
		DBName:       dbName,
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Password:     env("DRIVER_PASSWORD", DefaultPassword),
		PasswordHash: os.Getenv("DRIVER_PASSWORD_HASH"),
		GRPCPort:     env("PORT", "50051"),
		WebPort:      env("WEB_PORT", "8080"),
		CORSOrigins:  list(env("CORS_ORIGINS", "*")),
		RedisURL:     redisURL,
		EventChannel: channel,
		ReportFont:   os.Getenv("REPORT_FONT_PATH"),
		LoginRPS:     envFloat("LOGIN_RATE_RPS", 5),
		LoginBurst:   envInt("LOGIN_RATE_BURST", 10),
		GinMode:      os.Getenv("GIN_MODE"),
	}
	if c.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	return c, nil
}

// Database returns the store settings alone, for tools that never serve
// requests and so need no JWT secret. Callers load .env first.
func Database() (url, name string) {
	return env("DATABASE_URL", "scheduler.db"), env("DB_NAME", "driver_scheduler")
}

// Events returns the Redis URL (empty when events are only logged) and
// the pub/sub channel.
func Events() (url, channel string) {
	return os.Getenv("REDIS_URL"), env("EVENTS_CHANNEL", "appointment-events")
}

// DefaultPasswordInUse reports whether logins fall back to the built-in secret.
func (c *Config) DefaultPasswordInUse() bool {
	return c.PasswordHash == "" && c.Password == DefaultPassword
}

// Warnings lists settings that work but deserve an operator's attention.
func (c *Config) Warnings() []string {
	var w []string
	if c.DefaultPasswordInUse() {
		w = append(w, "DRIVER_PASSWORD is not set, using the default password")
	}
	if c.ReportFont == "" {
		w = append(w, "REPORT_FONT_PATH is not set, PDF reports cannot render CJK names")
	}
	return w
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
