package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string
	AppEnv   string
	Store    string
	MongoURL string
	DBName   string

	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	CORSOrigins      []string
	AllowAdminSignup bool
	SeedOnStartup    bool

	RedisURL       string
	IdempotencyTTL time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	AuthRatePerMinute int
	AuthRateBurst     int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:            getEnv("PORT", "8001"),
		AppEnv:          getEnv("APP_ENV", "development"),
		Store:           getEnv("STORE", StoreMongo),
		MongoURL:        os.Getenv("MONGO_URL"),
		DBName:          getEnv("DB_NAME", "roboturkiye"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order.placed"),
	}

	minutes, err := getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	errs = append(errs, err)
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	cfg.BcryptCost, err = getInt("BCRYPT_COST", 10)
	errs = append(errs, err)
	cfg.AllowAdminSignup, err = getBool("ALLOW_ADMIN_SIGNUP", false)
	errs = append(errs, err)
	cfg.SeedOnStartup, err = getBool("SEED_ON_STARTUP", true)
	errs = append(errs, err)
	cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	errs = append(errs, err)
	cfg.AuthRatePerMinute, err = getInt("AUTH_RATE_PER_MINUTE", 60)
	errs = append(errs, err)
	cfg.AuthRateBurst, err = getInt("AUTH_RATE_BURST", 20)
	errs = append(errs, err)

	errs = append(errs, cfg.validate())
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL is required when STORE=mongo"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StoreMongo, StoreMemory, c.Store))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.AuthRatePerMinute <= 0 || c.AuthRateBurst <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_PER_MINUTE and AUTH_RATE_BURST must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
