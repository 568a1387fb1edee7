package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"platoon-pulse/internal/shared/connection"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	AppEnv             string
	Postgres           connection.PostgresConfig
	DBMaxRetries       int
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Location           *time.Location
	OutboxPollInterval time.Duration
	OutboxRetention    time.Duration
	DashboardCacheTTL  time.Duration
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ACCESS_TOKEN_TTL", 15*time.Minute)
	v.SetDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)
	v.SetDefault("OUTBOX_RETENTION", 7*24*time.Hour)
	v.SetDefault("DASHBOARD_CACHE_TTL", 5*time.Minute)
	v.AutomaticEnv()
	return v
}

// Load reads .env (when present) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	return fromViper(newViper())
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("config: APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:   v.GetString("PORT"),
		AppEnv: v.GetString("APP_ENV"),
		Postgres: connection.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		DBMaxRetries:       v.GetInt("DB_MAX_RETRIES"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		KafkaBroker:        v.GetString("KAFKA_BROKER"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    v.GetDuration("REFRESH_TOKEN_TTL"),
		Location:           loc,
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxRetention:    v.GetDuration("OUTBOX_RETENTION"),
		DashboardCacheTTL:  v.GetDuration("DASHBOARD_CACHE_TTL"),
	}

	if cfg.DBMaxRetries < 1 {
		cfg.DBMaxRetries = 1
	}

	return cfg, nil
}

// RequireJWTSecret is checked by the binaries that issue or verify tokens.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func (c Config) RequireKafka() error {
	if c.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	return nil
}
