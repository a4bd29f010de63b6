package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken  string `env:"BOT_TOKEN,required,notEmpty"`
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	DBDSN              string `env:"DB_DSN,required,notEmpty"`
	DBPassword         string `env:"DB_PASSWORD"`
	DBDSNReadonly      string `env:"DB_DSN_READONLY"`
	DBPasswordReadonly string `env:"DB_PASSWORD_READONLY"`

	Redis                     string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisCache                string `env:"REDIS_CACHE"`
	RedisCacheReadonly        string `env:"REDIS_CACHE_READONLY"`
	RedisMutex                string `env:"REDIS_MUTEX"`
	RedisLimiter              string `env:"REDIS_LIMITER"`
	ClusterRedisCache         string `env:"CLUSTER_REDIS_CACHE"`
	ClusterRedisCacheReadonly string `env:"CLUSTER_REDIS_CACHE_READONLY"`
	ClusterRedisMutex         string `env:"CLUSTER_REDIS_MUTEX"`
	ClusterRedisLimiter       string `env:"CLUSTER_REDIS_LIMITER"`

	APIMode    string   `env:"API_MODE" envDefault:"production"`
	APIOrigins []string `env:"API_ORIGINS" envSeparator:"," envDefault:"*"`

	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`

	WebAppURL    string `env:"TELEGRAM_WEB_APP_URL"`
	InvoiceTitle string `env:"INVOICE_TITLE" envDefault:"Droppu Stars"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, nil
}

// Or returns the first non-empty url.
func Or(urls ...string) string {
	for _, url := range urls {
		if url != "" {
			return url
		}
	}
	return ""
}

func (cfg *Config) Debug() bool {
	return cfg.APIMode == "debug"
}
