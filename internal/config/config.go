package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// Withdrawal policy. The minimum is expressed in the account currency's
	// minor-unit precision.
	MinWithdrawalAmount decimal.Decimal `env:"MIN_WITHDRAWAL_AMOUNT" envDefault:"1.00"`
	WithdrawalTimeout   time.Duration   `env:"WITHDRAWAL_TIMEOUT" envDefault:"5s"`
	TxMaxRetries        int             `env:"TX_MAX_RETRIES" envDefault:"3"`

	// Identity fallback lets local development send X-User-Id instead of a
	// signed token. Ignored when AppEnv is production.
	AllowIdentityFallback bool   `env:"ALLOW_IDENTITY_FALLBACK" envDefault:"true"`
	DefaultTestUserID     string `env:"DEFAULT_TEST_USER_ID" envDefault:""`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
