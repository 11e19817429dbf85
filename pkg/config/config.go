package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Checkout CheckoutConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHUMMA_APP_ENV" required:"true"`
	Port         string `envconfig:"CHUMMA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHUMMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHUMMA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHUMMA_DB_DSN"`
	Driver string `envconfig:"CHUMMA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHUMMA_DB_HOST"`
	LegacyPort     int    `envconfig:"CHUMMA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHUMMA_DB_USER"`
	LegacyPassword string `envconfig:"CHUMMA_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHUMMA_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHUMMA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHUMMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHUMMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHUMMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHUMMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHUMMA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CHUMMA_REDIS_ADDR"`
	Password     string        `envconfig:"CHUMMA_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHUMMA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHUMMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHUMMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHUMMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHUMMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHUMMA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CHUMMA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHUMMA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CHUMMA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"CHUMMA_GCP_PROJECT_ID" required:"true"`
}

// PubSubConfig names the per-table change feeds relayed into sessions.
type PubSubConfig struct {
	MenuSubscription   string `envconfig:"CHUMMA_PUBSUB_MENU_SUBSCRIPTION" default:"chumma-menu-changes"`
	CartSubscription   string `envconfig:"CHUMMA_PUBSUB_CART_SUBSCRIPTION" default:"chumma-cart-changes"`
	OrdersSubscription string `envconfig:"CHUMMA_PUBSUB_ORDERS_SUBSCRIPTION" default:"chumma-order-changes"`
}

type CheckoutConfig struct {
	GuardTTL     time.Duration `envconfig:"CHUMMA_CHECKOUT_GUARD_TTL" default:"30s"`
	CartGuardTTL time.Duration `envconfig:"CHUMMA_CART_GUARD_TTL" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CHUMMA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CHUMMA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
