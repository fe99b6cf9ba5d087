package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Allowlist    AllowlistConfig
	RateLimit    RateLimitConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.SQLitePath == "" {
			return nil, fmt.Errorf("%s is required when %s is enabled", EnvSQLitePath, EnvUseSQLite)
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"CREWSTOCK_APP_ENV" required:"true"`
	Port           string   `envconfig:"CREWSTOCK_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"CREWSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"CREWSTOCK_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"CREWSTOCK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CREWSTOCK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN        string `envconfig:"CREWSTOCK_DB_DSN"`
	Driver     string `envconfig:"CREWSTOCK_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"CREWSTOCK_SQLITE_PATH" default:"crewstock.db"`

	LegacyHost     string `envconfig:"CREWSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"CREWSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CREWSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"CREWSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CREWSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CREWSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CREWSTOCK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CREWSTOCK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CREWSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CREWSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CREWSTOCK_REDIS_URL"`
	Address      string        `envconfig:"CREWSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"CREWSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CREWSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CREWSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CREWSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CREWSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CREWSTOCK_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"CREWSTOCK_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// IdentityConfig describes the tokens issued by the upstream identity provider.
type IdentityConfig struct {
	Secret   string        `envconfig:"CREWSTOCK_IDENTITY_SECRET" required:"true"`
	Issuer   string        `envconfig:"CREWSTOCK_IDENTITY_ISSUER" required:"true"`
	Audience string        `envconfig:"CREWSTOCK_IDENTITY_AUDIENCE"`
	Leeway   time.Duration `envconfig:"CREWSTOCK_IDENTITY_LEEWAY" default:"30s"`
}

type AllowlistConfig struct {
	CacheTTL time.Duration `envconfig:"CREWSTOCK_ALLOWLIST_CACHE_TTL" default:"1m"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"CREWSTOCK_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"CREWSTOCK_RATE_LIMIT_REQUESTS" default:"300"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"CREWSTOCK_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"CREWSTOCK_CRON_LOCK_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CREWSTOCK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CREWSTOCK_AUTO_MIGRATE" default:"false"`
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
