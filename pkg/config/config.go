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
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Profile      ProfileConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Normalized() {
	case StorageBackendMemory:
		return nil
	case StorageBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	case StorageBackendSQL:
		if c.FeatureFlags.UseSQLite {
			c.DB.Driver = "sqlite"
			if c.DB.DSN == "" {
				c.DB.DSN = "file:cartstore.db?cache=shared"
			}
			return nil
		}
		return c.DB.ensureDSN()
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}

type AppConfig struct {
	Env          string `envconfig:"CARTSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTSTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARTSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Backend string `envconfig:"CARTSTORE_STORAGE_BACKEND" default:"memory"`
}

// Normalized returns the lower-cased backend name, defaulting to memory.
func (s StorageConfig) Normalized() string {
	backend := strings.TrimSpace(strings.ToLower(s.Backend))
	if backend == "" {
		return StorageBackendMemory
	}
	return backend
}

type DBConfig struct {
	DSN    string `envconfig:"CARTSTORE_DB_DSN"`
	Driver string `envconfig:"CARTSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARTSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"CARTSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARTSTORE_DB_USER"`
	LegacyPassword string `envconfig:"CARTSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARTSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARTSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTSTORE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CARTSTORE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CARTSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	return driver == "sqlite" || driver == "sqlite3"
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTSTORE_REDIS_URL"`
	Address      string        `envconfig:"CARTSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"CARTSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
	// EntryTTL bounds how long an idle profile scope survives; zero keeps it forever.
	EntryTTL time.Duration `envconfig:"CARTSTORE_REDIS_ENTRY_TTL" default:"0"`
}

type ProfileConfig struct {
	Secret     string `envconfig:"CARTSTORE_PROFILE_SECRET" required:"true"`
	Issuer     string `envconfig:"CARTSTORE_PROFILE_ISSUER" default:"cartstore"`
	CookieName string `envconfig:"CARTSTORE_PROFILE_COOKIE" default:"cart_profile"`
	TTLDays    int    `envconfig:"CARTSTORE_PROFILE_TTL_DAYS" default:"365"`
	Secure     bool   `envconfig:"CARTSTORE_PROFILE_COOKIE_SECURE" default:"false"`
}

// TTL returns the profile token lifetime.
func (p ProfileConfig) TTL() time.Duration {
	if p.TTLDays <= 0 {
		return 0
	}
	return time.Duration(p.TTLDays) * 24 * time.Hour
}

type CatalogConfig struct {
	Path string `envconfig:"CARTSTORE_CATALOG_PATH"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARTSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARTSTORE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARTSTORE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
