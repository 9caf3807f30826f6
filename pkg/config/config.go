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
	FeatureFlags FeatureFlagsConfig
	Import       ImportConfig
	OpenAI       OpenAIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Import.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEDCATALOG_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDCATALOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDCATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDCATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MEDCATALOG_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MEDCATALOG_DB_DSN"`
	Driver string `envconfig:"MEDCATALOG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDCATALOG_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDCATALOG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDCATALOG_DB_USER"`
	LegacyPassword string `envconfig:"MEDCATALOG_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDCATALOG_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDCATALOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDCATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDCATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDCATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDCATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDCATALOG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEDCATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"MEDCATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDCATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDCATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDCATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDCATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDCATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDCATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEDCATALOG_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEDCATALOG_AUTO_MIGRATE" default:"false"`
}

// ImportConfig drives the catalog feed import pipeline.
type ImportConfig struct {
	FeedURL     string        `envconfig:"MEDCATALOG_FEED_URL"`
	FeedPath    string        `envconfig:"MEDCATALOG_FEED_PATH"`
	FeedTimeout time.Duration `envconfig:"MEDCATALOG_FEED_TIMEOUT" default:"5m"`
	ChunkSize   int           `envconfig:"MEDCATALOG_IMPORT_CHUNK_SIZE" default:"1000"`
	Interval    time.Duration `envconfig:"MEDCATALOG_IMPORT_INTERVAL" default:"24h"`

	DefaultCategory  string `envconfig:"MEDCATALOG_PRODUCT_CATEGORY" default:"medical-supplies"`
	DefaultCompany   string `envconfig:"MEDCATALOG_PRODUCT_COMPANY" default:"harborlabs"`
	DefaultNamespace string `envconfig:"MEDCATALOG_PRODUCT_NAMESPACE" default:"catalog"`
	DefaultStatus    string `envconfig:"MEDCATALOG_PRODUCT_STATUS" default:"active"`
	DefaultCurrency  string `envconfig:"MEDCATALOG_PRODUCT_CURRENCY" default:"USD"`
}

func (i ImportConfig) validate() error {
	if i.ChunkSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvImportChunkSize)
	}
	return nil
}

// OpenAIConfig holds the optional description-enhancement credential.
// An empty key is not an error: the import degrades to pass-through.
type OpenAIConfig struct {
	APIKey string `envconfig:"MEDCATALOG_OPENAI_API_KEY"`
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
