package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ADB"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
	MailProviderLog    = "log"
)

const (
	EnvAppEnv        = "ADB_APP_ENV"
	EnvPort          = "ADB_APP_PORT"
	EnvDBDSN         = "ADB_DB_DSN"
	EnvDBDriver      = "ADB_DB_DRIVER"
	EnvDBHost        = "ADB_DB_HOST"
	EnvDBUser        = "ADB_DB_USER"
	EnvDBName        = "ADB_DB_NAME"
	EnvRedisURL      = "ADB_REDIS_URL"
	EnvCatalogPath   = "ADB_CATALOG_PATH"
	EnvCatalogURL    = "ADB_CATALOG_URL"
	EnvMailProvider  = "ADB_MAIL_PROVIDER"
	EnvMailSupport   = "ADB_MAIL_SUPPORT_ADDRESS"
	EnvSMTPHost      = "ADB_SMTP_HOST"
	EnvResendAPIKey  = "ADB_RESEND_API_KEY"
	EnvRateLimitIP   = "ADB_RATE_LIMIT_INTAKE_IP_LIMIT"
	EnvCORSOrigins   = "ADB_CORS_ALLOWED_ORIGINS"
	EnvUseSQLite     = "ADB_USE_SQLITE"
	EnvAutoMigrate   = "ADB_AUTO_MIGRATE"
	EnvLogLevel      = "ADB_LOG_LEVEL"
	EnvLogWarnStack  = "ADB_LOG_WARN_STACK"
	EnvShutdownDelay = "ADB_APP_SHUTDOWN_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Mail         MailConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Mail.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"ADB_APP_ENV" required:"true"`
	Port            string        `envconfig:"ADB_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"ADB_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"ADB_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"ADB_APP_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADB_DB_DSN"`
	Driver string `envconfig:"ADB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ADB_DB_HOST"`
	Port     int    `envconfig:"ADB_DB_PORT" default:"5432"`
	User     string `envconfig:"ADB_DB_USER"`
	Password string `envconfig:"ADB_DB_PASSWORD"`
	Name     string `envconfig:"ADB_DB_NAME"`
	SSLMode  string `envconfig:"ADB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADB_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ADB_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ADB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"ADB_REDIS_URL"`
	Address      string        `envconfig:"ADB_REDIS_ADDR"`
	Password     string        `envconfig:"ADB_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CatalogConfig struct {
	Path         string        `envconfig:"ADB_CATALOG_PATH" default:"assets/data/products.json"`
	URL          string        `envconfig:"ADB_CATALOG_URL"`
	FetchTimeout time.Duration `envconfig:"ADB_CATALOG_FETCH_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	Provider       string `envconfig:"ADB_MAIL_PROVIDER" default:"log"`
	SupportAddress string `envconfig:"ADB_MAIL_SUPPORT_ADDRESS" default:"support@ad-ug.com"`
	NoReplyFrom    string `envconfig:"ADB_MAIL_NOREPLY_FROM" default:"no-reply@ad-ug.com"`
	SupportFrom    string `envconfig:"ADB_MAIL_SUPPORT_FROM" default:"support@ad-ug.com"`
	SiteName       string `envconfig:"ADB_MAIL_SITE_NAME" default:"AD Broadcast"`
	CompanyName    string `envconfig:"ADB_MAIL_COMPANY_NAME" default:"AD Broadcast & I.T Solutions"`

	SMTPHost     string `envconfig:"ADB_SMTP_HOST"`
	SMTPPort     int    `envconfig:"ADB_SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"ADB_SMTP_USER"`
	SMTPPassword string `envconfig:"ADB_SMTP_PASSWORD"`

	ResendAPIKey  string        `envconfig:"ADB_RESEND_API_KEY"`
	ResendBaseURL string        `envconfig:"ADB_RESEND_BASE_URL" default:"https://api.resend.com"`
	SendTimeout   time.Duration `envconfig:"ADB_MAIL_SEND_TIMEOUT" default:"10s"`
}

// NormalizedProvider returns the lower-cased provider, defaulting to log.
func (m MailConfig) NormalizedProvider() string {
	provider := strings.ToLower(strings.TrimSpace(m.Provider))
	if provider == "" {
		return MailProviderLog
	}
	return provider
}

func (m MailConfig) validate() error {
	switch m.NormalizedProvider() {
	case MailProviderLog:
		return nil
	case MailProviderSMTP:
		if strings.TrimSpace(m.SMTPHost) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvSMTPHost, EnvMailProvider, MailProviderSMTP)
		}
		return nil
	case MailProviderResend:
		if strings.TrimSpace(m.ResendAPIKey) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvResendAPIKey, EnvMailProvider, MailProviderResend)
		}
		return nil
	}
	return fmt.Errorf("unknown %s %q", EnvMailProvider, m.Provider)
}

type RateLimitConfig struct {
	IntakeWindow  time.Duration `envconfig:"ADB_RATE_LIMIT_INTAKE_WINDOW" default:"10m"`
	IntakeIPLimit int           `envconfig:"ADB_RATE_LIMIT_INTAKE_IP_LIMIT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ADB_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://ad-ug.com"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:adb.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
