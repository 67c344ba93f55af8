package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Seed          SeedConfig
	Display       DisplayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"PROPERTYHUB_APP_ENV" required:"true"`
	Port           string   `envconfig:"PROPERTYHUB_APP_PORT" default:"5000"`
	LogLevel       string   `envconfig:"PROPERTYHUB_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"PROPERTYHUB_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"PROPERTYHUB_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PROPERTYHUB_DB_DSN"`
	Driver string `envconfig:"PROPERTYHUB_DB_DRIVER" default:"sqlite"`

	LegacyHost     string `envconfig:"PROPERTYHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"PROPERTYHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROPERTYHUB_DB_USER"`
	LegacyPassword string `envconfig:"PROPERTYHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROPERTYHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROPERTYHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROPERTYHUB_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PROPERTYHUB_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PROPERTYHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROPERTYHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded engine is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// IsPostgres reports whether the client/server engine is selected.
func (db DBConfig) IsPostgres() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverPostgres)
}

type RedisConfig struct {
	URL          string        `envconfig:"PROPERTYHUB_REDIS_URL"`
	Address      string        `envconfig:"PROPERTYHUB_REDIS_ADDR"`
	Password     string        `envconfig:"PROPERTYHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROPERTYHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROPERTYHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROPERTYHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROPERTYHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROPERTYHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROPERTYHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether an external redis server is configured. When it is
// not, session and throttle state live in process memory.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	Secret       string `envconfig:"PROPERTYHUB_SESSION_SECRET" required:"true"`
	Issuer       string `envconfig:"PROPERTYHUB_SESSION_ISSUER" default:"propertyhub"`
	TTLMinutes   int    `envconfig:"PROPERTYHUB_SESSION_TTL_MINUTES" default:"10080"`
	CookieName   string `envconfig:"PROPERTYHUB_SESSION_COOKIE_NAME" default:"propertyhub_session"`
	CookieSecure bool   `envconfig:"PROPERTYHUB_SESSION_COOKIE_SECURE" default:"false"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (s SessionConfig) validate() error {
	if strings.TrimSpace(s.Secret) == "" {
		return fmt.Errorf("%s is required", EnvSessionSecret)
	}
	if s.TTL() <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTLMinutes)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROPERTYHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROPERTYHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROPERTYHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROPERTYHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROPERTYHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	// Set only when a reverse proxy overwrites X-Real-IP or appends to
	// X-Forwarded-For.
	TrustProxyHeaders bool `envconfig:"PROPERTYHUB_AUTH_RATE_LIMIT_TRUST_PROXY_HEADERS" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PROPERTYHUB_AUTO_MIGRATE" default:"true"`
	SeedOnStart bool `envconfig:"PROPERTYHUB_SEED_ON_START" default:"true"`
}

type SeedConfig struct {
	CompanyName   string `envconfig:"PROPERTYHUB_SEED_COMPANY_NAME" default:"Default Company"`
	AdminName     string `envconfig:"PROPERTYHUB_SEED_ADMIN_NAME" default:"Admin"`
	AdminEmail    string `envconfig:"PROPERTYHUB_SEED_ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword string `envconfig:"PROPERTYHUB_SEED_ADMIN_PASSWORD" default:"admin123"`
}

type DisplayConfig struct {
	Timezone string `envconfig:"PROPERTYHUB_DISPLAY_TIMEZONE" default:"Asia/Kuala_Lumpur"`
}

// Location resolves the display timezone, falling back to UTC.
func (d DisplayConfig) Location() *time.Location {
	name := strings.TrimSpace(d.Timezone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}
	if !db.IsPostgres() {
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
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
