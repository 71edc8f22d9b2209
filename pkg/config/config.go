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
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Paystack      PaystackConfig
	Mail          MailConfig
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
	Env          string `envconfig:"CONTENTCREATE_APP_ENV" required:"true"`
	Port         string `envconfig:"CONTENTCREATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CONTENTCREATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CONTENTCREATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CONTENTCREATE_DB_DSN"`
	Driver string `envconfig:"CONTENTCREATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CONTENTCREATE_DB_HOST"`
	LegacyPort     int    `envconfig:"CONTENTCREATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CONTENTCREATE_DB_USER"`
	LegacyPassword string `envconfig:"CONTENTCREATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CONTENTCREATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CONTENTCREATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONTENTCREATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONTENTCREATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONTENTCREATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONTENTCREATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CONTENTCREATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CONTENTCREATE_REDIS_ADDR"`
	Password     string        `envconfig:"CONTENTCREATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONTENTCREATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONTENTCREATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONTENTCREATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONTENTCREATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONTENTCREATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONTENTCREATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CONTENTCREATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CONTENTCREATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CONTENTCREATE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"CONTENTCREATE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONTENTCREATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONTENTCREATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONTENTCREATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONTENTCREATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONTENTCREATE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CONTENTCREATE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CONTENTCREATE_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"CONTENTCREATE_SEED_DEMO" default:"false"`
}

// PaystackConfig configures the payment verification collaborator. An empty
// secret leaves the gateway unconfigured; verification then auto-succeeds,
// which is only intended for test and demo environments.
type PaystackConfig struct {
	SecretKey string `envconfig:"CONTENTCREATE_PAYSTACK_SECRET_KEY"`
	BaseURL   string `envconfig:"CONTENTCREATE_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
}

type MailConfig struct {
	APIKey      string `envconfig:"CONTENTCREATE_MAIL_API_KEY"`
	BaseURL     string `envconfig:"CONTENTCREATE_MAIL_BASE_URL"`
	DefaultFrom string `envconfig:"CONTENTCREATE_MAIL_FROM_EMAIL" default:"orders@contentcreate.shop"`
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
