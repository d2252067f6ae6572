package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env       string `env:"ENV" env-required:"true"`
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Session   SessionConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"5002"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means the client IP is always the remote address.
	TrustedProxies []string `env:"HTTP_TRUSTED_PROXIES" env-separator:","`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	Migrate        bool          `env:"POSTGRES_MIGRATE" env-default:"true"`
}

// URL builds a connection string accepted by both pgx and lib/pq.
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type SessionConfig struct {
	Issuer     string `env:"SESSION_ISSUER" env-default:"go-todo-lists"`
	SigningKey string `env:"SESSION_SIGNING_KEY" env-required:"true"`

	// CookieSecret signs the cookie holding flashes and the CSRF salt.
	CookieSecret string        `env:"SESSION_COOKIE_SECRET" env-required:"true"`
	TTL          time.Duration `env:"SESSION_TTL" env-default:"720h"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" env-default:"false"`
}

type PasswordConfig struct {
	Hasher string `env:"PASSWORD_HASHER" env-default:"argon2id"`
}

type RateLimitConfig struct {
	Enabled bool    `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RPS     float64 `env:"RATE_LIMIT_RPS" env-default:"2"`
	Burst   int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}
