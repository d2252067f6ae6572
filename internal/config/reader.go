package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrUnknownEnv        = errors.New("unknown env")
	ErrUnknownHasher     = errors.New("unknown password hasher")
	ErrInvalidRateLimit  = errors.New("invalid rate limit")
	ErrSigningKeyTooWeak = errors.New("session signing key must be at least 16 bytes")
	ErrCookieSecretWeak  = errors.New("session cookie secret must be at least 32 bytes")
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the whole configuration from environment variables.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// FileReader reads a yaml, toml, json or .env file and then lets
// environment variables override it.
type FileReader struct {
	Path string
}

func NewFileReader(path string) FileReader {
	return FileReader{Path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.Path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", r.Path, err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEnv, c.Env)
	}

	switch c.Password.Hasher {
	case HasherArgon2id, HasherBcrypt:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownHasher, c.Password.Hasher)
	}

	if len(c.Session.SigningKey) < 16 {
		return ErrSigningKeyTooWeak
	}
	if len(c.Session.CookieSecret) < 32 {
		return ErrCookieSecretWeak
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rps=%v burst=%d",
			ErrInvalidRateLimit, c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}
