package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               int      `env:"PORT,default=3001"`
	Environment        string   `env:"APP_ENV,default=development"`
	GinMode            string   `env:"GIN_MODE,default=release"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	// URL wins over the individual connection parts when set.
	URL           string `env:"DATABASE_URL"`
	Host          string `env:"DB_HOST,default=localhost"`
	Port          string `env:"DB_PORT,default=5432"`
	Username      string `env:"DB_USERNAME"`
	Password      string `env:"DB_PASSWORD"`
	Database      string `env:"DB_DATABASE"`
	SSLMode       string `env:"DB_SSLMODE,default=disable"`
	AdminUser     string `env:"DB_ADMIN_USER"`
	AdminPassword string `env:"DB_ADMIN_PASSWORD"`

	MaxConns        int           `env:"DB_MAX_CONNS,default=25"`
	MinConns        int           `env:"DB_MIN_CONNS,default=5"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME,default=5m"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=1m"`

	LogQueries  bool `env:"DB_LOG_QUERIES,default=false"`
	AutoMigrate bool `env:"DB_AUTO_MIGRATE,default=false"`
}

// AuthConfig describes the external identity provider whose bearer tokens
// the API accepts. Keys come from PublicKeyPath, then SigningSecret, and
// otherwise from the provider's JWKS endpoint.
type AuthConfig struct {
	IssuerBaseURL string `env:"AUTH_ISSUER_BASE_URL"`
	Audience      string `env:"AUTH_AUDIENCE"`
	SigningSecret string `env:"AUTH_SIGNING_SECRET"`
	PublicKeyPath string `env:"AUTH_PUBLIC_KEY_PATH"`
	JWKSURL       string `env:"AUTH_JWKS_URL"`
}

// JWKSEndpoint returns JWKSURL, or the well-known key set location under
// the issuer.
func (a AuthConfig) JWKSEndpoint() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	return strings.TrimSuffix(a.IssuerBaseURL, "/") + "/.well-known/jwks.json"
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (d DatabaseConfig) Validate() error {
	if d.URL != "" {
		return nil
	}
	if d.Host == "" {
		return errors.New("DB_HOST environment variable is required")
	}
	if d.Port == "" {
		return errors.New("DB_PORT environment variable is required")
	}
	if d.Username == "" {
		return errors.New("DB_USERNAME environment variable is required")
	}
	if d.Database == "" {
		return errors.New("DB_DATABASE environment variable is required")
	}
	return nil
}

// DSN returns a postgres:// connection string for the application database.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return d.buildDSN(d.Username, d.Password, url.PathEscape(d.Database))
}

// AdminDSN points at the maintenance "postgres" database with admin
// credentials. It is only meaningful when AdminUser is set.
func (d DatabaseConfig) AdminDSN() string {
	return d.buildDSN(d.AdminUser, d.AdminPassword, "postgres")
}

func (d DatabaseConfig) buildDSN(user, password, database string) string {
	userInfo := url.UserPassword(user, password)
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		userInfo.String(),
		d.Host,
		d.Port,
		database,
		sslMode,
	)
}

func (a AuthConfig) Validate() error {
	if a.IssuerBaseURL == "" {
		return errors.New("AUTH_ISSUER_BASE_URL environment variable is required")
	}
	if a.Audience == "" {
		return errors.New("AUTH_AUDIENCE environment variable is required")
	}
	return nil
}
