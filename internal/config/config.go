// Package config reads the server configuration from the environment. A .env
// file in the working directory is loaded by the binary before Load runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const DefaultOwnerID = "00000000-0000-4000-8000-000000000001"

type SMTP struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// Enabled reports whether credentials are set; without them the contact form
// reports a send error.
func (s SMTP) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

type Config struct {
	Port    string
	GinMode string
	Debug   bool

	DatabaseURL string
	SQLitePath  string

	OwnerID           string
	OwnerUsername     string
	OwnerPasswordHash string
	PasswordPepper    string
	BcryptCost        int

	// OwnerPassword is a plain-text development fallback, hashed at startup.
	OwnerPassword string

	JWTSecret     string
	JWTExpiration time.Duration

	// JWTSecretGenerated is set when JWTSecret was generated because none
	// was configured.
	JWTSecretGenerated bool

	UploadDir     string
	PublicBaseURL string

	SMTP SMTP

	SecureCookies    bool
	VisitorRetention time.Duration
}

// DSN is what store.Open expects: the Postgres URL if set, else the SQLite
// file.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

// LoadFile loads variables from an env file without overriding ones that are
// already set. A missing file is not an error.
func LoadFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	c := &Config{
		Port:              env("PORT", "8080"),
		GinMode:           env("GIN_MODE", "release"),
		DatabaseURL:       env("DATABASE_URL", ""),
		SQLitePath:        env("SQLITE_PATH", "portfolio.db"),
		OwnerID:           env("OWNER_ID", DefaultOwnerID),
		OwnerUsername:     env("OWNER_USERNAME", "admin"),
		OwnerPasswordHash: env("OWNER_PASSWORD_HASH", ""),
		OwnerPassword:     getenv("OWNER_PASSWORD"),
		PasswordPepper:    getenv("PASSWORD_PEPPER"),
		JWTSecret:         getenv("JWT_SECRET"),
		UploadDir:         env("UPLOAD_DIR", "uploads"),
		PublicBaseURL:     env("PUBLIC_BASE_URL", "/uploads"),
		SMTP: SMTP{
			Host:    env("SMTP_HOST", "smtp.gmail.com"),
			Port:    env("SMTP_PORT", "587"),
			User:    env("SMTP_USER", ""),
			Pass:    getenv("SMTP_PASS"),
			ToEmail: env("TO_EMAIL", ""),
		},
	}

	var errs []error
	var err error
	if c.BcryptCost, err = strconv.Atoi(env("BCRYPT_COST", "12")); err != nil {
		errs = append(errs, fmt.Errorf("invalid BCRYPT_COST: %w", err))
	} else if c.BcryptCost < 10 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST out of range: %d (must be 10-14)", c.BcryptCost))
	}

	hours, err := strconv.Atoi(env("JWT_EXPIRATION_HOURS", "24"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err))
	case hours < 1:
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours))
	default:
		c.JWTExpiration = time.Duration(hours) * time.Hour
	}

	if c.VisitorRetention, err = time.ParseDuration(env("VISITOR_RETENTION", "8760h")); err != nil {
		errs = append(errs, fmt.Errorf("invalid VISITOR_RETENTION: %w", err))
	} else if c.VisitorRetention <= 0 {
		errs = append(errs, errors.New("VISITOR_RETENTION must be positive"))
	}

	if c.SecureCookies, err = strconv.ParseBool(env("SECURE_COOKIES", "false")); err != nil {
		errs = append(errs, fmt.Errorf("invalid SECURE_COOKIES: %w", err))
	}

	if _, err := uuid.Parse(c.OwnerID); err != nil {
		errs = append(errs, fmt.Errorf("invalid OWNER_ID %q: %w", c.OwnerID, err))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("invalid GIN_MODE %q", c.GinMode))
	}

	if c.SMTP.ToEmail == "" {
		c.SMTP.ToEmail = c.SMTP.User
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureJWTSecret fills in a generated secret when none is configured.
func (c *Config) EnsureJWTSecret(generate func() (string, error)) error {
	if c.JWTSecret != "" {
		return nil
	}
	secret, err := generate()
	if err != nil {
		return err
	}
	c.JWTSecret = secret
	c.JWTSecretGenerated = true
	return nil
}
