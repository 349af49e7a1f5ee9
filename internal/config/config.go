package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rtplus/rtplus/internal/sandbox"
)

// DefaultPort is used when PORT is unset.
const DefaultPort = "3000"

// DefaultSandboxDomain is the mail domain given to generated sandbox addresses.
const DefaultSandboxDomain = sandbox.Domain

// Config holds the application configuration.
type Config struct {
	// Port is the local listen port. Default: 3000.
	Port string

	// VercelURL is the externally visible host name when deployed.
	// When set, it takes precedence over the local address.
	VercelURL string

	// DBPath is the SQLite database file. Empty means DefaultDBPath.
	DBPath string

	// SessionSecret signs session cookies. Required for serving.
	SessionSecret string

	// SandboxDomain is the mail domain for generated sandbox addresses.
	SandboxDomain string

	Auth AuthConfig
}

// AuthConfig holds the external identity provider configuration.
type AuthConfig struct {
	IssuerBaseURL string
	ClientID      string
	ClientSecret  string
	Scope         string // Default: "openid profile email"
}

// Default returns a Config with defaults applied.
func Default() Config {
	return Config{
		Port:          DefaultPort,
		SandboxDomain: DefaultSandboxDomain,
		Auth: AuthConfig{
			Scope: "openid profile email",
		},
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = p
	}
	cfg.VercelURL = os.Getenv("VERCEL_URL")
	cfg.DBPath = os.Getenv("RTPLUS_DB")
	cfg.SessionSecret = os.Getenv("RTPLUS_SESSION_SECRET")
	if d := os.Getenv("RTPLUS_SANDBOX_DOMAIN"); d != "" {
		cfg.SandboxDomain = d
	}

	cfg.Auth.IssuerBaseURL = strings.TrimRight(os.Getenv("AUTH_ISSUER_BASE_URL"), "/")
	cfg.Auth.ClientID = os.Getenv("AUTH_CLIENT_ID")
	cfg.Auth.ClientSecret = os.Getenv("AUTH_CLIENT_SECRET")
	if s := os.Getenv("AUTH_SCOPE"); s != "" {
		cfg.Auth.Scope = s
	}

	return cfg
}

// Load reads the given .env files (default ".env") into the process
// environment and returns FromEnv. Missing files are ignored; variables
// already present in the environment are never overwritten.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(), nil
}

// ServerURL returns the externally visible base URL of the application:
// https://<VercelURL> when deployed, else http://localhost:<Port>.
func (c Config) ServerURL() string {
	if c.VercelURL != "" {
		return "https://" + c.VercelURL
	}
	port := c.Port
	if port == "" {
		port = DefaultPort
	}
	return "http://localhost:" + port
}

// ServerURL resolves the base URL straight from the environment.
func ServerURL() string {
	return FromEnv().ServerURL()
}

// ValidateServe reports configuration that prevents the server from starting.
func (c Config) ValidateServe() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("RTPLUS_SESSION_SECRET is not set"))
	}
	if c.Auth.IssuerBaseURL == "" {
		errs = append(errs, errors.New("AUTH_ISSUER_BASE_URL is not set"))
	}
	if c.Auth.ClientID == "" {
		errs = append(errs, errors.New("AUTH_CLIENT_ID is not set"))
	}
	return errors.Join(errs...)
}

// DefaultDBPath resolves the database file path in priority order:
// 1. RTPLUS_DB environment variable
// 2. $XDG_DATA_HOME/rtplus/rtplus.db
// 3. ~/.local/share/rtplus/rtplus.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("RTPLUS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "rtplus", "rtplus.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
