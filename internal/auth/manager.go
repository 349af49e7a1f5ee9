package auth

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/rtplus/rtplus/internal/config"
)

const (
	issuer = "rtplus"

	// DefaultTTL is how long a session cookie stays valid.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultReturnTo is where a completed login lands without returnTo.
	DefaultReturnTo = "/app"
)

// Manager runs the authorization code flow against the identity provider and
// issues session cookies.
type Manager struct {
	oauth       *oauth2.Config
	userInfoURL string
	logoutURL   string
	baseURL     string
	secret      []byte
	secure      bool
	ttl         time.Duration
	now         func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithClock overrides the time source used to issue and verify sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New builds a Manager from the application config. Provider endpoints are
// derived from the issuer base URL.
func New(cfg config.Config, opts ...Option) (*Manager, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("auth: session secret is required")
	}
	issuerURL := strings.TrimRight(cfg.Auth.IssuerBaseURL, "/")
	if issuerURL == "" {
		return nil, errors.New("auth: issuer base URL is required")
	}
	if _, err := url.Parse(issuerURL); err != nil {
		return nil, err
	}

	baseURL := cfg.ServerURL()
	m := &Manager{
		oauth: &oauth2.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  baseURL + "/api/auth/callback",
			Scopes:       strings.Fields(cfg.Auth.Scope),
			Endpoint: oauth2.Endpoint{
				AuthURL:   issuerURL + "/authorize",
				TokenURL:  issuerURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: issuerURL + "/userinfo",
		logoutURL:   issuerURL + "/v2/logout",
		baseURL:     baseURL,
		secret:      []byte(cfg.SessionSecret),
		secure:      strings.HasPrefix(baseURL, "https://"),
		ttl:         DefaultTTL,
		now:         time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// providerLogoutURL is where logout sends the browser so the provider ends
// its own session too.
func (m *Manager) providerLogoutURL() string {
	q := url.Values{}
	q.Set("client_id", m.oauth.ClientID)
	q.Set("returnTo", m.baseURL)
	return m.logoutURL + "?" + q.Encode()
}

// safeReturnTo accepts only same-site relative paths, with no control
// characters ("/\t/x" reaches the browser as "//x").
func safeReturnTo(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	if strings.ContainsFunc(p, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return ""
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return p
}
