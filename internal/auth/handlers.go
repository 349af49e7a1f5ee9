package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/rtplus/rtplus/internal/monitoring"
)

const (
	stateCookie    = "rtplus_auth_state"
	returnToCookie = "rtplus_return_to"
)

// Register mounts login, callback, logout and me under r.
func (m *Manager) Register(r fiber.Router) {
	r.Get("/login", m.login)
	r.Get("/callback", m.callback)
	r.Get("/logout", m.logout)
	r.Get("/me", m.Attach(), m.me)
}

// Attach loads the session cookie, when valid, into the request. Requests
// without a session pass through.
func (m *Manager) Attach() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Cookies(SessionCookie); raw != "" {
			if s, err := m.Parse(raw); err == nil {
				setUserSession(c, s)
			}
		}
		return c.Next()
	}
}

// Protected rejects requests without a valid session cookie with
// ErrNoSession.
func (m *Manager) Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwt.SigningMethodHS256.Alg(), Key: m.secret},
		TokenLookup: "cookie:" + SessionCookie,
		Claims:      &sessionClaims{},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrNoSession
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return ErrNoSession
			}
			claims, ok := token.Claims.(*sessionClaims)
			if !ok || claims.Email == "" || claims.Issuer != issuer {
				return ErrNoSession
			}
			setUserSession(c, claims.session())
			return c.Next()
		},
	})
}

func (m *Manager) login(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(m.cookie(stateCookie, state, m.now().Add(10*time.Minute)))
	if rt := safeReturnTo(c.Query("returnTo")); rt != "" {
		c.Cookie(m.cookie(returnToCookie, rt, m.now().Add(10*time.Minute)))
	}
	return c.Redirect(m.oauth.AuthCodeURL(state), fiber.StatusFound)
}

func (m *Manager) callback(c *fiber.Ctx) error {
	if e := c.Query("error"); e != "" {
		return fiber.NewError(fiber.StatusUnauthorized, "identity provider: "+c.Query("error_description", e))
	}
	state := c.Cookies(stateCookie)
	if state == "" || c.Query("state") != state {
		return fiber.NewError(fiber.StatusBadRequest, "invalid login state")
	}
	c.Cookie(m.expired(stateCookie))

	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing authorization code")
	}

	tok, err := m.oauth.Exchange(c.UserContext(), code)
	if err != nil {
		monitoring.Logf("auth: code exchange failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "identity provider rejected the login")
	}
	info, err := m.userInfo(c.UserContext(), tok)
	if err != nil {
		monitoring.Logf("auth: userinfo failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "identity provider returned no profile")
	}

	signed, exp, err := m.Issue(Session{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	})
	if err != nil {
		return err
	}
	c.Cookie(m.cookie(SessionCookie, signed, exp))

	dest := safeReturnTo(c.Cookies(returnToCookie))
	if dest == "" {
		dest = DefaultReturnTo
	} else {
		c.Cookie(m.expired(returnToCookie))
	}
	return c.Redirect(dest, fiber.StatusFound)
}

func (m *Manager) logout(c *fiber.Ctx) error {
	c.Cookie(m.expired(SessionCookie))
	c.Cookie(m.expired(OrgCookie))
	return c.Redirect(m.providerLogoutURL(), fiber.StatusFound)
}

func (m *Manager) me(c *fiber.Ctx) error {
	s, err := UserSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": s})
}

type userInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (m *Manager) userInfo(ctx context.Context, tok *oauth2.Token) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo: no email for %q", info.Sub)
	}
	return &info, nil
}

func (m *Manager) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (m *Manager) expired(name string) *fiber.Cookie {
	return m.cookie(name, "", time.Unix(0, 0))
}
