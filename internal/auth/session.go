// Package auth delegates sign-in to an external OAuth2 identity provider and
// keeps the signed-in user in a signed session cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie holds the signed session token.
const SessionCookie = "rtplus_session"

// OrgCookie remembers the last organization opened. It is set by the pages
// and cleared on logout with the session.
const OrgCookie = "rtplus_org"

const localsKey = "rtplus.session"

// ErrNoSession is returned when a request carries no valid session. It is a
// *fiber.Error so unhandled it still renders as 401.
var ErrNoSession = fiber.NewError(fiber.StatusUnauthorized, "no user session")

// Session is the signed-in user as reported by the identity provider.
type Session struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (sc *sessionClaims) session() *Session {
	s := &Session{
		Subject: sc.Subject,
		Email:   sc.Email,
		Name:    sc.Name,
		Picture: sc.Picture,
	}
	if sc.ExpiresAt != nil {
		s.ExpiresAt = sc.ExpiresAt.Time
	}
	return s
}

// UserSession returns the session attached to the request by Attach or
// Protected, or ErrNoSession.
func UserSession(c *fiber.Ctx) (*Session, error) {
	if s, ok := c.Locals(localsKey).(*Session); ok && s != nil {
		return s, nil
	}
	return nil, ErrNoSession
}

func setUserSession(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}

// Issue signs a session token valid for the manager's TTL.
func (m *Manager) Issue(s Session) (string, time.Time, error) {
	if s.Email == "" {
		return "", time.Time{}, errors.New("issue session: email is required")
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := &sessionClaims{
		Email:   s.Email,
		Name:    s.Name,
		Picture: s.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a session token.
func (m *Manager) Parse(token string) (*Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, errors.Join(ErrNoSession, err)
	}
	return claims.session(), nil
}

func (m *Manager) keyFunc(*jwt.Token) (any, error) {
	return m.secret, nil
}
