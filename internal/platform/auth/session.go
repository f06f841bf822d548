// Package auth issues and verifies session tokens for logged-in staff. The
// credential check itself lives with the staff directory; this package only
// turns a successful login into a bearer token and back.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	StaffIDKey   = "staff_id"
	StaffRoleKey = "staff_role"

	issuer = "carehome-server"
)

// Claims carries the authenticated staff identity inside the session token.
type Claims struct {
	jwt.RegisteredClaims
	StaffID string `json:"staff_id"`
	Role    string `json:"role"`
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	key []byte
	ttl time.Duration
}

func NewSessions(signingKey string, ttl time.Duration) *Sessions {
	return &Sessions{key: []byte(signingKey), ttl: ttl}
}

// Issue returns a signed token for the given staff identity.
func (s *Sessions) Issue(staffID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		StaffID: staffID,
		Role:    role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *Sessions) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// Middleware validates the bearer token and puts the staff identity on the
// echo context. Requests without a valid token get 401.
func (s *Sessions) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
			}
			claims, err := s.Verify(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}
			c.Set(StaffIDKey, claims.StaffID)
			c.Set(StaffRoleKey, claims.Role)
			return next(c)
		}
	}
}

// StaffID returns the authenticated staff id from the context.
func StaffID(c echo.Context) string {
	id, _ := c.Get(StaffIDKey).(string)
	return id
}

// Role returns the authenticated staff role from the context.
func Role(c echo.Context) string {
	role, _ := c.Get(StaffRoleKey).(string)
	return role
}
