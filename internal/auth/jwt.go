package auth

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"libraryManagement/models"
)

// Principal is the authenticated identity attached to a request.
// Role is read from the users table, not from the token.
type Principal struct {
	UserID    int64
	Username  string
	Role      models.Role
	SessionID string
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

func IsAuthenticated(p *Principal) bool {
	return p != nil && p.UserID != 0
}

func IsAdmin(p *Principal) bool {
	return IsAuthenticated(p) && p.Role == models.RoleAdmin
}

func IsUser(p *Principal) bool {
	return IsAuthenticated(p) && p.Role == models.RoleUser
}

// Claims is the payload of the session cookie token.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token referencing the given session.
func IssueToken(secret string, s *models.Session, u *models.User) (string, error) {
	if secret == "" {
		return "", errors.New("session secret is empty")
	}
	claims := Claims{
		SessionID: s.ID,
		UserID:    u.ID,
		Role:      string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	c, _ := tok.Claims.(*Claims)
	if c == nil || c.SessionID == "" || c.UserID == 0 {
		return nil, errors.New("invalid claims")
	}
	return c, nil
}
