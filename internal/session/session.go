package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/user"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
)

// CookieName is the session cookie set for browser clients.
const CookieName = "app_session_id"

var ErrInvalidToken = errors.New("invalid session token")

// Caller is the authenticated user attached to a request.
type Caller struct {
	ID     uint
	Role   user.Role
	OpenID string
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == user.RoleAdmin
}

type claims struct {
	OpenID string    `json:"openId"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for u and returns it with its expiry.
func (m *Manager) Issue(u *models.User) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		OpenID: u.OpenID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Parse(raw string) (*Caller, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var id uint
	if _, err := fmt.Sscan(c.Subject, &id); err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("%w: bad role %q", ErrInvalidToken, c.Role)
	}

	return &Caller{ID: id, Role: c.Role, OpenID: c.OpenID}, nil
}
