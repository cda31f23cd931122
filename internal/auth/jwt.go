// Package auth validates the bearer tokens presented to the comment service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrInvalidToken wraps every validation failure.
var ErrInvalidToken = errors.New("invalid access token")

const leeway = 30 * time.Second

// Identity is the caller behind a valid token.
type Identity struct {
	UserID uuid.UUID
	Name   string
}

// JWTManager checks HS256 access tokens minted by the dashboard's auth
// backend. It can also mint tokens, which only tooling and tests use.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
	parser *jwt.Parser
}

type Option func(*JWTManager)

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(c clockwork.Clock) Option {
	return func(m *JWTManager) { m.clock = c }
}

func NewJWTManager(secret, issuer string, ttl time.Duration, opts ...Option) *JWTManager {
	m := &JWTManager{secret: []byte(secret), issuer: issuer, ttl: ttl, clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(m)
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(m.clock.Now),
	)
	return m
}

type claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// GenerateAccessToken signs a token whose subject is userID.
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, name string) (string, error) {
	now := m.clock.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Name: name,
	})
	s, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (m *JWTManager) ValidateAccessToken(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	var c claims
	if _, err := m.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) { return m.secret, nil }); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return Identity{UserID: userID, Name: c.Name}, nil
}

// ValidateToken satisfies the bearer middleware.
func (m *JWTManager) ValidateToken(_ context.Context, raw string) (uuid.UUID, error) {
	id, err := m.ValidateAccessToken(raw)
	return id.UserID, err
}
