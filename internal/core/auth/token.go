package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/local-market/internal/core/domain"
)

const tokenIssuer = "local-market/storefront"

var ErrEmptySecret = errors.New("token secret is empty")

// SessionClaims is the JWT payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role  domain.Role `json:"role"`
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
}

// A TokenIssuer signs sessions as HS256 JWTs and verifies them.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	const op = "auth.NewTokenIssuer"
	if len(secret) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue stamps the session lifetime and fills its Token.
func (i *TokenIssuer) Issue(s domain.Session) (domain.Session, error) {
	const op = "TokenIssuer.Issue"

	now := i.now().UTC().Truncate(time.Second)
	s.IssuedAt = now
	s.ExpiresAt = now.Add(i.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.Email,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Role:  s.Role,
		Email: s.Email,
		Name:  s.Name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	s.Token = token
	return s, nil
}

// Verify parses token and returns the session it carries.
// Every failure wraps [domain.ErrUnauthorized].
func (i *TokenIssuer) Verify(token string) (domain.Session, error) {
	const op = "TokenIssuer.Verify"

	var claims SessionClaims
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUnauthorized, err,
		)
	}

	if !claims.Role.Valid() {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: unknown role %q", op, domain.ErrUnauthorized, claims.Role,
		)
	}

	s := domain.Session{
		ID:        claims.ID,
		Role:      claims.Role,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}
