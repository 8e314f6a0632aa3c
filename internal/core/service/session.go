package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/local-market/internal/core/domain"
)

const sessionKeyPrefix = "session:"

type sessionRecord struct {
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Login authenticates credentials with the authenticator registered for
// their role and persists the opened session.
func (s *Service) Login(
	ctx context.Context, c domain.Credentials,
) (domain.Session, error) {
	const op = "Service.Login"
	log := slog.With("op", op)

	if !c.Role.Valid() {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: unknown role %q", op, domain.ErrValidation, c.Role,
		)
	}

	a, ok := s.authenticators[c.Role]
	if !ok {
		return domain.Session{}, fmt.Errorf(
			"%s: no authenticator for role %q: %w", op, c.Role, domain.ErrForbidden,
		)
	}

	session, err := a.Authenticate(ctx, c)
	if err != nil {
		log.Info("login rejected", "role", c.Role, "err", err)
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err = s.openSession(ctx, session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("logged in", "role", session.Role, "sessionID", session.ID)
	return session, nil
}

// SignUp registers a customer and logs them in.
func (s *Service) SignUp(
	ctx context.Context, form domain.SignUp,
) (domain.Session, error) {
	const op = "Service.SignUp"

	if s.customers == nil {
		return domain.Session{}, fmt.Errorf(
			"%s: customer sign-up disabled: %w", op, domain.ErrForbidden,
		)
	}

	session, err := s.customers.SignUp(ctx, form)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err = s.openSession(ctx, session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("customer signed up", "op", op, "sessionID", session.ID)
	return session, nil
}

// Logout forgets the session carried by token.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "Service.Logout"

	session, err := s.tokens.Verify(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.kv.Delete(ctx, sessionKey(session.ID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Session resolves token to a live session. Tokens whose session was
// logged out are rejected even before they expire.
func (s *Service) Session(ctx context.Context, token string) (domain.Session, error) {
	const op = "Service.Session"

	session, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := s.kv.Get(ctx, sessionKey(session.ID))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, fmt.Errorf(
			"%s: session ended: %w", op, domain.ErrUnauthorized,
		)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Role != session.Role {
		return domain.Session{}, fmt.Errorf(
			"%s: corrupt session record: %w", op, domain.ErrUnauthorized,
		)
	}
	return session, nil
}

func (s *Service) openSession(
	ctx context.Context, session domain.Session,
) (domain.Session, error) {
	session, err := s.tokens.Issue(session)
	if err != nil {
		return domain.Session{}, err
	}

	rec, err := json.Marshal(sessionRecord{
		Role:      session.Role,
		Email:     session.Email,
		Name:      session.Name,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.kv.Set(ctx, sessionKey(session.ID), string(rec)); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}
