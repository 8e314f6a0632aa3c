// Package auth authenticates storefront accounts and issues session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/local-market/internal/core/domain"
	"golang.org/x/crypto/bcrypt"
)

// An Authenticator verifies credentials and opens a session.
//
// Implementations return [domain.ErrInvalidCredentials] on mismatch.
type Authenticator interface {
	Authenticate(context.Context, domain.Credentials) (domain.Session, error)
}

type Account struct {
	Email        string
	PasswordHash []byte
	Role         domain.Role
	Name         string
}

// NewAccount hashes password with bcrypt.
func NewAccount(email, password string, role domain.Role, name string) (Account, error) {
	const op = "auth.NewAccount"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return Account{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
	}, nil
}

// DemoAccounts are the built-in vendor and admin logins.
func DemoAccounts() ([]Account, error) {
	admin, err := NewAccount("admin@fitfeet.com", "admin123", domain.RoleAdmin, "Admin")
	if err != nil {
		return nil, err
	}
	vendor, err := NewAccount("vendor@fitfeet.com", "vendor123", domain.RoleVendor, "Vendor")
	if err != nil {
		return nil, err
	}
	return []Account{admin, vendor}, nil
}

var _ Authenticator = (*AccountAuthenticator)(nil)

// An AccountAuthenticator checks credentials against a fixed account list.
type AccountAuthenticator struct {
	accounts map[string]Account
	now      func() time.Time
}

func NewAccountAuthenticator(accounts []Account) (*AccountAuthenticator, error) {
	const op = "auth.NewAccountAuthenticator"

	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		if !a.Role.Valid() {
			return nil, fmt.Errorf("%s: account %q: invalid role %q", op, a.Email, a.Role)
		}
		if len(a.PasswordHash) == 0 {
			return nil, fmt.Errorf("%s: account %q: empty password hash", op, a.Email)
		}
		m[normalizeEmail(a.Email)] = a
	}
	return &AccountAuthenticator{accounts: m, now: time.Now}, nil
}

func (a *AccountAuthenticator) Authenticate(
	ctx context.Context, c domain.Credentials,
) (domain.Session, error) {
	const op = "AccountAuthenticator.Authenticate"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	acc, ok := a.accounts[normalizeEmail(c.Email)]
	if !ok || (c.Role != "" && acc.Role != c.Role) {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	if err := comparePassword(acc.PasswordHash, c.Password); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return newSession(acc, a.now()), nil
}

var _ Authenticator = (*CustomerRegistry)(nil)

// A CustomerRegistry signs customers up and authenticates them.
// It is safe for concurrent use.
type CustomerRegistry struct {
	mu       sync.RWMutex
	accounts map[string]Account
	now      func() time.Time
}

func NewCustomerRegistry() *CustomerRegistry {
	return &CustomerRegistry{
		accounts: make(map[string]Account),
		now:      time.Now,
	}
}

// SignUp validates the form, stores the account and opens a session.
func (r *CustomerRegistry) SignUp(
	ctx context.Context, s domain.SignUp,
) (domain.Session, error) {
	const op = "CustomerRegistry.SignUp"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateSignUp(s); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	name := s.Name
	if name == "" {
		name = "Customer"
	}

	acc, err := NewAccount(s.Email, s.Password, domain.RoleCustomer, name)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	key := normalizeEmail(s.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[key]; ok {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrAccountExists)
	}
	r.accounts[key] = acc

	return newSession(acc, r.now()), nil
}

func (r *CustomerRegistry) Authenticate(
	ctx context.Context, c domain.Credentials,
) (domain.Session, error) {
	const op = "CustomerRegistry.Authenticate"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	acc, ok := r.accounts[normalizeEmail(c.Email)]
	r.mu.RUnlock()

	if !ok {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	if err := comparePassword(acc.PasswordHash, c.Password); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return newSession(acc, r.now()), nil
}

func validateSignUp(s domain.SignUp) error {
	if strings.TrimSpace(s.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if s.Password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if s.Password != s.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	return nil
}

func comparePassword(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return err
}

func newSession(acc Account, now time.Time) domain.Session {
	return domain.Session{
		ID:       uuid.NewString(),
		Role:     acc.Role,
		Email:    acc.Email,
		Name:     acc.Name,
		IssuedAt: now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
