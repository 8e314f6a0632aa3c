package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/local-market/internal/core/auth"
	"github.com/niksmo/local-market/internal/core/cart"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/internal/core/store"
	"github.com/niksmo/local-market/internal/core/wishlist"
)

var (
	_ port.ProductsBrowser = (*Service)(nil)
	_ port.CartKeeper      = (*Service)(nil)
	_ port.WishlistKeeper  = (*Service)(nil)
	_ port.SessionManager  = (*Service)(nil)
	_ port.SettingsManager = (*Service)(nil)
	_ port.OrdersReader    = (*Service)(nil)
)

var ErrMissingOpt = errors.New("required option is not set")

type Opt func(*Service) error

func KeyValueStoreOpt(kv port.KeyValueStore) Opt {
	return func(s *Service) error {
		if kv == nil {
			return errors.New("key-value store is nil")
		}
		s.kv = kv
		return nil
	}
}

func OrdersOpt(r port.OrderRecorder, h port.OrderHistory) Opt {
	return func(s *Service) error {
		if r == nil || h == nil {
			return errors.New("order recorder or history is nil")
		}
		s.orderRecorder = r
		s.orderHistory = h
		return nil
	}
}

// AuthenticatorOpt routes logins of role to a.
func AuthenticatorOpt(role domain.Role, a auth.Authenticator) Opt {
	return func(s *Service) error {
		if a == nil || !role.Valid() {
			return fmt.Errorf("invalid authenticator for role %q", role)
		}
		s.authenticators[role] = a
		return nil
	}
}

// CustomerRegistryOpt serves sign-ups and customer logins from r.
func CustomerRegistryOpt(r *auth.CustomerRegistry) Opt {
	return func(s *Service) error {
		if r == nil {
			return errors.New("customer registry is nil")
		}
		s.customers = r
		s.authenticators[domain.RoleCustomer] = r
		return nil
	}
}

func TokenIssuerOpt(t *auth.TokenIssuer) Opt {
	return func(s *Service) error {
		if t == nil {
			return errors.New("token issuer is nil")
		}
		s.tokens = t
		return nil
	}
}

func SettingsPublisherOpt(p port.SettingsPublisher) Opt {
	return func(s *Service) error {
		if p == nil {
			return errors.New("settings publisher is nil")
		}
		s.publishers = append(s.publishers, p)
		return nil
	}
}

// Service is the storefront application core.
type Service struct {
	catalog        domain.Catalog
	kv             port.KeyValueStore
	orderRecorder  port.OrderRecorder
	orderHistory   port.OrderHistory
	authenticators map[domain.Role]auth.Authenticator
	customers      *auth.CustomerRegistry
	tokens         *auth.TokenIssuer
	publishers     []port.SettingsPublisher
	settings       *store.Store[domain.SiteSettings]
	carts          *registry[*cart.Ledger]
	wishlists      *registry[*wishlist.Set]
	now            func() time.Time
}

// New builds the service and loads persisted site settings.
func New(ctx context.Context, catalog domain.Catalog, opts ...Opt) (*Service, error) {
	const op = "service.New"

	s := &Service{
		catalog:        catalog,
		authenticators: make(map[domain.Role]auth.Authenticator),
		wishlists:      newRegistry(wishlist.NewSet),
		now:            time.Now,
	}
	s.carts = newRegistry(s.newLedger)

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	switch {
	case s.kv == nil:
		return nil, fmt.Errorf("%s: key-value store: %w", op, ErrMissingOpt)
	case s.tokens == nil:
		return nil, fmt.Errorf("%s: token issuer: %w", op, ErrMissingOpt)
	case s.orderRecorder == nil:
		return nil, fmt.Errorf("%s: orders: %w", op, ErrMissingOpt)
	}

	s.settings = store.New(s.loadSettings(ctx))
	for _, p := range s.publishers {
		s.settings.Subscribe(func(v domain.SiteSettings) {
			p.PublishSettings(context.Background(), v)
		})
	}

	return s, nil
}

func (s *Service) newLedger() *cart.Ledger {
	l := cart.NewLedger()
	l.OnChange(func(items []string) {
		slog.Debug("cart changed", "op", "Service.newLedger", "units", len(items))
	})
	return l
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}

// A registry owns single-owner values by id and serialises access to them.
type registry[T any] struct {
	mu      sync.Mutex
	items   map[string]T
	newItem func() T
}

func newRegistry[T any](newItem func() T) *registry[T] {
	return &registry[T]{items: make(map[string]T), newItem: newItem}
}

// with runs fn on the value of id. It reports false when id is unknown.
func (r *registry[T]) with(id string, fn func(T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items[id]
	if !ok {
		return false
	}
	fn(v)
	return true
}

func (r *registry[T]) create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.items[id] = r.newItem()
	return id
}
