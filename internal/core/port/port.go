package port

import (
	"context"

	"github.com/niksmo/local-market/internal/core/domain"
)

type (
	runner interface {
		Run(context.Context, context.CancelFunc)
	}

	closer interface {
		Close()
	}
)

// Inbound ports.

type ProductsBrowser interface {
	Products(context.Context, domain.FilterState) (ProductListing, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	Deals(context.Context) ([]domain.Product, error)
	Shops(ctx context.Context, pinCode string) ([]domain.Shop, error)
	Locations(ctx context.Context, term string) ([]domain.Location, error)
}

type CartKeeper interface {
	NewCart(context.Context) (string, error)
	Cart(ctx context.Context, cartID string) (CartView, error)
	AddToCart(ctx context.Context, cartID, productID string) (CartView, error)
	DecrementCartItem(ctx context.Context, cartID, productID string) (CartView, error)
	RemoveFromCart(ctx context.Context, cartID, productID string) (CartView, error)
	Checkout(ctx context.Context, cartID, customerID string) (domain.Order, error)
}

type WishlistKeeper interface {
	NewWishlist(context.Context) (string, error)
	Wishlist(ctx context.Context, wishlistID string) (WishlistView, error)
	ToggleWishlist(ctx context.Context, wishlistID, productID string) (WishlistView, bool, error)
}

type SessionManager interface {
	Login(context.Context, domain.Credentials) (domain.Session, error)
	SignUp(context.Context, domain.SignUp) (domain.Session, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (domain.Session, error)
}

type SettingsManager interface {
	Settings(context.Context) (domain.SiteSettings, error)
	SaveSettings(context.Context, domain.SiteSettings) (domain.SiteSettings, error)
}

type OrdersReader interface {
	Orders(ctx context.Context, customerID string) ([]domain.Order, error)
}

type (
	ProductListing struct {
		Products      []domain.Product
		ActiveFilters int
	}

	CartView struct {
		ID       string
		Lines    []CartLineView
		Items    []string
		Units    int
		Total    int64
		Currency string
	}

	CartLineView struct {
		Product  domain.Product
		Quantity int
		Subtotal int64
	}

	WishlistView struct {
		ID       string
		Products []domain.Product
		InStock  int
		Savings  int64
	}
)

// Outbound ports.

// A KeyValueStore persists string entries. Get returns
// [domain.ErrNotFound] for absent keys. Last write wins.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type OrderRecorder interface {
	RecordOrder(context.Context, domain.Order) error
}

type OrderHistory interface {
	Orders(ctx context.Context, customerID string) ([]domain.Order, error)
}

// A SettingsPublisher broadcasts saved settings. Delivery is fire-and-forget.
type SettingsPublisher interface {
	PublishSettings(context.Context, domain.SiteSettings)
}

type OrderHistoryProcessor interface {
	runner
	closer
}
