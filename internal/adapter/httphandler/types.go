package httphandler

import (
	"time"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

type (
	Product struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"`
		Price           int64    `json:"price"`
		OriginalPrice   int64    `json:"original_price,omitempty"`
		DiscountPercent int      `json:"discount_percent"`
		Savings         int64    `json:"savings"`
		Currency        string   `json:"currency"`
		Rating          float64  `json:"rating"`
		ReviewCount     int      `json:"review_count"`
		ShopName        string   `json:"shop_name"`
		Location        string   `json:"location"`
		Images          []string `json:"images"`
		Sizes           []string `json:"sizes"`
		Colors          []string `json:"colors"`
		Category        string   `json:"category"`
		Gender          string   `json:"gender"`
		InStock         bool     `json:"in_stock"`
	}

	ProductList struct {
		Products      []Product `json:"products"`
		Count         int       `json:"count"`
		ActiveFilters int       `json:"active_filters"`
	}

	Shop struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		Location     string   `json:"location"`
		Rating       float64  `json:"rating"`
		ReviewCount  int      `json:"review_count"`
		Categories   []string `json:"categories"`
		IsOpen       bool     `json:"is_open"`
		DeliveryTime string   `json:"delivery_time"`
		Image        string   `json:"image"`
		PinCodes     []string `json:"pin_codes"`
	}

	Location struct {
		PinCode string `json:"pin_code"`
		Area    string `json:"area"`
		City    string `json:"city"`
	}
)

type (
	Cart struct {
		ID       string     `json:"id"`
		Lines    []CartLine `json:"lines"`
		Items    []string   `json:"items"`
		Units    int        `json:"units"`
		Total    int64      `json:"total"`
		Currency string     `json:"currency"`
	}

	CartLine struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
		Subtotal int64   `json:"subtotal"`
	}

	Wishlist struct {
		ID       string    `json:"id"`
		Products []Product `json:"products"`
		Count    int       `json:"count"`
		InStock  int       `json:"in_stock"`
		Savings  int64     `json:"savings"`
	}

	WishlistToggle struct {
		Wishlist
		Added bool `json:"added"`
	}

	Order struct {
		ID         string      `json:"id"`
		CustomerID string      `json:"customer_id"`
		Items      []OrderItem `json:"items"`
		Units      int         `json:"units"`
		Total      int64       `json:"total"`
		Currency   string      `json:"currency"`
		Status     string      `json:"status,omitempty"`
		PlacedAt   *time.Time  `json:"placed_at,omitempty"`
	}

	OrderItem struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		UnitPrice int64  `json:"unit_price"`
	}
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	SignUpRequest struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	Session struct {
		Token     string    `json:"token,omitempty"`
		Role      string    `json:"role"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	Settings struct {
		CompanyName  string `json:"company_name"`
		Phone        string `json:"phone"`
		Email        string `json:"email"`
		Address      string `json:"address"`
		HeroTitle    string `json:"hero_title"`
		HeroSubtitle string `json:"hero_subtitle"`
	}

	errorBody struct {
		Error string `json:"error"`
	}
)

func toProduct(p domain.Product) Product {
	return Product{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent(),
		Savings:         p.Savings(),
		Currency:        domain.Currency,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		ShopName:        p.ShopName,
		Location:        p.Location,
		Images:          nonNil(p.Images),
		Sizes:           nonNil(p.Sizes),
		Colors:          nonNil(p.Colors),
		Category:        p.Category,
		Gender:          p.Gender,
		InStock:         p.InStock,
	}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProduct(p))
	}
	return out
}

func toShops(ss []domain.Shop) []Shop {
	out := make([]Shop, 0, len(ss))
	for _, s := range ss {
		out = append(out, Shop{
			ID:           s.ID,
			Name:         s.Name,
			Location:     s.Location,
			Rating:       s.Rating,
			ReviewCount:  s.ReviewCount,
			Categories:   nonNil(s.Categories),
			IsOpen:       s.IsOpen,
			DeliveryTime: s.DeliveryTime,
			Image:        s.Image,
			PinCodes:     nonNil(s.PinCodes),
		})
	}
	return out
}

func toLocations(ls []domain.Location) []Location {
	out := make([]Location, 0, len(ls))
	for _, l := range ls {
		out = append(out, Location(l))
	}
	return out
}

func toCart(v port.CartView) Cart {
	c := Cart{
		ID:       v.ID,
		Lines:    make([]CartLine, 0, len(v.Lines)),
		Items:    nonNil(v.Items),
		Units:    v.Units,
		Total:    v.Total,
		Currency: v.Currency,
	}
	for _, l := range v.Lines {
		c.Lines = append(c.Lines, CartLine{
			Product:  toProduct(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal,
		})
	}
	return c
}

func toWishlist(v port.WishlistView) Wishlist {
	return Wishlist{
		ID:       v.ID,
		Products: toProducts(v.Products),
		Count:    len(v.Products),
		InStock:  v.InStock,
		Savings:  v.Savings,
	}
}

func toOrder(o domain.Order) Order {
	out := Order{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Items:      make([]OrderItem, 0, len(o.Items)),
		Units:      o.Units(),
		Total:      o.Total,
		Currency:   domain.Currency,
		Status:     o.Status,
	}
	if !o.PlacedAt.IsZero() {
		placedAt := o.PlacedAt.UTC()
		out.PlacedAt = &placedAt
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItem(it))
	}
	return out
}

func toOrders(orders []domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	return out
}

func toSession(s domain.Session) Session {
	return Session{
		Token:     s.Token,
		Role:      string(s.Role),
		Email:     s.Email,
		Name:      s.Name,
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

func toSettings(s domain.SiteSettings) Settings {
	return Settings{
		CompanyName:  s.CompanyName,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		HeroTitle:    s.HeroTitle,
		HeroSubtitle: s.HeroSubtitle,
	}
}

func (s Settings) toDomain() domain.SiteSettings {
	return domain.SiteSettings{
		CompanyName:  s.CompanyName,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		HeroTitle:    s.HeroTitle,
		HeroSubtitle: s.HeroSubtitle,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
