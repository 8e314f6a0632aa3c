package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/local-market/internal/adapter/fixture"
	"github.com/niksmo/local-market/internal/adapter/httphandler"
	"github.com/niksmo/local-market/internal/adapter/storage"
	"github.com/niksmo/local-market/internal/core/auth"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()

	catalog, err := fixture.Demo()
	require.NoError(t, err)

	accounts, err := auth.DemoAccounts()
	require.NoError(t, err)
	staff, err := auth.NewAccountAuthenticator(accounts)
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	orders := storage.NewMemoryOrderBook()
	svc, err := service.New(t.Context(), catalog,
		service.KeyValueStoreOpt(storage.NewMemoryKeyValueStore()),
		service.OrdersOpt(orders, orders),
		service.TokenIssuerOpt(tokens),
		service.AuthenticatorOpt(domain.RoleAdmin, staff),
		service.AuthenticatorOpt(domain.RoleVendor, staff),
		service.CustomerRegistryOpt(auth.NewCustomerRegistry()),
	)
	require.NoError(t, err)

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, svc)
	httphandler.RegisterCarts(mux, svc, svc)
	httphandler.RegisterWishlists(mux, svc)
	httphandler.RegisterAuth(mux, svc)
	httphandler.RegisterSettings(mux, svc, svc)
	httphandler.RegisterOrders(mux, svc, svc)
	httphandler.RegisterNotFound(mux)
	return httphandler.AllowJSON(mux)
}

func do(
	t *testing.T, h http.Handler, method, path, token, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func login(t *testing.T, h http.Handler, role, email, password string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	rec := do(t, h, http.MethodPost, "/v1/auth/"+role+"/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[httphandler.Session](t, rec).Token
}

func signUp(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	body := `{"name":"Asha","email":"` + email + `","phone":"9876543210",` +
		`"password":"pw123","confirm_password":"pw123"}`
	rec := do(t, h, http.MethodPost, "/v1/auth/customer/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httphandler.Session](t, rec).Token
}

func TestCatalogRoutes(t *testing.T) {
	h := newHandler(t)

	t.Run("FilteredProducts", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/products?category=shoes&gender=male", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[httphandler.ProductList](t, rec)
		assert.Equal(t, 2, list.ActiveFilters)
		assert.Equal(t, len(list.Products), list.Count)
		require.NotEmpty(t, list.Products)
		for _, p := range list.Products {
			assert.Equal(t, "shoes", p.Category)
			assert.Equal(t, "male", p.Gender)
			assert.Equal(t, domain.Currency, p.Currency)
		}
	})

	t.Run("AllSelectorIsNoConstraint", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/products?category=all&sort_by=all", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[httphandler.ProductList](t, rec)
		assert.Equal(t, 16, list.Count)
		assert.Zero(t, list.ActiveFilters)
	})

	t.Run("EmptyResultIsNotAnError", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/products?category=nothing", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"products":[],"count":0,"active_filters":1}`,
			rec.Body.String(),
		)
	})

	t.Run("UnknownSortKey", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/products?sort_by=cheapest", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorOf(t, rec), "validation failed")
	})

	t.Run("Product", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/products/1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		p := decode[httphandler.Product](t, rec)
		assert.Equal(t, int64(7995), p.Price)
		assert.Equal(t, 11, p.DiscountPercent)
		assert.Equal(t, int64(1000), p.Savings)

		rec = do(t, h, http.MethodGet, "/v1/products/999", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Deals", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/deals", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		deals := decode[[]httphandler.Product](t, rec)
		require.NotEmpty(t, deals)
		for i, p := range deals {
			assert.Positive(t, p.DiscountPercent)
			if i > 0 {
				assert.LessOrEqual(t, p.DiscountPercent, deals[i-1].DiscountPercent)
			}
		}
	})

	t.Run("Shops", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/shops?pin_code=560001", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		shops := decode[[]httphandler.Shop](t, rec)
		require.NotEmpty(t, shops)
		for _, s := range shops {
			assert.Contains(t, s.PinCodes, "560001")
		}
	})

	t.Run("Locations", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/locations?q=mg%20road", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		locs := decode[[]httphandler.Location](t, rec)
		require.NotEmpty(t, locs)
		assert.Equal(t, "MG Road", locs[0].Area)
	})
}

func TestCartRoutes(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/carts", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	cart := decode[httphandler.Cart](t, rec)
	require.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)

	itemPath := "/v1/carts/" + cart.ID + "/items/"

	do(t, h, http.MethodPost, itemPath+"1", "", "")
	rec = do(t, h, http.MethodPost, itemPath+"1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, itemPath+"3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cart = decode[httphandler.Cart](t, rec)
	assert.Equal(t, []string{"1", "1", "3"}, cart.Items)
	assert.Equal(t, 3, cart.Units)
	assert.Equal(t, int64(2*7995+1299), cart.Total)

	t.Run("OutOfStock", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, itemPath+"4", "", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, itemPath+"999", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("UnknownCart", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/carts/8a5b4b6e-5d5f-4c0c-9d8e-2f1a3b4c5d6e", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, h, http.MethodGet, "/v1/carts/not-a-uuid", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Decrement", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, itemPath+"1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"1", "3"}, decode[httphandler.Cart](t, rec).Items)

		rec = do(t, h, http.MethodDelete, itemPath+"1?all=maybe", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CheckoutRequiresCustomer", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		admin := login(t, h, "admin", "admin@fitfeet.com", "admin123")
		rec = do(t, h, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout", admin, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("CheckoutAndHistory", func(t *testing.T) {
		token := signUp(t, h, "asha@example.com")

		rec := do(t, h, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		order := decode[httphandler.Order](t, rec)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, "asha@example.com", order.CustomerID)
		assert.Equal(t, 2, order.Units)
		assert.Equal(t, int64(7995+1299), order.Total)
		require.NotNil(t, order.PlacedAt)

		rec = do(t, h, http.MethodGet, "/v1/carts/"+cart.ID, "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, decode[httphandler.Cart](t, rec).Units)

		rec = do(t, h, http.MethodGet, "/v1/orders", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		history := decode[[]httphandler.Order](t, rec)
		require.Len(t, history, 1)
		assert.Equal(t, order.ID, history[0].ID)
	})
}

func TestWishlistRoutes(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/wishlists", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	wl := decode[httphandler.Wishlist](t, rec)
	assert.Zero(t, wl.Count)

	path := "/v1/wishlists/" + wl.ID + "/items/1"

	rec = do(t, h, http.MethodPost, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[httphandler.WishlistToggle](t, rec)
	assert.True(t, toggled.Added)
	assert.Equal(t, 1, toggled.Count)
	assert.Equal(t, int64(1000), toggled.Savings)

	rec = do(t, h, http.MethodPost, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	toggled = decode[httphandler.WishlistToggle](t, rec)
	assert.False(t, toggled.Added)
	assert.Zero(t, toggled.Count)

	rec = do(t, h, http.MethodPost, "/v1/wishlists/"+wl.ID+"/items/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRoutes(t *testing.T) {
	h := newHandler(t)

	t.Run("StaffLogin", func(t *testing.T) {
		token := login(t, h, "vendor", "vendor@fitfeet.com", "vendor123")

		rec := do(t, h, http.MethodGet, "/v1/auth/session", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		s := decode[httphandler.Session](t, rec)
		assert.Equal(t, "vendor", s.Role)
		assert.Empty(t, s.Token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/auth/admin/login", "",
			`{"email":"admin@fitfeet.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongRole", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/auth/vendor/login", "",
			`{"email":"admin@fitfeet.com","password":"admin123"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/auth/root/login", "",
			`{"email":"a@b.c","password":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("UnknownField", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/auth/admin/login", "",
			`{"email":"admin@fitfeet.com","password":"admin123","remember":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SignUpPasswordMismatch", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/auth/customer/signup", "",
			`{"name":"A","email":"a@x.io","password":"one","confirm_password":"two"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation failed: passwords don't match", errorOf(t, rec))
	})

	t.Run("SignUpTwice", func(t *testing.T) {
		signUp(t, h, "dup@example.com")
		body := `{"name":"B","email":"dup@example.com","password":"x","confirm_password":"x"}`
		rec := do(t, h, http.MethodPost, "/v1/auth/customer/signup", "", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		token := login(t, h, "admin", "admin@fitfeet.com", "admin123")

		rec := do(t, h, http.MethodPost, "/v1/auth/logout", token, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/v1/auth/session", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NoToken", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/auth/session", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(t, h, http.MethodGet, "/v1/auth/session", "garbage", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSettingsRoutes(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/v1/settings", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FitFeet", decode[httphandler.Settings](t, rec).CompanyName)

	body := `{"company_name":"Local Market","phone":"1","email":"hi@lm.in",` +
		`"address":"Fort","hero_title":"Hi","hero_subtitle":"There"}`

	t.Run("RequiresAdmin", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/v1/settings", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		vendor := login(t, h, "vendor", "vendor@fitfeet.com", "vendor123")
		rec = do(t, h, http.MethodPut, "/v1/settings", vendor, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Save", func(t *testing.T) {
		admin := login(t, h, "admin", "admin@fitfeet.com", "admin123")

		rec := do(t, h, http.MethodPut, "/v1/settings", admin, body)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, h, http.MethodGet, "/v1/settings", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		s := decode[httphandler.Settings](t, rec)
		assert.Equal(t, "Local Market", s.CompanyName)
		assert.Equal(t, "There", s.HeroSubtitle)
	})

	t.Run("EmptyCompanyName", func(t *testing.T) {
		admin := login(t, h, "admin", "admin@fitfeet.com", "admin123")
		rec := do(t, h, http.MethodPut, "/v1/settings", admin, `{"company_name":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMiddleware(t *testing.T) {
	h := newHandler(t)

	t.Run("RejectsNonJSONBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/admin/login",
			strings.NewReader("email=admin"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("CatchAll", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/admin/dashboard", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
	})

	t.Run("OrdersRequireCustomer", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/v1/orders", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
