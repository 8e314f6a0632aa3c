package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

// GET v1/products?category=&gender=&price_range=&rating=&sort_by= (200 OK, 400 Bad request)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/deals (200 OK)
// GET v1/shops?pin_code= (200 OK)
// GET v1/locations?q= (200 OK)

type CatalogHandler struct {
	browser port.ProductsBrowser
}

func RegisterCatalog(mux *http.ServeMux, browser port.ProductsBrowser) {
	h := CatalogHandler{browser}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/deals", h.GetDeals)
	mux.HandleFunc("GET /v1/shops", h.GetShops)
	mux.HandleFunc("GET /v1/locations", h.GetLocations)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	fs, err := filterFromQuery(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	listing, err := h.browser.Products(r.Context(), fs)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductList{
		Products:      toProducts(listing.Products),
		Count:         len(listing.Products),
		ActiveFilters: listing.ActiveFilters,
	})
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.browser.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h CatalogHandler) GetDeals(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetDeals"
	log := slog.With("op", op)

	deals, err := h.browser.Deals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(deals))
}

func (h CatalogHandler) GetShops(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetShops"
	log := slog.With("op", op)

	shops, err := h.browser.Shops(r.Context(), r.URL.Query().Get("pin_code"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toShops(shops))
}

func (h CatalogHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetLocations"
	log := slog.With("op", op)

	locs, err := h.browser.Locations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toLocations(locs))
}

func filterFromQuery(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	fs := domain.FilterState{
		Category:   q.Get("category"),
		Gender:     q.Get("gender"),
		PriceRange: q.Get("price_range"),
		Rating:     q.Get("rating"),
		SortBy:     domain.SortKey(q.Get("sort_by")),
	}

	switch fs.SortBy {
	case "", "all", domain.SortPopularity, domain.SortPriceLow,
		domain.SortPriceHigh, domain.SortRating, domain.SortNewest:
	default:
		return domain.FilterState{}, fmt.Errorf(
			"%w: unknown sort_by %q", domain.ErrValidation, fs.SortBy,
		)
	}
	return fs, nil
}
