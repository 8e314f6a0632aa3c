package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/local-market/internal/core/port"
)

type WishlistHandler struct {
	wishlists port.WishlistKeeper
}

func RegisterWishlists(mux *http.ServeMux, wishlists port.WishlistKeeper) {
	h := WishlistHandler{wishlists}
	mux.HandleFunc("POST /v1/wishlists", h.PostWishlist)
	mux.HandleFunc("GET /v1/wishlists/{wishlistID}", h.GetWishlist)
	mux.HandleFunc("POST /v1/wishlists/{wishlistID}/items/{productID}", h.ToggleItem)
}

func (h WishlistHandler) PostWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.PostWishlist"
	log := slog.With("op", op)

	id, err := h.wishlists.NewWishlist(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	view, err := h.wishlists.Wishlist(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWishlist(view))
}

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.GetWishlist"
	log := slog.With("op", op)

	view, err := h.wishlists.Wishlist(r.Context(), r.PathValue("wishlistID"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlist(view))
}

// ToggleItem adds the product when absent and removes it otherwise.
func (h WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.ToggleItem"
	log := slog.With("op", op)

	view, added, err := h.wishlists.ToggleWishlist(
		r.Context(), r.PathValue("wishlistID"), r.PathValue("productID"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistToggle{toWishlist(view), added})
}
