package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

// POST v1/carts (201 Created)
// GET v1/carts/{cartID} (200 OK, 404 Not found)
// POST v1/carts/{cartID}/items/{productID} (200 OK, 404 Not found, 409 Conflict)
// DELETE v1/carts/{cartID}/items/{productID}?all=true (200 OK)
// POST v1/carts/{cartID}/checkout Headers Authorization Bearer (200 OK, 401 Unauthorized)

type CartHandler struct {
	carts port.CartKeeper
}

func RegisterCarts(
	mux *http.ServeMux, carts port.CartKeeper, sessions port.SessionManager,
) {
	h := CartHandler{carts}
	mux.HandleFunc("POST /v1/carts", h.PostCart)
	mux.HandleFunc("GET /v1/carts/{cartID}", h.GetCart)
	mux.HandleFunc("POST /v1/carts/{cartID}/items/{productID}", h.PostItem)
	mux.HandleFunc("DELETE /v1/carts/{cartID}/items/{productID}", h.DeleteItem)

	customerOnly := RequireRole(sessions, domain.RoleCustomer)
	mux.Handle(
		"POST /v1/carts/{cartID}/checkout",
		customerOnly(http.HandlerFunc(h.Checkout)),
	)
}

func (h CartHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCart"
	log := slog.With("op", op)

	id, err := h.carts.NewCart(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	view, err := h.carts.Cart(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCart(view))
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	view, err := h.carts.Cart(r.Context(), r.PathValue("cartID"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(view))
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	view, err := h.carts.AddToCart(
		r.Context(), r.PathValue("cartID"), r.PathValue("productID"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(view))
}

// DeleteItem decrements the line by one, or drops it with all=true.
func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	all := false
	if v := r.URL.Query().Get("all"); v != "" {
		var err error
		all, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, log, fmt.Errorf("%w: all must be a boolean", domain.ErrValidation))
			return
		}
	}

	remove := h.carts.DecrementCartItem
	if all {
		remove = h.carts.RemoveFromCart
	}

	view, err := remove(r.Context(), r.PathValue("cartID"), r.PathValue("productID"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(view))
}

func (h CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Checkout"
	log := slog.With("op", op)

	session, ok := SessionFrom(r.Context())
	if !ok {
		panic(op + ": session is missing") // develop mistake
	}

	order, err := h.carts.Checkout(r.Context(), r.PathValue("cartID"), session.Email)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrder(order))
}
