package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

type OrdersHandler struct {
	orders port.OrdersReader
}

func RegisterOrders(
	mux *http.ServeMux, orders port.OrdersReader, sessions port.SessionManager,
) {
	h := OrdersHandler{orders}
	customerOnly := RequireRole(sessions, domain.RoleCustomer)
	mux.Handle("GET /v1/orders", customerOnly(http.HandlerFunc(h.GetOrders)))
}

// GetOrders lists the orders of the signed-in customer, oldest first.
func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"
	log := slog.With("op", op)

	session, ok := SessionFrom(r.Context())
	if !ok {
		panic(op + ": session is missing") // develop mistake
	}

	orders, err := h.orders.Orders(r.Context(), session.Email)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrders(orders))
}
