package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

// POST v1/auth/{role}/login JSON {"email", "password"} (200 OK, 401 Unauthorized)
// POST v1/auth/customer/signup JSON (201 Created, 400 Bad request, 409 Conflict)
// POST v1/auth/logout Headers Authorization Bearer (204 No content)
// GET v1/auth/session Headers Authorization Bearer (200 OK, 401 Unauthorized)

type AuthHandler struct {
	sessions port.SessionManager
}

func RegisterAuth(mux *http.ServeMux, sessions port.SessionManager) {
	h := AuthHandler{sessions}
	mux.HandleFunc("POST /v1/auth/{role}/login", h.Login)
	mux.HandleFunc("POST /v1/auth/customer/signup", h.SignUp)
	mux.HandleFunc("POST /v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /v1/auth/session", h.Session)
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Login"
	log := slog.With("op", op)

	role := domain.Role(r.PathValue("role"))
	if !role.Valid() {
		notFound(w, r)
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	session, err := h.sessions.Login(r.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSession(session))
}

func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignUp"
	log := slog.With("op", op)

	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	session, err := h.sessions.SignUp(r.Context(), domain.SignUp(req))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSession(session))
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Logout"
	log := slog.With("op", op)

	token, ok := bearerToken(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	if err := h.sessions.Logout(r.Context(), token); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Session"
	log := slog.With("op", op)

	token, ok := bearerToken(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	session, err := h.sessions.Session(r.Context(), token)
	if err != nil {
		writeError(w, log, err)
		return
	}
	session.Token = ""
	writeJSON(w, http.StatusOK, toSession(session))
}
