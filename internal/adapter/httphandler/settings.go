package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

type SettingsHandler struct {
	settings port.SettingsManager
}

func RegisterSettings(
	mux *http.ServeMux, settings port.SettingsManager, sessions port.SessionManager,
) {
	h := SettingsHandler{settings}
	mux.HandleFunc("GET /v1/settings", h.GetSettings)

	adminOnly := RequireRole(sessions, domain.RoleAdmin)
	mux.Handle("PUT /v1/settings", adminOnly(http.HandlerFunc(h.PutSettings)))
}

func (h SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	const op = "SettingsHandler.GetSettings"
	log := slog.With("op", op)

	v, err := h.settings.Settings(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettings(v))
}

func (h SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	const op = "SettingsHandler.PutSettings"
	log := slog.With("op", op)

	var req Settings
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	v, err := h.settings.SaveSettings(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	if s, ok := SessionFrom(r.Context()); ok {
		log.Info("settings saved", "by", s.Email)
	}
	writeJSON(w, http.StatusOK, toSettings(v))
}
