package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/local-market/internal/core/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps err to a status code. Internal details are logged, not
// sent.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, domain.ErrProductNotFound.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrAccountExists):
		writeMessage(w, http.StatusConflict, domain.ErrAccountExists.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		writeMessage(w, http.StatusConflict, domain.ErrOutOfStock.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("request aborted", "err", err)
		writeMessage(w, http.StatusServiceUnavailable, "unavailable")
	default:
		log.Error("request failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage strips the op chain in front of the validation cause.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return domain.ErrValidation.Error()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "not found")
}
