package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorMessage writes the common error body.
func WriteErrorMessage(w http.ResponseWriter, r *http.Request, code int, message string) {
	WriteJSON(w, code, map[string]any{
		"message":    message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": RequestID(r.Context()),
	})
}

// WriteError maps domain errors to status codes. Anything unclassified is
// logged and reported as a 500 without details.
func WriteError(w http.ResponseWriter, r *http.Request, lg *logger.Logger, action string, err error) {
	code, msg := StatusFor(err)
	if code >= http.StatusInternalServerError {
		lg.WithRequestID(RequestID(r.Context())).Error(action, err, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	WriteErrorMessage(w, r, code, msg)
}

func StatusFor(err error) (int, string) {
	var (
		verr domain.ValidationError
		nf   domain.NotFoundError
		cf   domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &cf):
		return http.StatusConflict, cf.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
