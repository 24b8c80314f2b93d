package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/normalize"
	"github.com/synergy-credit/scorenorm/internal/settings"
	"github.com/synergy-credit/scorenorm/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors to status codes; anything unknown is a 500 and
// gets logged with the request logger.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calibration.ErrInvalidSelection),
		errors.Is(err, normalize.ErrMalformedPayload),
		errors.Is(err, normalize.ErrOutOfRange),
		errors.Is(err, normalize.ErrUnsorted),
		errors.Is(err, normalize.ErrDuplicateOrigin),
		errors.Is(err, storage.ErrInvalidKey):
		status = http.StatusBadRequest
	case errors.Is(err, calibration.ErrNotFound), errors.Is(err, settings.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logging.LogError(logging.FromContext(r.Context()), "request failed", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
