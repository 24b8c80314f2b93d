package http

import (
	"encoding/json"
	"errors"
	"net/http"

	authmw "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/settings"
)

// GET /api/me/settings. Users without saved settings get the service defaults.
func GetSettingsHandler(svc *calibration.Service, prefs settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		s, err := prefs.Get(r.Context(), sub)
		if errors.Is(err, settings.ErrNotFound) {
			writeJSON(w, http.StatusOK, settings.Settings{UserID: sub, Selection: svc.Defaults()})
			return
		}
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// PUT /api/me/settings {"origin":"IN","dest":"US"}
func PutSettingsHandler(svc *calibration.Service, prefs settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sel calibration.Selection
		if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		sel, err := svc.Complete(sel)
		if err != nil {
			fail(w, r, err)
			return
		}
		s, err := prefs.Put(r.Context(), authmw.SubjectFromContext(r.Context()), sel)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
