package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	authmw "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/normalize"
	"github.com/synergy-credit/scorenorm/internal/settings"
)

type normalizationResponse struct {
	OriginCode  string             `json:"originCode"`
	DestCode    string             `json:"destCode"`
	Anchors     [][2]float64       `json:"anchors"`
	Method      string             `json:"method"`
	LastUpdated time.Time          `json:"lastUpdated"`
	Source      calibration.Source `json:"source"`
	Origin      normalize.Country  `json:"origin"`
	Dest        normalize.Country  `json:"dest"`
}

// GET /api/data/country-normalization?origin=IN&dest=US
func GetNormalizationHandler(svc *calibration.Service, prefs settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Resolve(r.Context(), selectionFor(r, prefs))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newNormalizationResponse(res))
	}
}

func newNormalizationResponse(res calibration.Resolved) normalizationResponse {
	p := res.Payload
	method := p.Method
	if method == "" {
		method = normalize.DefaultMethod
	}
	return normalizationResponse{
		OriginCode:  res.Selection.Origin,
		DestCode:    res.Selection.Dest,
		Anchors:     p.Set.Pairs(),
		Method:      method,
		LastUpdated: p.LastUpdated,
		Source:      res.Source,
		Origin:      country(res.Selection.Origin),
		Dest:        country(res.Selection.Dest),
	}
}

func country(code string) normalize.Country {
	return normalize.Country{Code: code, Name: normalize.CountryName(code), Flag: normalize.FlagEmoji(code)}
}

// selectionFor reads the pair from the query string. When neither code is
// given and the caller is signed in, their saved selection is used; the
// service fills whatever is still empty from its defaults.
func selectionFor(r *http.Request, prefs settings.Store) calibration.Selection {
	q := r.URL.Query()
	sel := calibration.Selection{
		Origin: strings.TrimSpace(q.Get("origin")),
		Dest:   strings.TrimSpace(q.Get("dest")),
	}
	if sel.Origin != "" || sel.Dest != "" || prefs == nil {
		return sel
	}
	return savedSelection(r.Context(), prefs)
}

func savedSelection(ctx context.Context, prefs settings.Store) calibration.Selection {
	sub := authmw.SubjectFromContext(ctx)
	if sub == "" {
		return calibration.Selection{}
	}
	s, err := prefs.Get(ctx, sub)
	if err != nil {
		return calibration.Selection{}
	}
	return s.Selection
}

// GET /api/countries
func ListCountriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, normalize.Countries())
	}
}
