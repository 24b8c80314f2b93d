package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/normalize"
	"github.com/synergy-credit/scorenorm/internal/settings"
)

const maxBatchScores = 1000

// GET /api/normalize/convert?origin=IN&dest=US&score=680
func ConvertHandler(svc *calibration.Service, prefs settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("score")
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "score must be a number")
			return
		}
		c, err := svc.Convert(r.Context(), selectionFor(r, prefs), score)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /api/normalize/convert {"origin":"IN","dest":"US","scores":[500,680]}
func BatchConvertHandler(svc *calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Origin string    `json:"origin"`
			Dest   string    `json:"dest"`
			Scores []float64 `json:"scores"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if len(req.Scores) > maxBatchScores {
			writeError(w, http.StatusBadRequest, "too many scores")
			return
		}
		out, err := svc.ConvertMany(r.Context(), calibration.Selection{Origin: req.Origin, Dest: req.Dest}, req.Scores)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"conversions": out})
	}
}

type summaryResponse struct {
	normalize.Summary
	OriginCode string             `json:"originCode"`
	DestCode   string             `json:"destCode"`
	Source     calibration.Source `json:"source"`
	Curve      []normalize.Point  `json:"curve"`
}

// GET /api/normalize/summary?origin=IN&dest=US&step=50
func SummaryHandler(svc *calibration.Service, prefs settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Resolve(r.Context(), selectionFor(r, prefs))
		if err != nil {
			fail(w, r, err)
			return
		}
		step := parseIntDefault(r.URL.Query().Get("step"), 50)
		if step < 10 {
			step = 10
		}
		writeJSON(w, http.StatusOK, summaryResponse{
			Summary:    normalize.Summarize(res.Payload, res.Payload.LastUpdated),
			OriginCode: res.Selection.Origin,
			DestCode:   res.Selection.Dest,
			Source:     res.Source,
			Curve:      normalize.Curve(res.Payload.Set, step),
		})
	}
}
