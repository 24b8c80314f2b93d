package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/settings"
)

const (
	wsWriteWait = 5 * time.Second
	wsIdle      = 2 * time.Minute
)

// NewUpgrader accepts browser origins from the CORS allow-list; requests
// without an Origin header (non-browser clients) are always accepted.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || allowed["*"] || allowed[o]
		},
	}
}

// GET /ws/convert?origin=IN&dest=US
//
// Live converter for slider-style clients: each message carrying a score
// ({"score": 680} or a bare number) is answered with one conversion. The
// anchor set is resolved once when the socket opens.
func LiveConvertHandler(svc *calibration.Service, prefs settings.Store, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Resolve(r.Context(), selectionFor(r, prefs))
		if err != nil {
			fail(w, r, err)
			return
		}
		logger := logging.FromContext(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return // Upgrade already replied
		}
		defer conn.Close()
		conn.SetReadLimit(512)

		logger.Info("ws_convert_open", slog.String("pair", res.Selection.Key()), slog.String("source", string(res.Source)))
		for {
			_ = conn.SetReadDeadline(time.Now().Add(wsIdle))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var reply any
			if score, ok := parseScoreMessage(msg); ok {
				reply = res.Convert(score)
			} else {
				reply = map[string]string{"error": "expected {\"score\": number}"}
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(reply); err != nil {
				break
			}
		}
		logger.Info("ws_convert_closed", slog.String("pair", res.Selection.Key()))
	}
}

func parseScoreMessage(msg []byte) (float64, bool) {
	var body struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal(msg, &body); err == nil && body.Score != nil {
		return *body.Score, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(msg)), 64)
	return v, err == nil
}
