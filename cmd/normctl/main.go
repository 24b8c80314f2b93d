// Command normctl converts a credit score between two countries using the
// anchors published by a gateway, or the built-in sample curve when the
// gateway cannot be reached.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/client"
	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/normalize"
)

const defaultBaseURL = "http://localhost:8080"

type output struct {
	Origin     string                  `json:"origin"`
	Dest       string                  `json:"dest"`
	Fallback   bool                    `json:"fallback"`
	Conversion *calibration.Conversion `json:"conversion,omitempty"`
	Summary    *normalize.Summary      `json:"summary,omitempty"`
	Curve      []normalize.Point       `json:"curve,omitempty"`
}

func main() {
	baseURL := flag.String("api", defaultBaseURL, "gateway base URL")
	origin := flag.String("origin", "", "origin country code (gateway default when empty)")
	dest := flag.String("dest", "", "destination country code (gateway default when empty)")
	score := flag.Float64("score", -1, "score to convert; negative skips conversion")
	table := flag.Bool("table", false, "print band shifts, KPIs and the curve")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, slog.LevelWarn)
	if *score < 0 && !*table {
		fmt.Fprintln(os.Stderr, "usage: normctl [-api URL] [-origin XX] [-dest YY] -score N | -table")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res := client.New(*baseURL).Resolve(ctx, calibration.Selection{Origin: *origin, Dest: *dest})
	if res.Fallback {
		logging.LogError(logger, "gateway unavailable, using sample anchors", res.Err,
			slog.String("api", *baseURL))
	}

	out := output{Origin: res.Selection.Origin, Dest: res.Selection.Dest, Fallback: res.Fallback}
	resolved := calibration.Resolved{Selection: res.Selection, Payload: res.Payload, Source: res.Source}
	if *score >= 0 {
		c := resolved.Convert(*score)
		out.Conversion = &c
	}
	if *table {
		s := normalize.Summarize(res.Payload, res.Payload.LastUpdated)
		out.Summary = &s
		out.Curve = normalize.Curve(res.Payload.Set, 50)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logging.LogError(logger, "write output", err)
		os.Exit(1)
	}
}
