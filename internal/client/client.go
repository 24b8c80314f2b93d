// Package client fetches normalization anchors from a running gateway.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/normalize"
)

const maxBody = 1 << 20

// DefaultSelection fills codes the caller left empty when the gateway
// cannot be asked for its own defaults.
var DefaultSelection = calibration.Selection{Origin: "IN", Dest: "US"}

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Now      func() time.Time
	Defaults calibration.Selection
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Now:      time.Now,
		Defaults: DefaultSelection,
	}
}

// Result is a payload ready for mapping. Fallback reports that the server
// could not be used and the sample curve was substituted; Err says why.
type Result struct {
	Selection calibration.Selection
	Payload   normalize.Payload
	Source    calibration.Source
	Fallback  bool
	Err       error
}

// FetchNormalization makes a single request for the pair's anchor set.
// Empty codes are left for the server to default.
func (c *Client) FetchNormalization(ctx context.Context, sel calibration.Selection) (normalize.Payload, error) {
	p, _, err := c.fetch(ctx, sel)
	return p, err
}

func (c *Client) fetch(ctx context.Context, sel calibration.Selection) (normalize.Payload, calibration.Source, error) {
	u, err := url.Parse(c.BaseURL + "/api/data/country-normalization")
	if err != nil {
		return normalize.Payload{}, "", err
	}
	q := u.Query()
	if sel.Origin != "" {
		q.Set("origin", sel.Origin)
	}
	if sel.Dest != "" {
		q.Set("dest", sel.Dest)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return normalize.Payload{}, "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return normalize.Payload{}, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return normalize.Payload{}, "", httpErr("fetch normalization", resp)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return normalize.Payload{}, "", err
	}
	p, err := normalize.Decode(raw)
	if err != nil {
		return normalize.Payload{}, "", err
	}
	var meta struct {
		Source calibration.Source `json:"source"`
	}
	_ = json.Unmarshal(raw, &meta)
	if meta.Source == "" {
		meta.Source = calibration.SourceStored
	}
	return p, meta.Source, nil
}

// Resolve never fails: on any fetch or decode error it returns the sample
// payload for the pair and sets Fallback.
func (c *Client) Resolve(ctx context.Context, sel calibration.Selection) Result {
	p, src, err := c.fetch(ctx, sel)
	if err == nil {
		if p.OriginCode != "" {
			sel.Origin = p.OriginCode
		}
		if p.DestCode != "" {
			sel.Dest = p.DestCode
		}
		return Result{Selection: sel, Payload: p, Source: src}
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	sel.Origin = normalize.NormalizeCode(sel.Origin)
	sel.Dest = normalize.NormalizeCode(sel.Dest)
	if sel.Origin == "" {
		sel.Origin = normalize.NormalizeCode(c.Defaults.Origin)
	}
	if sel.Dest == "" {
		sel.Dest = normalize.NormalizeCode(c.Defaults.Dest)
	}
	return Result{
		Selection: sel,
		Payload:   normalize.SamplePayload(sel.Origin, sel.Dest, now()),
		Source:    calibration.SourceSample,
		Fallback:  true,
		Err:       err,
	}
}

// Convert posts scores to the batch endpoint.
func (c *Client) Convert(ctx context.Context, sel calibration.Selection, scores []float64) ([]calibration.Conversion, error) {
	body, err := json.Marshal(map[string]any{"origin": sel.Origin, "dest": sel.Dest, "scores": scores})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/normalize/convert", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, httpErr("convert", resp)
	}
	var out struct {
		Conversions []calibration.Conversion `json:"conversions"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return nil, err
	}
	return out.Conversions, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
}

func httpErr(op string, resp *http.Response) error {
	return &StatusError{Op: op, Status: resp.StatusCode}
}
