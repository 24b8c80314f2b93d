package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DefaultMethod = "Percentile-anchored piecewise mapping"

var ErrMalformedPayload = errors.New("malformed anchor payload")

// Payload is a decoded normalization document: an anchor set plus the
// metadata the backend publishes with it.
type Payload struct {
	OriginCode  string
	DestCode    string
	Set         AnchorSet
	Method      string
	LastUpdated time.Time

	// Input holds the anchors as the document listed them, before sorting
	// and augmentation. Nil for payloads not produced by Decode.
	Input []Anchor
}

type wirePayload struct {
	OriginCode  string       `json:"originCode,omitempty"`
	DestCode    string       `json:"destCode,omitempty"`
	Anchors     [][2]float64 `json:"anchors"`
	Method      string       `json:"method,omitempty"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	w := wirePayload{
		OriginCode: p.OriginCode,
		DestCode:   p.DestCode,
		Anchors:    p.Set.Pairs(),
		Method:     p.Method,
	}
	if !p.LastUpdated.IsZero() {
		w.LastUpdated = p.LastUpdated.UTC().Format(time.RFC3339)
	}
	return json.Marshal(w)
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	d, err := Decode(b)
	if err != nil {
		return err
	}
	*p = d
	return nil
}

// Decode parses an untyped normalization document. It accepts a bare
// [[origin, mapped], ...] array, an object carrying an "anchors" key, or
// that object wrapped under "data". Anchor elements may be pairs or
// {"origin", "mapped"} objects. A missing anchors key decodes to the
// identity set.
func Decode(raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return decodeValue(v)
}

func decodeValue(v any) (Payload, error) {
	switch t := v.(type) {
	case []any:
		anchors, err := decodeAnchors(t)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Set: NewAnchorSet(anchors), Input: anchors}, nil
	case map[string]any:
		if inner, ok := t["data"]; ok && t["anchors"] == nil {
			return decodeValue(inner)
		}
		return decodeObject(t)
	default:
		return Payload{}, fmt.Errorf("%w: unexpected top-level %T", ErrMalformedPayload, v)
	}
}

func decodeObject(m map[string]any) (Payload, error) {
	var p Payload
	var err error
	if p.OriginCode, err = optString(m, "originCode"); err != nil {
		return Payload{}, err
	}
	if p.DestCode, err = optString(m, "destCode"); err != nil {
		return Payload{}, err
	}
	if p.Method, err = optString(m, "method"); err != nil {
		return Payload{}, err
	}
	lu, err := optString(m, "lastUpdated")
	if err != nil {
		return Payload{}, err
	}
	if lu != "" {
		ts, err := time.Parse(time.RFC3339, lu)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: lastUpdated: %v", ErrMalformedPayload, err)
		}
		p.LastUpdated = ts
	}

	var anchors []Anchor
	switch a := m["anchors"].(type) {
	case nil:
	case []any:
		if anchors, err = decodeAnchors(a); err != nil {
			return Payload{}, err
		}
	default:
		return Payload{}, fmt.Errorf("%w: anchors must be an array, got %T", ErrMalformedPayload, a)
	}
	p.Set = NewAnchorSet(anchors)
	p.Input = anchors
	return p, nil
}

func decodeAnchors(items []any) ([]Anchor, error) {
	out := make([]Anchor, 0, len(items))
	for i, it := range items {
		var a Anchor
		var err error
		switch e := it.(type) {
		case []any:
			if len(e) != 2 {
				return nil, fmt.Errorf("%w: anchor %d has %d values", ErrMalformedPayload, i, len(e))
			}
			if a.Origin, err = number(e[0]); err == nil {
				a.Mapped, err = number(e[1])
			}
		case map[string]any:
			if a.Origin, err = number(e["origin"]); err == nil {
				a.Mapped, err = number(e["mapped"])
			}
		default:
			err = fmt.Errorf("unexpected %T", it)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: anchor %d: %v", ErrMalformedPayload, i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func number(v any) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("not a number: %v", v)
	}
	return n.Float64()
}

func optString(m map[string]any, key string) (string, error) {
	switch v := m[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformedPayload, key)
	}
}

// SamplePayload is the built-in curve served when no calibrated anchors
// exist for a pair.
func SamplePayload(origin, dest string, now time.Time) Payload {
	return Payload{
		OriginCode: origin,
		DestCode:   dest,
		Set: NewAnchorSet([]Anchor{
			{0, 0},
			{580, 600},
			{670, 700},
			{740, 760},
			{800, 820},
			{1000, 1000},
		}),
		Method:      DefaultMethod,
		LastUpdated: now,
	}
}
