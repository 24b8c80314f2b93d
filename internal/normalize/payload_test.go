package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		p, err := Decode([]byte(`[[670,700],[580,600]]`))
		require.NoError(t, err)
		assert.Equal(t, []Anchor{{0, 0}, {580, 600}, {670, 700}, {1000, 1000}}, p.Set.Anchors())
		assert.Equal(t, []Anchor{{670, 700}, {580, 600}}, p.Input)
		assert.ErrorIs(t, Validate(p.Input), ErrUnsorted)
		assert.Empty(t, p.Method)
	})

	t.Run("object with metadata", func(t *testing.T) {
		p, err := Decode([]byte(`{
			"originCode": "IN",
			"destCode": "US",
			"anchors": [[0,0],[580,600],[1000,1000]],
			"method": "Percentile",
			"lastUpdated": "2025-03-01T10:00:00Z"
		}`))
		require.NoError(t, err)
		assert.Equal(t, "IN", p.OriginCode)
		assert.Equal(t, "US", p.DestCode)
		assert.Equal(t, "Percentile", p.Method)
		assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), p.LastUpdated)
		assert.Equal(t, 3, p.Set.Len())
	})

	t.Run("wrapped under data", func(t *testing.T) {
		p, err := Decode([]byte(`{"data":{"anchors":[[500,550]]}}`))
		require.NoError(t, err)
		assert.Equal(t, 550, p.Set.Map(500))
	})

	t.Run("object anchors", func(t *testing.T) {
		p, err := Decode([]byte(`{"anchors":[{"origin":500,"mapped":550}]}`))
		require.NoError(t, err)
		assert.Equal(t, []Anchor{{0, 0}, {500, 550}, {1000, 1000}}, p.Set.Anchors())
	})

	t.Run("missing anchors is identity", func(t *testing.T) {
		p, err := Decode([]byte(`{"method":"none"}`))
		require.NoError(t, err)
		assert.Equal(t, IdentityAnchorSet().Anchors(), p.Set.Anchors())
	})
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":         `{`,
		"scalar":           `"anchors"`,
		"short pair":       `[[1]]`,
		"string value":     `[["a",2]]`,
		"anchors object":   `{"anchors":5}`,
		"bad timestamp":    `{"anchors":[],"lastUpdated":"yesterday"}`,
		"numeric method":   `{"method":3}`,
		"missing mapped":   `{"anchors":[{"origin":3}]}`,
		"unexpected entry": `[true]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestPayloadMarshalJSON(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	b, err := json.Marshal(SamplePayload("IN", "US", now))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"originCode":"IN",
		"destCode":"US",
		"anchors":[[0,0],[580,600],[670,700],[740,760],[800,820],[1000,1000]],
		"method":"Percentile-anchored piecewise mapping",
		"lastUpdated":"2025-01-02T03:04:05Z"
	}`, string(b))

	var back Payload
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 709, back.Set.Map(680))
}
