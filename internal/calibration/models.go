package calibration

import (
	"time"

	"github.com/synergy-credit/scorenorm/internal/normalize"
)

// Selection names the origin -> destination pair a mapping runs for.
type Selection struct {
	Origin string `json:"origin"`
	Dest   string `json:"dest"`
}

func (s Selection) Key() string { return s.Origin + "-" + s.Dest }

type Source string

const (
	SourceStored Source = "stored"
	SourceSample Source = "sample"
)

// Record is a persisted anchor set for one country pair.
type Record struct {
	Origin    string             `json:"originCode"`
	Dest      string             `json:"destCode"`
	Anchors   []normalize.Anchor `json:"-"`
	Method    string             `json:"method,omitempty"`
	UpdatedAt time.Time          `json:"lastUpdated"`
	UpdatedBy string             `json:"updatedBy,omitempty"`
}

func (r Record) Selection() Selection { return Selection{Origin: r.Origin, Dest: r.Dest} }

func (r Record) Payload() normalize.Payload {
	return normalize.Payload{
		OriginCode:  r.Origin,
		DestCode:    r.Dest,
		Set:         normalize.NewAnchorSet(r.Anchors),
		Method:      r.Method,
		LastUpdated: r.UpdatedAt,
	}
}

// Resolved is the anchor set a mapping context runs with.
type Resolved struct {
	Selection Selection
	Payload   normalize.Payload
	Source    Source
}

type Conversion struct {
	Origin         string  `json:"origin"`
	Dest           string  `json:"dest"`
	Score          float64 `json:"score"`
	OriginBand     string  `json:"originBand"`
	Normalized     int     `json:"normalized"`
	NormalizedBand string  `json:"normalizedBand"`
	Source         Source  `json:"source"`
}
