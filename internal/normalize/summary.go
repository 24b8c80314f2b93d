package normalize

import (
	"math"
	"time"
)

var (
	shiftThresholds = []int{580, 670, 740, 800}
	exampleScores   = []int{500, 600, 680, 720, 800, 900}
)

type BandShift struct {
	Name   string `json:"name"`
	Min    int    `json:"min"`
	Mapped int    `json:"mapped"`
	Delta  int    `json:"delta"`
}

type Example struct {
	Origin         int    `json:"origin"`
	OriginBand     string `json:"originBand"`
	Normalized     int    `json:"normalized"`
	NormalizedBand string `json:"normalizedBand"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Summary holds the headline numbers shown next to a normalization curve.
type Summary struct {
	Method        string      `json:"method"`
	LastUpdated   time.Time   `json:"lastUpdated"`
	ShiftGood     int         `json:"shiftGood"`
	ShiftVeryGood int         `json:"shiftVeryGood"`
	AvgShift      int         `json:"avgShift"`
	Bands         []BandShift `json:"bands"`
	Examples      []Example   `json:"examples"`
}

func Summarize(p Payload, now time.Time) Summary {
	s := Summary{
		Method:      p.Method,
		LastUpdated: p.LastUpdated,
	}
	if s.Method == "" {
		s.Method = DefaultMethod
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = now
	}
	set := p.Set
	if set.Len() == 0 {
		set = IdentityAnchorSet()
	}

	s.ShiftGood = set.Map(670) - 670
	s.ShiftVeryGood = set.Map(740) - 740

	total := 0
	for _, t := range shiftThresholds {
		total += set.Map(float64(t)) - t
	}
	s.AvgShift = RoundHalfUp(float64(total) / float64(len(shiftThresholds)))

	s.Bands = make([]BandShift, 0, len(Bands))
	for _, b := range Bands {
		m := set.Map(float64(b.Min))
		s.Bands = append(s.Bands, BandShift{Name: b.Name, Min: b.Min, Mapped: m, Delta: m - b.Min})
	}

	s.Examples = make([]Example, 0, len(exampleScores))
	for _, x := range exampleScores {
		y := set.Map(float64(x))
		s.Examples = append(s.Examples, Example{
			Origin:         x,
			OriginBand:     BandName(x),
			Normalized:     y,
			NormalizedBand: BandName(y),
		})
	}
	return s
}

// Curve samples the mapping every step points, always including both ends.
func Curve(set AnchorSet, step int) []Point {
	if step <= 0 {
		step = 50
	}
	n := int(math.Ceil(float64(MaxScore)/float64(step))) + 1
	out := make([]Point, 0, n)
	for x := 0; x < MaxScore; x += step {
		out = append(out, Point{X: x, Y: set.Map(float64(x))})
	}
	return append(out, Point{X: MaxScore, Y: set.Map(MaxScore)})
}
