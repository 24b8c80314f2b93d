package normalize

import "math"

// Map interpolates input over anchors, which must be sorted by origin.
// Input is clamped to [0, MaxScore]; NaN and infinities count as 0. Two
// anchors sharing an origin use a denominator of 1 instead of dividing by
// zero. When no segment covers input the result is MaxScore.
func Map(anchors []Anchor, input float64) int {
	x := ClampScore(input)
	for i := 1; i < len(anchors); i++ {
		prev, next := anchors[i-1], anchors[i]
		if x <= next.Origin {
			// multiply before dividing so identity segments stay exact
			span := math.Max(1, next.Origin-prev.Origin)
			return RoundHalfUp(prev.Mapped + (next.Mapped-prev.Mapped)*(x-prev.Origin)/span)
		}
	}
	return MaxScore
}

// ClampScore limits v to [0, MaxScore]; NaN and infinities become 0.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(MaxScore, v))
}

// RoundHalfUp rounds .5 toward +Inf, so -2.5 becomes -2.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
