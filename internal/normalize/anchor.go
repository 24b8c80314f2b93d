package normalize

import (
	"errors"
	"fmt"
	"sort"
)

// MaxScore is the upper bound of both the origin and the mapped domain.
const MaxScore = 1000

// Anchor fixes one known origin -> mapped correspondence.
type Anchor struct {
	Origin float64
	Mapped float64
}

var (
	ErrOutOfRange      = errors.New("anchor value out of range")
	ErrUnsorted        = errors.New("anchors not sorted by origin")
	ErrDuplicateOrigin = errors.New("duplicate anchor origin")
)

// AnchorSet is a sorted, boundary-augmented anchor list. The zero value is
// not augmented; build sets with NewAnchorSet.
type AnchorSet struct {
	anchors []Anchor
}

// NewAnchorSet sorts a copy of anchors and makes sure both ends of the
// domain are covered.
func NewAnchorSet(anchors []Anchor) AnchorSet {
	a := make([]Anchor, 0, len(anchors)+2)
	a = append(a, anchors...)
	sort.SliceStable(a, func(i, j int) bool { return a[i].Origin < a[j].Origin })

	if len(a) == 0 || a[0].Origin > 0 {
		a = append([]Anchor{{0, 0}}, a...)
	}
	if a[len(a)-1].Origin < MaxScore {
		a = append(a, Anchor{MaxScore, MaxScore})
	}
	return AnchorSet{anchors: a}
}

// IdentityAnchorSet maps every score to itself.
func IdentityAnchorSet() AnchorSet { return NewAnchorSet(nil) }

// Anchors returns a copy of the augmented list.
func (s AnchorSet) Anchors() []Anchor {
	out := make([]Anchor, len(s.anchors))
	copy(out, s.anchors)
	return out
}

func (s AnchorSet) Len() int { return len(s.anchors) }

// Map converts input using this set.
func (s AnchorSet) Map(input float64) int { return Map(s.anchors, input) }

// Pairs renders the set in its wire form.
func (s AnchorSet) Pairs() [][2]float64 {
	out := make([][2]float64, len(s.anchors))
	for i, a := range s.anchors {
		out[i] = [2]float64{a.Origin, a.Mapped}
	}
	return out
}

// Validate is the strict check applied before anchors are persisted. Map
// itself tolerates every condition reported here.
func Validate(anchors []Anchor) error {
	for i, a := range anchors {
		if a.Origin < 0 || a.Origin > MaxScore || a.Mapped < 0 || a.Mapped > MaxScore {
			return fmt.Errorf("%w: anchor %d (%g, %g)", ErrOutOfRange, i, a.Origin, a.Mapped)
		}
		if i == 0 {
			continue
		}
		prev := anchors[i-1]
		switch {
		case a.Origin < prev.Origin:
			return fmt.Errorf("%w: anchor %d origin %g after %g", ErrUnsorted, i, a.Origin, prev.Origin)
		case a.Origin == prev.Origin:
			return fmt.Errorf("%w: %g", ErrDuplicateOrigin, a.Origin)
		}
	}
	return nil
}
