package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleSet() AnchorSet {
	return NewAnchorSet([]Anchor{
		{0, 0},
		{580, 600},
		{670, 700},
		{740, 760},
		{800, 820},
		{1000, 1000},
	})
}

func TestMapBoundaries(t *testing.T) {
	sets := map[string]AnchorSet{
		"identity": IdentityAnchorSet(),
		"sample":   sampleSet(),
		"interior": NewAnchorSet([]Anchor{{300, 350}, {700, 650}}),
	}
	for name, set := range sets {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0, set.Map(0))
			assert.Equal(t, MaxScore, set.Map(MaxScore))
		})
	}
}

func TestMapClampsInput(t *testing.T) {
	set := sampleSet()
	assert.Equal(t, set.Map(0), set.Map(-50))
	assert.Equal(t, set.Map(1000), set.Map(5000))
}

func TestMapNonFiniteInputCountsAsZero(t *testing.T) {
	set := NewAnchorSet([]Anchor{{0, 100}, {1000, 1000}})
	assert.Equal(t, 100, set.Map(math.NaN()))
	assert.Equal(t, 100, set.Map(math.Inf(1)))
	assert.Equal(t, 100, set.Map(math.Inf(-1)))
}

func TestMapIdentity(t *testing.T) {
	set := IdentityAnchorSet()
	for _, x := range []float64{0.4, 333.3, 999.49} {
		assert.Equal(t, int(math.Floor(x+0.5)), set.Map(x), "x=%v", x)
	}
	for i := 0; i <= 2*MaxScore; i++ {
		x := float64(i) / 2
		if !assert.Equal(t, int(math.Floor(x+0.5)), set.Map(x), "x=%v", x) {
			return
		}
	}
}

func TestMapSampleScenario(t *testing.T) {
	set := sampleSet()

	// 700 + (760-700) * (10/70) = 708.57
	assert.Equal(t, 709, set.Map(680))
	assert.Equal(t, 700, set.Map(670))
	assert.Equal(t, 517, set.Map(500))
	assert.Equal(t, 743, set.Map(720))
	assert.Equal(t, 910, set.Map(900))
}

func TestMapMonotonic(t *testing.T) {
	set := NewAnchorSet([]Anchor{{100, 50}, {450, 500}, {451, 520}, {900, 990}})
	prev := set.Map(0)
	for x := 1; x <= MaxScore; x++ {
		cur := set.Map(float64(x))
		if !assert.LessOrEqual(t, prev, cur, "x=%d", x) {
			return
		}
		prev = cur
	}
}

func TestMapIsRepeatable(t *testing.T) {
	set := sampleSet()
	first := set.Map(612.7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, set.Map(612.7))
	}
}

func TestMapDuplicateOriginUsesUnitDenominator(t *testing.T) {
	anchors := []Anchor{{0, 0}, {500, 400}, {500, 600}, {1000, 1000}}

	assert.Equal(t, 400, Map(anchors, 500))
	assert.Equal(t, 600, Map(anchors, 500.5))
	assert.NotPanics(t, func() { Map(anchors, 500) })
}

func TestMapTerminalFallback(t *testing.T) {
	assert.Equal(t, MaxScore, Map(nil, 5))
	assert.Equal(t, MaxScore, Map([]Anchor{{0, 0}}, 5))
	assert.Equal(t, MaxScore, Map([]Anchor{{0, 0}, {500, 500}}, 800))
}
