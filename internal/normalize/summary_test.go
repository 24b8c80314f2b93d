package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeSample(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := Summarize(SamplePayload("IN", "US", now), now)

	assert.Equal(t, DefaultMethod, s.Method)
	assert.Equal(t, now, s.LastUpdated)
	assert.Equal(t, 30, s.ShiftGood)
	assert.Equal(t, 20, s.ShiftVeryGood)
	// shifts 20, 30, 20, 20 average to 22.5
	assert.Equal(t, 23, s.AvgShift)

	assert.Equal(t, []BandShift{
		{Name: "Poor", Min: 0, Mapped: 0, Delta: 0},
		{Name: "Fair", Min: 580, Mapped: 600, Delta: 20},
		{Name: "Good", Min: 670, Mapped: 700, Delta: 30},
		{Name: "Very Good", Min: 740, Mapped: 760, Delta: 20},
		{Name: "Excellent", Min: 800, Mapped: 820, Delta: 20},
	}, s.Bands)

	assert.Equal(t, []Example{
		{Origin: 500, OriginBand: "Poor", Normalized: 517, NormalizedBand: "Poor"},
		{Origin: 600, OriginBand: "Fair", Normalized: 622, NormalizedBand: "Fair"},
		{Origin: 680, OriginBand: "Good", Normalized: 709, NormalizedBand: "Good"},
		{Origin: 720, OriginBand: "Good", Normalized: 743, NormalizedBand: "Very Good"},
		{Origin: 800, OriginBand: "Excellent", Normalized: 820, NormalizedBand: "Excellent"},
		{Origin: 900, OriginBand: "Excellent", Normalized: 910, NormalizedBand: "Excellent"},
	}, s.Examples)
}

func TestSummarizeDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := Summarize(Payload{}, now)

	assert.Equal(t, DefaultMethod, s.Method)
	assert.Equal(t, now, s.LastUpdated)
	assert.Zero(t, s.ShiftGood)
	assert.Zero(t, s.AvgShift)
}

func TestBandName(t *testing.T) {
	assert.Equal(t, "Poor", BandName(-10))
	assert.Equal(t, "Poor", BandName(579))
	assert.Equal(t, "Fair", BandName(580))
	assert.Equal(t, "Good", BandName(739))
	assert.Equal(t, "Very Good", BandName(740))
	assert.Equal(t, "Excellent", BandName(1000))
}

func TestCurve(t *testing.T) {
	pts := Curve(IdentityAnchorSet(), 300)
	assert.Equal(t, []Point{{0, 0}, {300, 300}, {600, 600}, {900, 900}, {1000, 1000}}, pts)

	assert.Len(t, Curve(sampleSet(), 0), 21)
}

func TestCountries(t *testing.T) {
	assert.Equal(t, "🇮🇳", FlagEmoji("in"))
	assert.Equal(t, "🧭", FlagEmoji("USA"))
	assert.Equal(t, "🧭", FlagEmoji(""))
	assert.Equal(t, "🧭", FlagEmoji("1A"))
	assert.Equal(t, "United States", CountryName(" us "))
	assert.Equal(t, "XX", CountryName("xx"))
	assert.True(t, KnownCountry("gb"))

	list := Countries()
	assert.Len(t, list, 10)
	assert.Equal(t, "AE", list[0].Code)
}
