package geo

import (
	"testing"

	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(52.52, 13.405, 52.52, 13.405))
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Berlin to Paris, roughly 878 km.
	d := HaversineKm(52.52, 13.405, 48.8566, 2.3522)
	assert.InDelta(t, 878, d, 5)
}

func TestHaversineKm_Symmetric(t *testing.T) {
	d1 := HaversineKm(52.52, 13.405, 48.8566, 2.3522)
	d2 := HaversineKm(48.8566, 2.3522, 52.52, 13.405)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestProximityScorer_SameLocation(t *testing.T) {
	s := NewProximityScorer()
	loc := core.Location{Latitude: 52.52, Longitude: 13.405}
	assert.Equal(t, float32(1.0), s.Score(loc, loc))
}

func TestProximityScorer_AtAndBeyondCutoff(t *testing.T) {
	s := NewProximityScorer()
	a := core.Location{Latitude: 0, Longitude: 0}

	// One degree of longitude at the equator is about 111 km, far past cutoff.
	far := core.Location{Latitude: 0, Longitude: 1}
	assert.Equal(t, float32(0), s.Score(a, far))
}

func TestProximityScorer_LinearDecay(t *testing.T) {
	s := NewProximityScorer()
	a := core.Location{Latitude: 0, Longitude: 0}

	// ~1.11 km and ~2.78 km north of a.
	near := core.Location{Latitude: 0.01, Longitude: 0}
	mid := core.Location{Latitude: 0.025, Longitude: 0}

	nearScore := s.Score(a, near)
	midScore := s.Score(a, mid)

	assert.Greater(t, nearScore, midScore)
	assert.Greater(t, midScore, float32(0))
	assert.InDelta(t, 1-Distance(a, near)/s.CutoffKm, float64(nearScore), 1e-6)
}

func TestProximityScorer_MonotonicNonIncreasing(t *testing.T) {
	s := NewProximityScorer()
	a := core.Location{Latitude: 0, Longitude: 0}

	prev := float32(1.0)
	for _, lat := range []float64{0.005, 0.01, 0.02, 0.03, 0.05, 0.1} {
		score := s.Score(a, core.Location{Latitude: lat, Longitude: 0})
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}
