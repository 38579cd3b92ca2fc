// Package geo provides great-circle distance math and the proximity score
// used as the distance signal during match fusion.
package geo

import (
	"math"

	"github.com/poiesic/refind/core"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DefaultCutoffKm is the distance at and beyond which proximity contributes
// nothing to a match.
const DefaultCutoffKm = 5.0

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Distance returns the great-circle distance between two report locations in
// kilometers.
func Distance(a, b core.Location) float64 {
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// ProximityScorer converts a distance between two locations into a score in
// [0, 1] with linear decay: 1 at zero distance, 0 at CutoffKm and beyond.
type ProximityScorer struct {
	CutoffKm float64
}

// NewProximityScorer creates a scorer with the default cutoff.
func NewProximityScorer() *ProximityScorer {
	return &ProximityScorer{CutoffKm: DefaultCutoffKm}
}

// Score returns the proximity score for two locations.
func (s *ProximityScorer) Score(a, b core.Location) float32 {
	distance := Distance(a, b)
	if distance >= s.CutoffKm {
		return 0
	}
	return float32(1 - distance/s.CutoffKm)
}
