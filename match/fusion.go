package match

import "github.com/poiesic/refind/core"

// Weights controls how per-modality similarities combine into a fused score.
// An absent modality contributes zero; weights are not renormalized, so a
// candidate missing a strong modality has to earn the threshold elsewhere.
type Weights struct {
	Face     float32
	Image    float32
	Text     float32
	Distance float32
}

// DefaultWeights returns the standard fusion weights.
func DefaultWeights() Weights {
	return Weights{
		Face:     0.5,
		Image:    0.3,
		Text:     0.1,
		Distance: 0.1,
	}
}

// Validate checks that all weights lie in [0, 1] and sum to at most 1.
func (w Weights) Validate() error {
	for _, v := range []float32{w.Face, w.Image, w.Text, w.Distance} {
		if v < 0 || v > 1 {
			return ErrInvalidWeights
		}
	}
	if w.Face+w.Image+w.Text+w.Distance > 1.000001 {
		return ErrInvalidWeights
	}
	return nil
}

// Fuse combines a candidate's per-modality scores into a single fused score,
// clamped to [0, 1].
func (w Weights) Fuse(c *core.MatchCandidate) float32 {
	fused := w.Face*c.FaceScore.Or(0) +
		w.Image*c.ImageScore.Or(0) +
		w.Text*c.TextScore.Or(0) +
		w.Distance*c.DistanceScore.Or(0)

	if fused < 0 {
		return 0
	}
	if fused > 1 {
		return 1
	}
	return fused
}

// Thresholds holds the minimum fused score a candidate must strictly exceed
// to become a match, per subject kind. People get a higher bar than items
// because face evidence is strong when present.
type Thresholds struct {
	Person float32
	Item   float32
}

// DefaultThresholds returns the standard match thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Person: 0.70,
		Item:   0.60,
	}
}

// Validate checks that both thresholds lie in [0, 1].
func (t Thresholds) Validate() error {
	if t.Person < 0 || t.Person > 1 || t.Item < 0 || t.Item > 1 {
		return ErrInvalidThreshold
	}
	return nil
}

// ForSubject returns the threshold that applies to a subject kind.
func (t Thresholds) ForSubject(subject core.SubjectKind) float32 {
	if subject == core.SubjectKindPerson {
		return t.Person
	}
	return t.Item
}
