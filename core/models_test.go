package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("lost-1")
	b := IDFromContent("lost-1")
	c := IDFromContent("lost-2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPairFingerprint_OrientationMatters(t *testing.T) {
	ab := PairFingerprint("lost-1", "found-1")
	ba := PairFingerprint("found-1", "lost-1")
	assert.NotEqual(t, ab, ba)

	// Concatenation must not be ambiguous.
	assert.NotEqual(t, PairFingerprint("a", "bc"), PairFingerprint("ab", "c"))
}

func TestReportKind_Opposite(t *testing.T) {
	assert.Equal(t, ReportKindFound, ReportKindLost.Opposite())
	assert.Equal(t, ReportKindLost, ReportKindFound.Opposite())
}

func TestEmbeddingSet_IsEmpty(t *testing.T) {
	set := &EmbeddingSet{ReportId: "rep-1"}
	assert.True(t, set.IsEmpty())

	set.TextVector = []float32{0.1}
	assert.False(t, set.IsEmpty())

	set = &EmbeddingSet{ReportId: "rep-1", FaceVectors: [][]float32{{0.1}}}
	assert.False(t, set.IsEmpty())
}

func TestScore_Or(t *testing.T) {
	assert.Equal(t, float32(0.5), ValidScore(0.5).Or(0))
	assert.Equal(t, float32(0), Score{}.Or(0))
	assert.Equal(t, float32(-1), Score{}.Or(-1))

	// A valid zero is not the same as absent.
	assert.Equal(t, float32(0), ValidScore(0).Or(-1))
}

func TestScore_Max(t *testing.T) {
	high := ValidScore(0.9)
	low := ValidScore(0.3)
	absent := Score{}

	assert.Equal(t, high, low.Max(high))
	assert.Equal(t, high, high.Max(low))
	assert.Equal(t, high, absent.Max(high))
	assert.Equal(t, high, high.Max(absent))
	assert.False(t, absent.Max(absent).Valid)
}

func TestMatchRecord_Fingerprint(t *testing.T) {
	record := &MatchRecord{LostReportId: "lost-1", FoundReportId: "found-1"}
	assert.Equal(t, PairFingerprint("lost-1", "found-1"), record.Fingerprint())
}
