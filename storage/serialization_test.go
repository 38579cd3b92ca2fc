package storage

import (
	"testing"
	"time"

	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundtrip(t *testing.T) {
	report := &core.Report{
		Id:          "rep-1",
		Kind:        core.ReportKindFound,
		Subject:     core.SubjectKindPerson,
		Description: "blue backpack left on a bench",
		Language:    "en",
		Location: core.Location{
			Latitude:  52.52,
			Longitude: 13.405,
			Label:     "Tiergarten",
		},
		PhotoRefs: []string{"photos/1.jpg", "photos/2.jpg"},
		Status:    core.ReportStatusOpen,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := UnmarshalReport(MarshalReport(report))
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestEmbeddingSetRoundtrip(t *testing.T) {
	set := &core.EmbeddingSet{
		ReportId:    "rep-1",
		FaceVectors: [][]float32{{0.1, -0.2, 0.3}, {0.4, 0.5, -0.6}},
		ImageVector: []float32{1.5, -2.5},
		TextVector:  nil,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := UnmarshalEmbeddingSet(MarshalEmbeddingSet(set))
	require.NoError(t, err)
	assert.Equal(t, set.ReportId, got.ReportId)
	assert.Equal(t, set.FaceVectors, got.FaceVectors)
	assert.Equal(t, set.ImageVector, got.ImageVector)
	assert.Empty(t, got.TextVector)
	assert.Equal(t, set.CreatedAt, got.CreatedAt)
}

func TestMatchRecordRoundtrip(t *testing.T) {
	record := &core.MatchRecord{
		Id:            "m-1",
		LostReportId:  "lost-1",
		FoundReportId: "found-1",
		FaceScore:     core.ValidScore(0.92),
		ImageScore:    core.Score{},
		TextScore:     core.ValidScore(0),
		DistanceScore: core.ValidScore(0.71),
		FusedScore:    0.74,
		Status:        core.MatchStatusPending,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := UnmarshalMatchRecord(MarshalMatchRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Absent and valid-zero scores survive the roundtrip distinctly.
	assert.False(t, got.ImageScore.Valid)
	assert.True(t, got.TextScore.Valid)
}

func TestIDRoundtrip(t *testing.T) {
	id := core.PairFingerprint("lost-1", "found-1")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUnmarshalReport_CorruptData(t *testing.T) {
	_, err := UnmarshalReport([]byte{})
	assert.Error(t, err)
}
