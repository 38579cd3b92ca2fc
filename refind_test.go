package refind

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/refind/ai/mock"
	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EndToEnd(t *testing.T) {
	engine, err := NewEngine("", WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer engine.Close()

	matcher, err := engine.NewMatcher()
	require.NoError(t, err)
	defer matcher.Release()

	events, unsubscribe := engine.Hub().Subscribe()
	defer unsubscribe()

	ctx := context.Background()
	photo := [][]byte{[]byte("park-photo")}

	lost := &core.Report{
		Id:          "lost-1",
		Kind:        core.ReportKindLost,
		Subject:     core.SubjectKindPerson,
		Description: "girl in a yellow raincoat",
		Language:    "en",
		Location:    core.Location{Latitude: 48.137, Longitude: 11.575},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, engine.ReportRepository().AddReports(ctx, lost))

	records, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)
	assert.Empty(t, records)

	found := &core.Report{
		Id:          "found-1",
		Kind:        core.ReportKindFound,
		Subject:     core.SubjectKindPerson,
		Description: "girl in a yellow raincoat",
		Language:    "en",
		Location:    core.Location{Latitude: 48.14, Longitude: 11.58},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, engine.ReportRepository().AddReports(ctx, found))

	records, err = matcher.Run(ctx, found, photo)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "lost-1", record.LostReportId)
	assert.Equal(t, "found-1", record.FoundReportId)
	assert.Greater(t, record.FusedScore, float32(0.70))

	// The hub announced the fresh match.
	select {
	case event := <-events:
		assert.Equal(t, record.Id, event.MatchId)
		assert.Equal(t, "lost-1", event.LostReportId)
		assert.Equal(t, "found-1", event.FoundReportId)
	case <-time.After(time.Second):
		t.Fatal("expected a match event")
	}

	// Review workflow: confirm the match.
	require.NoError(t, engine.MatchRepository().UpdateMatchStatus(ctx, record.Id, core.MatchStatusConfirmedReunited))
	got, err := engine.MatchRepository().GetMatch(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatusConfirmedReunited, got.Status)
}

func TestEngine_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	engine, err := NewEngine(dir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	matcher, err := engine.NewMatcher()
	require.NoError(t, err)

	report := &core.Report{
		Id:          "lost-1",
		Kind:        core.ReportKindLost,
		Subject:     core.SubjectKindItem,
		Description: "black umbrella with wooden handle",
		Language:    "en",
		Location:    core.Location{Latitude: 48.137, Longitude: 11.575},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, engine.ReportRepository().AddReports(ctx, report))
	_, err = matcher.Run(ctx, report, [][]byte{[]byte("umbrella-photo")})
	require.NoError(t, err)

	matcher.Release()
	require.NoError(t, engine.Close())

	engine, err = NewEngine(dir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer engine.Close()

	got, err := engine.ReportRepository().GetReport(ctx, "lost-1")
	require.NoError(t, err)
	assert.Equal(t, report.Description, got.Description)

	set, err := engine.EmbeddingRepository().GetEmbeddingSet(ctx, "lost-1")
	require.NoError(t, err)
	assert.NotEmpty(t, set.ImageVector)
	assert.NotEmpty(t, set.TextVector)

	assert.Equal(t, 1, engine.IndexStore().Len(core.ModalityImage))
	assert.Equal(t, 1, engine.IndexStore().Len(core.ModalityText))
}
