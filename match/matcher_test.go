package match

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/refind/ai/mock"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
	badgerstore "github.com/poiesic/refind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, provider *mock.MockProvider, opts ...Option) (*Matcher, *badgerstore.MemoryStores) {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	matcher, err := NewMatcher(stores.Reports, stores.Embeddings, stores.Indexes, stores.Matches, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(matcher.Release)

	return matcher, stores
}

func personReport(id string, kind core.ReportKind, lat float64) *core.Report {
	return &core.Report{
		Id:          id,
		Kind:        kind,
		Subject:     core.SubjectKindPerson,
		Description: "elderly man, grey coat, walks with a cane",
		Language:    "en",
		Location:    core.Location{Latitude: lat, Longitude: 0},
		CreatedAt:   time.Now().UTC(),
	}
}

func itemReport(id string, kind core.ReportKind) *core.Report {
	return &core.Report{
		Id:        id,
		Kind:      kind,
		Subject:   core.SubjectKindItem,
		Location:  core.Location{Latitude: 0, Longitude: 0},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMatcher_PersonMatchAcrossModalities(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	// The default mocks are content-deterministic: the same photo bytes and
	// the same description embed to the same vectors, so the two reports
	// score ~1.0 on every modality.
	photo := [][]byte{[]byte("station-photo")}

	lost := personReport("lost-1", core.ReportKindLost, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, lost))
	records, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Found report filed ~1.4 km away.
	found := personReport("found-1", core.ReportKindFound, 0.0126)
	require.NoError(t, stores.Reports.AddReports(ctx, found))
	records, err = matcher.Run(ctx, found, photo)
	require.NoError(t, err)

	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, "lost-1", record.LostReportId)
	assert.Equal(t, "found-1", record.FoundReportId)
	assert.Equal(t, core.MatchStatusPending, record.Status)
	assert.Greater(t, record.FusedScore, float32(0.70))
	assert.True(t, record.FaceScore.Valid)
	assert.True(t, record.ImageScore.Valid)
	assert.True(t, record.TextScore.Valid)
	assert.True(t, record.DistanceScore.Valid)
	assert.InDelta(t, 0.72, record.DistanceScore.Value, 0.01)

	// The record is retrievable by pair.
	got, err := stores.Matches.GetMatchByPair(ctx, "lost-1", "found-1")
	require.NoError(t, err)
	assert.Equal(t, record.Id, got.Id)
}

func TestMatcher_ItemBelowThresholdNoMatch(t *testing.T) {
	provider := mock.NewMockProvider()
	// Pin image vectors so the two photos score exactly 0.5 against each other.
	vectors := map[string][]float32{
		"photo-a": {1, 0},
		"photo-b": {0.5, 0.8660254},
	}
	provider.GetMockImageEmbedder().EmbedImageFunc = func(ctx context.Context, photo []byte) ([]float32, error) {
		return vectors[string(photo)], nil
	}

	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	lost := itemReport("lost-1", core.ReportKindLost)
	require.NoError(t, stores.Reports.AddReports(ctx, lost))
	_, err := matcher.Run(ctx, lost, [][]byte{[]byte("photo-a")})
	require.NoError(t, err)

	// Same location, so distance scores 1.0. Image 0.5 and no text still
	// leaves the fused score at 0.25, under the 0.60 item threshold.
	found := itemReport("found-1", core.ReportKindFound)
	require.NoError(t, stores.Reports.AddReports(ctx, found))
	records, err := matcher.Run(ctx, found, [][]byte{[]byte("photo-b")})
	require.NoError(t, err)
	assert.Empty(t, records)

	all, err := stores.Matches.ListMatches(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMatcher_EmptyReportNoCandidatesNoError(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	report := itemReport("lost-1", core.ReportKindLost)
	require.NoError(t, stores.Reports.AddReports(ctx, report))

	records, err := matcher.Run(ctx, report, nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The empty embedding set is still persisted as an audit trail.
	set, err := stores.Embeddings.GetEmbeddingSet(ctx, "lost-1")
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestMatcher_NoSelfMatch(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	report := personReport("lost-1", core.ReportKindLost, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, report))

	// The report's own vectors are indexed before the search runs, so its
	// best neighbor is itself. It must never match itself.
	records, err := matcher.Run(ctx, report, [][]byte{[]byte("photo")})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMatcher_SameKindNeverMatches(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	photo := [][]byte{[]byte("photo")}
	first := personReport("lost-1", core.ReportKindLost, 0)
	second := personReport("lost-2", core.ReportKindLost, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, first, second))

	_, err := matcher.Run(ctx, first, photo)
	require.NoError(t, err)

	// Identical evidence, but both reports are LOST.
	records, err := matcher.Run(ctx, second, photo)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMatcher_RerunIsIdempotent(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	photo := [][]byte{[]byte("photo")}
	lost := personReport("lost-1", core.ReportKindLost, 0)
	found := personReport("found-1", core.ReportKindFound, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, lost, found))

	_, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)

	records, err := matcher.Run(ctx, found, photo)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Rerunning the same report yields no fresh records and no duplicates.
	records, err = matcher.Run(ctx, found, photo)
	require.NoError(t, err)
	assert.Empty(t, records)

	all, err := stores.Matches.ListMatches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMatcher_EmbedderFailureDegradesRun(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockFaceEmbedder().EmbedFacesFunc = func(ctx context.Context, photos [][]byte) ([][]float32, error) {
		return nil, assert.AnError
	}

	matcher, stores := newTestMatcher(t, provider)
	ctx := context.Background()

	report := personReport("lost-1", core.ReportKindLost, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, report))

	_, err := matcher.Run(ctx, report, [][]byte{[]byte("photo")})
	require.NoError(t, err)

	// Face embedding failed, image and text still made it in.
	set, err := stores.Embeddings.GetEmbeddingSet(ctx, "lost-1")
	require.NoError(t, err)
	assert.Empty(t, set.FaceVectors)
	assert.NotEmpty(t, set.ImageVector)
	assert.NotEmpty(t, set.TextVector)
}

func TestMatcher_InvalidReportAborts(t *testing.T) {
	provider := mock.NewMockProvider()
	matcher, _ := newTestMatcher(t, provider)

	report := personReport("", core.ReportKindLost, 0)
	_, err := matcher.Run(context.Background(), report, nil)
	assert.ErrorIs(t, err, core.ErrEmptyReportId)
}

// flakyIndexStore wraps a real index store and injects per-modality failures.
type flakyIndexStore struct {
	storage.IndexStore
	failAdd    map[core.Modality]error
	failSearch map[core.Modality]error
}

func (s *flakyIndexStore) Add(ctx context.Context, modality core.Modality, vectors [][]float32, reportIDs []string) error {
	if err := s.failAdd[modality]; err != nil {
		return err
	}
	return s.IndexStore.Add(ctx, modality, vectors, reportIDs)
}

func (s *flakyIndexStore) Search(ctx context.Context, modality core.Modality, query []float32, k int) ([]core.NeighborHit, error) {
	if err := s.failSearch[modality]; err != nil {
		return nil, err
	}
	return s.IndexStore.Search(ctx, modality, query, k)
}

func newFlakyMatcher(t *testing.T, indexes func(*badgerstore.MemoryStores) storage.IndexStore, opts ...Option) (*Matcher, *badgerstore.MemoryStores) {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	matcher, err := NewMatcher(stores.Reports, stores.Embeddings, indexes(stores), stores.Matches, mock.NewMockProvider(), opts...)
	require.NoError(t, err)
	t.Cleanup(matcher.Release)

	return matcher, stores
}

func TestMatcher_TextSearchFailureStillMatches(t *testing.T) {
	matcher, stores := newFlakyMatcher(t, func(s *badgerstore.MemoryStores) storage.IndexStore {
		return &flakyIndexStore{
			IndexStore: s.Indexes,
			failSearch: map[core.Modality]error{core.ModalityText: assert.AnError},
		}
	})
	ctx := context.Background()

	photo := [][]byte{[]byte("photo")}
	lost := personReport("lost-1", core.ReportKindLost, 0)
	found := personReport("found-1", core.ReportKindFound, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, lost, found))

	_, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)

	// Face 0.5 + image 0.3 + distance 0.1 still clears the 0.70 person
	// threshold without text evidence.
	records, err := matcher.Run(ctx, found, photo)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.True(t, record.FaceScore.Valid)
	assert.True(t, record.ImageScore.Valid)
	assert.False(t, record.TextScore.Valid)
	assert.InDelta(t, 0.9, record.FusedScore, 0.01)
}

func TestMatcher_SearchFailureDegradesEachModality(t *testing.T) {
	scoreOf := map[core.Modality]func(*core.MatchRecord) core.Score{
		core.ModalityFace:  func(r *core.MatchRecord) core.Score { return r.FaceScore },
		core.ModalityImage: func(r *core.MatchRecord) core.Score { return r.ImageScore },
		core.ModalityText:  func(r *core.MatchRecord) core.Score { return r.TextScore },
	}

	for _, failing := range core.Modalities {
		t.Run(failing.String(), func(t *testing.T) {
			// Threshold low enough that the surviving modalities qualify no
			// matter which one is down.
			matcher, stores := newFlakyMatcher(t, func(s *badgerstore.MemoryStores) storage.IndexStore {
				return &flakyIndexStore{
					IndexStore: s.Indexes,
					failSearch: map[core.Modality]error{failing: assert.AnError},
				}
			}, WithThresholds(Thresholds{Person: 0.25, Item: 0.25}))
			ctx := context.Background()

			photo := [][]byte{[]byte("photo")}
			lost := personReport("lost-1", core.ReportKindLost, 0)
			found := personReport("found-1", core.ReportKindFound, 0)
			require.NoError(t, stores.Reports.AddReports(ctx, lost, found))

			_, err := matcher.Run(ctx, lost, photo)
			require.NoError(t, err)

			records, err := matcher.Run(ctx, found, photo)
			require.NoError(t, err)
			require.Len(t, records, 1)

			record := records[0]
			assert.False(t, scoreOf[failing](record).Valid)
			for modality, get := range scoreOf {
				if modality != failing {
					assert.True(t, get(record).Valid, modality.String())
				}
			}
		})
	}
}

func TestMatcher_IndexInsertFailureSkipsModality(t *testing.T) {
	matcher, stores := newFlakyMatcher(t, func(s *badgerstore.MemoryStores) storage.IndexStore {
		return &flakyIndexStore{
			IndexStore: s.Indexes,
			failAdd:    map[core.Modality]error{core.ModalityText: assert.AnError},
		}
	})
	ctx := context.Background()

	photo := [][]byte{[]byte("photo")}
	lost := personReport("lost-1", core.ReportKindLost, 0)
	found := personReport("found-1", core.ReportKindFound, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, lost, found))

	_, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)

	// The text index never came up, so the found run's text search misses.
	// Face and image alone still carry the match.
	records, err := matcher.Run(ctx, found, photo)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].TextScore.Valid)

	assert.Equal(t, 0, stores.Indexes.Len(core.ModalityText))
	assert.Equal(t, 2, stores.Indexes.Len(core.ModalityImage))
}

// finishSignalMonitor signals run completion so tests can wait on Submit.
type finishSignalMonitor struct {
	noopMonitor
	done chan []*core.MatchRecord
}

func (m *finishSignalMonitor) Finish(records []*core.MatchRecord) {
	m.done <- records
}

func TestMatcher_SubmitRunsAsync(t *testing.T) {
	provider := mock.NewMockProvider()
	monitor := &finishSignalMonitor{done: make(chan []*core.MatchRecord, 2)}
	matcher, stores := newTestMatcher(t, provider, WithMonitor(monitor))
	ctx := context.Background()

	photo := [][]byte{[]byte("photo")}
	lost := personReport("lost-1", core.ReportKindLost, 0)
	found := personReport("found-1", core.ReportKindFound, 0)
	require.NoError(t, stores.Reports.AddReports(ctx, lost, found))

	_, err := matcher.Run(ctx, lost, photo)
	require.NoError(t, err)
	<-monitor.done

	require.NoError(t, matcher.Submit(found, photo))

	select {
	case records := <-monitor.done:
		require.Len(t, records, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("async run did not finish")
	}

	got, err := stores.Matches.GetMatchByPair(ctx, "lost-1", "found-1")
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatusPending, got.Status)
}

func TestNewMatcher_RequiredDependencies(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	provider := mock.NewMockProvider()

	_, err = NewMatcher(nil, stores.Embeddings, stores.Indexes, stores.Matches, provider)
	assert.ErrorIs(t, err, ErrReportRepositoryRequired)

	_, err = NewMatcher(stores.Reports, stores.Embeddings, stores.Indexes, stores.Matches, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}
