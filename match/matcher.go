package match

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/geo"
	"github.com/poiesic/refind/storage"
)

// DefaultTopK is the number of neighbors retrieved per modality query.
const DefaultTopK = 10

// Matcher runs the cross-modal matching pipeline for incoming reports.
//
// A run embeds the report, appends its vectors to the modality indexes,
// searches each present modality against previously indexed reports, fuses
// per-candidate evidence with the proximity score, and persists every
// candidate whose fused score strictly exceeds the subject's threshold.
type Matcher struct {
	reports    storage.ReportRepository
	embeddings storage.EmbeddingRepository
	indexes    storage.IndexStore
	matches    storage.MatchRepository
	provider   ai.ModelProvider
	scorer     *geo.ProximityScorer
	weights    Weights
	thresholds Thresholds
	topK       int
	pool       *ants.Pool
	sink       *sink
	monitor    RunMonitor
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithTopK sets the number of neighbors retrieved per modality query.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(m *Matcher) error {
		if k < 1 {
			k = 1
		}
		m.topK = k
		return nil
	}
}

// WithWeights sets custom fusion weights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) error {
		if err := w.Validate(); err != nil {
			return err
		}
		m.weights = w
		return nil
	}
}

// WithThresholds sets custom match thresholds.
func WithThresholds(t Thresholds) Option {
	return func(m *Matcher) error {
		if err := t.Validate(); err != nil {
			return err
		}
		m.thresholds = t
		return nil
	}
}

// WithProximityCutoff sets the distance in kilometers at which proximity
// stops contributing to matches.
func WithProximityCutoff(cutoffKm float64) Option {
	return func(m *Matcher) error {
		if cutoffKm > 0 {
			m.scorer = &geo.ProximityScorer{CutoffKm: cutoffKm}
		}
		return nil
	}
}

// WithNotifier sets the notifier that announces fresh matches.
func WithNotifier(notifier Notifier) Option {
	return func(m *Matcher) error {
		m.sink.notifier = notifier
		return nil
	}
}

// WithMonitor sets a monitor observing matching runs.
func WithMonitor(monitor RunMonitor) Option {
	return func(m *Matcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// WithPoolSize sets the worker pool size for async matching runs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		m.sink.logger = logger
		return nil
	}
}

// NewMatcher creates a matching engine over the given stores and provider.
func NewMatcher(
	reports storage.ReportRepository,
	embeddings storage.EmbeddingRepository,
	indexes storage.IndexStore,
	matches storage.MatchRepository,
	provider ai.ModelProvider,
	opts ...Option,
) (*Matcher, error) {
	if reports == nil {
		return nil, ErrReportRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if indexes == nil {
		return nil, ErrIndexStoreRequired
	}
	if matches == nil {
		return nil, ErrMatchRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "matcher")
	m := &Matcher{
		reports:    reports,
		embeddings: embeddings,
		indexes:    indexes,
		matches:    matches,
		provider:   provider,
		scorer:     geo.NewProximityScorer(),
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
		topK:       DefaultTopK,
		pool:       pool,
		sink:       &sink{matches: matches, logger: logger},
		monitor:    &noopMonitor{},
		logger:     logger,
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}

	return m, nil
}

// Submit queues a matching run for async execution. Errors during the run
// are logged but not surfaced; use Run for synchronous error handling.
func (m *Matcher) Submit(report *core.Report, photos [][]byte) error {
	return m.pool.Submit(func() {
		if _, err := m.Run(context.Background(), report, photos); err != nil {
			m.logger.Error("matching run failed", "report", report.Id, "err", err)
		}
	})
}

// Run executes a full matching run for one report and returns the freshly
// persisted match records.
//
// Embedding, index insert, and neighbor search failures each degrade the run
// to the modalities that succeeded; a report with no usable signal at all
// produces no candidates and no error.
func (m *Matcher) Run(ctx context.Context, report *core.Report, photos [][]byte) ([]*core.MatchRecord, error) {
	if err := core.ValidateReport(report); err != nil {
		return nil, err
	}

	m.monitor.Start(report)
	m.logger.Info("matching run started",
		"report", report.Id, "kind", report.Kind.String(), "subject", report.Subject.String())

	set := m.embed(ctx, report, photos)
	m.monitor.AfterEmbedding(set)

	if err := m.embeddings.PutEmbeddingSet(ctx, set); err != nil {
		return nil, err
	}

	if set.IsEmpty() {
		m.logger.Warn("report produced no embeddings, skipping search", "report", report.Id)
		m.monitor.Finish(nil)
		return nil, nil
	}

	m.indexVectors(ctx, set)
	candidates := m.gatherCandidates(ctx, report, set)

	records := m.scoreAndPersist(ctx, report, candidates)
	m.monitor.Finish(records)
	m.logger.Info("matching run finished",
		"report", report.Id, "candidates", len(candidates), "matches", len(records))
	return records, nil
}

// embed generates all available embeddings for a report. Individual model
// failures are logged and treated as an absent modality.
func (m *Matcher) embed(ctx context.Context, report *core.Report, photos [][]byte) *core.EmbeddingSet {
	set := &core.EmbeddingSet{
		ReportId:  report.Id,
		CreatedAt: time.Now().UTC(),
	}

	if report.Subject == core.SubjectKindPerson && len(photos) > 0 {
		faces, err := m.provider.FaceEmbedder().EmbedFaces(ctx, photos)
		if err != nil {
			m.logger.Warn("face embedding unavailable", "report", report.Id, "err", err)
		} else {
			for _, face := range faces {
				set.FaceVectors = append(set.FaceVectors, normalizeVector(face))
			}
		}
	}

	if len(photos) > 0 {
		image, err := m.provider.ImageEmbedder().EmbedImage(ctx, photos[0])
		if err != nil {
			m.logger.Warn("image embedding unavailable", "report", report.Id, "err", err)
		} else if len(image) > 0 {
			set.ImageVector = normalizeVector(image)
		}
	}

	if report.Description != "" {
		text, err := m.provider.TextEmbedder().EmbedText(ctx, report.Description, report.Language)
		if err != nil {
			m.logger.Warn("text embedding unavailable", "report", report.Id, "err", err)
		} else if len(text) > 0 {
			set.TextVector = normalizeVector(text)
		}
	}

	return set
}

// indexVectors appends the report's vectors to their modality indexes. A
// failed insert is logged and skipped; the other modalities still go in, and
// the rebuild path picks the skipped vectors up from the persisted set later.
func (m *Matcher) indexVectors(ctx context.Context, set *core.EmbeddingSet) {
	insert := func(modality core.Modality, vectors [][]float32) {
		ids := make([]string, len(vectors))
		for i := range ids {
			ids[i] = set.ReportId
		}
		if err := m.indexes.Add(ctx, modality, vectors, ids); err != nil {
			m.logger.Warn("index insert failed, skipping modality",
				"report", set.ReportId, "modality", modality.String(), "err", err)
			return
		}
		m.monitor.AfterIndexInsert(modality, len(vectors))
	}

	if len(set.FaceVectors) > 0 {
		insert(core.ModalityFace, set.FaceVectors)
	}
	if len(set.ImageVector) > 0 {
		insert(core.ModalityImage, [][]float32{set.ImageVector})
	}
	if len(set.TextVector) > 0 {
		insert(core.ModalityText, [][]float32{set.TextVector})
	}
}

// gatherCandidates searches each present modality and aggregates the best
// similarity per neighboring report, keeping only opposite-kind reports of
// the same subject kind. A failed search degrades that modality to absent;
// candidates found through the other modalities survive.
func (m *Matcher) gatherCandidates(ctx context.Context, report *core.Report, set *core.EmbeddingSet) map[string]*core.MatchCandidate {
	candidates := make(map[string]*core.MatchCandidate)

	search := func(modality core.Modality, queries [][]float32, assign func(c *core.MatchCandidate, score core.Score)) {
		for _, query := range queries {
			hits, err := m.indexes.Search(ctx, modality, query, m.topK)
			if err != nil {
				m.logger.Warn("neighbor search failed, skipping modality",
					"report", report.Id, "modality", modality.String(), "err", err)
				return
			}
			m.monitor.AfterNeighborSearch(modality, hits)

			for _, hit := range hits {
				if hit.ReportId == report.Id {
					continue
				}
				candidate, ok := candidates[hit.ReportId]
				if !ok {
					candidate = &core.MatchCandidate{OtherReportId: hit.ReportId}
					candidates[hit.ReportId] = candidate
				}
				assign(candidate, core.ValidScore(hit.Similarity))
			}
		}
	}

	if len(set.FaceVectors) > 0 {
		search(core.ModalityFace, set.FaceVectors, func(c *core.MatchCandidate, s core.Score) {
			c.FaceScore = c.FaceScore.Max(s)
		})
	}
	if len(set.ImageVector) > 0 {
		search(core.ModalityImage, [][]float32{set.ImageVector}, func(c *core.MatchCandidate, s core.Score) {
			c.ImageScore = c.ImageScore.Max(s)
		})
	}
	if len(set.TextVector) > 0 {
		search(core.ModalityText, [][]float32{set.TextVector}, func(c *core.MatchCandidate, s core.Score) {
			c.TextScore = c.TextScore.Max(s)
		})
	}

	m.filterCandidates(ctx, report, candidates)
	return candidates
}

// filterCandidates drops candidates that are not opposite-kind reports of the
// same subject kind, and attaches the proximity score to the survivors.
// Candidates whose report lookup fails are dropped with a log line.
func (m *Matcher) filterCandidates(ctx context.Context, report *core.Report, candidates map[string]*core.MatchCandidate) {
	for otherID, candidate := range candidates {
		other, err := m.reports.GetReport(ctx, otherID)
		if err != nil {
			m.logger.Warn("dropping candidate, report lookup failed", "report", otherID, "err", err)
			delete(candidates, otherID)
			continue
		}
		if other.Kind != report.Kind.Opposite() || other.Subject != report.Subject {
			delete(candidates, otherID)
			continue
		}
		candidate.DistanceScore = core.ValidScore(m.scorer.Score(report.Location, other.Location))
	}
}

// scoreAndPersist fuses each candidate's evidence and persists the ones that
// strictly exceed the subject's threshold. Persistence failures are logged
// per candidate, never fatal for the run.
func (m *Matcher) scoreAndPersist(ctx context.Context, report *core.Report, candidates map[string]*core.MatchCandidate) []*core.MatchRecord {
	threshold := m.thresholds.ForSubject(report.Subject)
	var records []*core.MatchRecord

	for _, candidate := range candidates {
		fused := m.weights.Fuse(candidate)
		m.monitor.CandidateScored(candidate, fused)
		if fused <= threshold {
			continue
		}

		record := m.buildRecord(report, candidate, fused)
		fresh, err := m.sink.persist(ctx, record)
		if err != nil {
			m.logger.Error("failed to persist match",
				"lost", record.LostReportId, "found", record.FoundReportId, "err", err)
			continue
		}
		m.monitor.MatchPersisted(record, fresh)
		if fresh {
			records = append(records, record)
		}
	}

	return records
}

// buildRecord orients the pair by report kind and assembles the match record.
func (m *Matcher) buildRecord(report *core.Report, candidate *core.MatchCandidate, fused float32) *core.MatchRecord {
	lostID, foundID := report.Id, candidate.OtherReportId
	if report.Kind == core.ReportKindFound {
		lostID, foundID = candidate.OtherReportId, report.Id
	}

	return &core.MatchRecord{
		Id:            uuid.NewString(),
		LostReportId:  lostID,
		FoundReportId: foundID,
		FaceScore:     candidate.FaceScore,
		ImageScore:    candidate.ImageScore,
		TextScore:     candidate.TextScore,
		DistanceScore: candidate.DistanceScore,
		FusedScore:    fused,
		Status:        core.MatchStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
}

// Release releases the worker pool.
// The matcher should not be used after calling Release.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// normalizeVector scales a vector to unit length so inner products are
// cosine similarities. Zero vectors are returned unchanged.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}
	norm := float32(1 / math.Sqrt(sumSquares))
	normalized := make([]float32, len(v))
	for i, x := range v {
		normalized[i] = x * norm
	}
	return normalized
}
