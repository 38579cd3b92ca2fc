package match

import "github.com/poiesic/refind/core"

// RunMonitor provides hooks to observe a matching run.
// Implement this interface to track intermediate steps during matching.
type RunMonitor interface {
	Start(report *core.Report)
	AfterEmbedding(set *core.EmbeddingSet)
	AfterIndexInsert(modality core.Modality, count int)
	AfterNeighborSearch(modality core.Modality, hits []core.NeighborHit)
	CandidateScored(candidate *core.MatchCandidate, fused float32)
	MatchPersisted(record *core.MatchRecord, fresh bool)
	Finish(records []*core.MatchRecord)
}

// noopMonitor is a no-op implementation of RunMonitor
type noopMonitor struct{}

var _ RunMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.Report)                                   {}
func (n *noopMonitor) AfterEmbedding(_ *core.EmbeddingSet)                    {}
func (n *noopMonitor) AfterIndexInsert(_ core.Modality, _ int)                {}
func (n *noopMonitor) AfterNeighborSearch(_ core.Modality, _ []core.NeighborHit) {}
func (n *noopMonitor) CandidateScored(_ *core.MatchCandidate, _ float32)      {}
func (n *noopMonitor) MatchPersisted(_ *core.MatchRecord, _ bool)             {}
func (n *noopMonitor) Finish(_ []*core.MatchRecord)                           {}
