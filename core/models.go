package core

//go:generate go run ../cmd/musgen
// The scaffold lands in records_mus_scaffold.go.txt; diff it against
// records_mus.go when the record set changes.

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a 64-bit content-based fingerprint used for idempotent keys,
// generated with BLAKE2b so that identical content produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PairFingerprint generates a deterministic ID for a (lost, found) report
// pair. The same pair always yields the same fingerprint regardless of which
// report triggered the matching run, which makes match insertion idempotent.
func PairFingerprint(lostReportID, foundReportID string) ID {
	return IDFromContent(lostReportID + "\x00" + foundReportID)
}

// ReportKind distinguishes lost reports from found reports.
type ReportKind int

const (
	// ReportKindLost marks a report about a missing person or item.
	ReportKindLost ReportKind = iota + 1
	// ReportKindFound marks a report about a recovered person or item.
	ReportKindFound
)

// Opposite returns the report kind a report of this kind matches against.
func (k ReportKind) Opposite() ReportKind {
	if k == ReportKindLost {
		return ReportKindFound
	}
	return ReportKindLost
}

func (k ReportKind) String() string {
	switch k {
	case ReportKindLost:
		return "LOST"
	case ReportKindFound:
		return "FOUND"
	default:
		return "UNKNOWN"
	}
}

// SubjectKind identifies whether a report concerns a person or an item.
// It determines which modalities apply and which match threshold is used.
type SubjectKind int

const (
	// SubjectKindPerson represents a missing or found person.
	SubjectKindPerson SubjectKind = iota + 1
	// SubjectKindItem represents a missing or found item.
	SubjectKindItem
)

func (k SubjectKind) String() string {
	switch k {
	case SubjectKindPerson:
		return "PERSON"
	case SubjectKindItem:
		return "ITEM"
	default:
		return "UNKNOWN"
	}
}

// ReportStatus tracks a report through its lifecycle. Status transitions are
// owned by the reporting workflow; the matching engine only reads them.
type ReportStatus int

const (
	// ReportStatusOpen means the report is active and eligible for matching.
	ReportStatusOpen ReportStatus = iota + 1
	// ReportStatusMatched means at least one candidate match is pending review.
	ReportStatusMatched
	// ReportStatusReunited means the person/item was confirmed reunited.
	ReportStatusReunited
	// ReportStatusClosed means the report was withdrawn or expired.
	ReportStatusClosed
)

func (s ReportStatus) String() string {
	switch s {
	case ReportStatusOpen:
		return "OPEN"
	case ReportStatusMatched:
		return "MATCHED"
	case ReportStatusReunited:
		return "REUNITED"
	case ReportStatusClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Location is the place a report was filed about.
type Location struct {
	Latitude  float64
	Longitude float64
	Label     string // Optional free-text label ("central station, platform 2")
}

// Report is an incident report submitted by the reporting workflow.
// It is immutable after creation from the engine's perspective; only the
// reporting workflow mutates Status.
type Report struct {
	Id          string
	Kind        ReportKind
	Subject     SubjectKind
	Description string // Optional free-text description
	Language    string // BCP 47 language code of the description
	Location    Location
	PhotoRefs   []string // Opaque byte-fetchable references, resolved by callers
	Status      ReportStatus
	CreatedAt   time.Time
}

// EmbeddingSet holds the vectors derived from one report. Any subset may be
// absent: a nil ImageVector/TextVector or an empty FaceVectors slice means
// "no signal" for that modality, never "legitimately low similarity".
type EmbeddingSet struct {
	ReportId    string
	FaceVectors [][]float32 // One vector per detected face, PERSON reports only
	ImageVector []float32   // Whole-image vector from the first photo, nil if absent
	TextVector  []float32   // Description vector, nil if absent
	CreatedAt   time.Time
}

// IsEmpty reports whether no modality produced a vector.
func (s *EmbeddingSet) IsEmpty() bool {
	return len(s.FaceVectors) == 0 && len(s.ImageVector) == 0 && len(s.TextVector) == 0
}

// Modality is one embedding channel.
type Modality int

const (
	// ModalityFace is the per-face embedding channel (PERSON subjects).
	ModalityFace Modality = iota + 1
	// ModalityImage is the whole-image embedding channel.
	ModalityImage
	// ModalityText is the description embedding channel.
	ModalityText
)

// Modalities lists all embedding channels in index order.
var Modalities = []Modality{ModalityFace, ModalityImage, ModalityText}

func (m Modality) String() string {
	switch m {
	case ModalityFace:
		return "face"
	case ModalityImage:
		return "image"
	case ModalityText:
		return "text"
	default:
		return "unknown"
	}
}

// IndexEntry is one (vector, owning report) pair in a modality index.
// Vector and report id are serialized together so the id mapping can never
// drift from the vector data.
type IndexEntry struct {
	ReportId string
	Vector   []float32
}

// NeighborHit is a single nearest-neighbor search result.
type NeighborHit struct {
	ReportId   string
	Similarity float32
}

// Score is an optional per-modality similarity value. Valid distinguishes a
// genuinely low similarity from an absent modality.
type Score struct {
	Value float32
	Valid bool
}

// ValidScore wraps a present similarity value.
func ValidScore(v float32) Score {
	return Score{Value: v, Valid: true}
}

// Or returns the score value, or fallback when the score is absent.
func (s Score) Or(fallback float32) float32 {
	if s.Valid {
		return s.Value
	}
	return fallback
}

// Max returns the score with the higher value, treating absent as lowest.
func (s Score) Max(other Score) Score {
	if !s.Valid {
		return other
	}
	if other.Valid && other.Value > s.Value {
		return other
	}
	return s
}

// MatchCandidate accumulates per-modality similarities for one opposite-kind
// neighbor during a single matching run. It is never persisted directly;
// qualifying candidates collapse into a MatchRecord.
type MatchCandidate struct {
	OtherReportId string
	FaceScore     Score
	ImageScore    Score
	TextScore     Score
	DistanceScore Score
}

// MatchStatus tracks a match record through human review.
type MatchStatus int

const (
	// MatchStatusPending means the match awaits review.
	MatchStatusPending MatchStatus = iota + 1
	// MatchStatusConfirmedReunited means a reviewer confirmed the match.
	MatchStatusConfirmedReunited
	// MatchStatusFalseMatch means a reviewer rejected the match.
	MatchStatusFalseMatch
)

func (s MatchStatus) String() string {
	switch s {
	case MatchStatusPending:
		return "PENDING"
	case MatchStatusConfirmedReunited:
		return "CONFIRMED_REUNITED"
	case MatchStatusFalseMatch:
		return "FALSE_MATCH"
	default:
		return "UNKNOWN"
	}
}

// MatchRecord is a persisted candidate pairing of one lost and one found
// report. LostReportId and FoundReportId are resolved by report kind, never
// by which report triggered the run.
type MatchRecord struct {
	Id            string // UUID assigned at creation
	LostReportId  string
	FoundReportId string
	FaceScore     Score
	ImageScore    Score
	TextScore     Score
	DistanceScore Score
	FusedScore    float32
	Status        MatchStatus
	CreatedAt     time.Time
}

// Fingerprint returns the idempotency key for this record's report pair.
func (m *MatchRecord) Fingerprint() ID {
	return PairFingerprint(m.LostReportId, m.FoundReportId)
}
