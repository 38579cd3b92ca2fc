package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Serializers for persisted core records. Hand-maintained; cmd/musgen emits
// a generated scaffold to diff against when the record set changes.
var (
	IDMUS           = idMUS{}
	LocationMUS     = locationMUS{}
	ScoreMUS        = scoreMUS{}
	ReportMUS       = reportMUS{}
	EmbeddingSetMUS = embeddingSetMUS{}
	IndexEntryMUS   = indexEntryMUS{}
	MatchRecordMUS  = matchRecordMUS{}
)

// -----------------------------------------------------------------------------
// ID

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// -----------------------------------------------------------------------------
// float32 / float64 / time.Time / []float32 helpers

func marshalFloat32(v float32, bs []byte) (n int) {
	return varint.Uint32.Marshal(math.Float32bits(v), bs)
}

func unmarshalFloat32(bs []byte) (v float32, n int, err error) {
	u, n, err := varint.Uint32.Unmarshal(bs)
	return math.Float32frombits(u), n, err
}

func sizeFloat32(v float32) (size int) {
	return varint.Uint32.Size(math.Float32bits(v))
}

func skipFloat32(bs []byte) (n int, err error) {
	return varint.Uint32.Skip(bs)
}

func marshalFloat64(v float64, bs []byte) (n int) {
	return varint.Uint64.Marshal(math.Float64bits(v), bs)
}

func unmarshalFloat64(bs []byte) (v float64, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return math.Float64frombits(u), n, err
}

func sizeFloat64(v float64) (size int) {
	return varint.Uint64.Size(math.Float64bits(v))
}

func skipFloat64(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

func marshalTime(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (v time.Time, n int, err error) {
	u, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(u).UTC(), n, nil
}

func sizeTime(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func skipTime(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

func marshalFloat32Slice(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += marshalFloat32(e, bs[n:])
	}
	return
}

func unmarshalFloat32Slice(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		e  float32
		n1 int
	)
	for i := 0; i < length; i++ {
		e, n1, err = unmarshalFloat32(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v = append(v, e)
	}
	return
}

func sizeFloat32Slice(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, e := range v {
		size += sizeFloat32(e)
	}
	return
}

func skipFloat32Slice(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = skipFloat32(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func marshalStringSlice(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, e := range v {
		n += ord.String.Marshal(e, bs[n:])
	}
	return
}

func unmarshalStringSlice(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		e  string
		n1 int
	)
	for i := 0; i < length; i++ {
		e, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v = append(v, e)
	}
	return
}

func sizeStringSlice(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, e := range v {
		size += ord.String.Size(e)
	}
	return
}

func skipStringSlice(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// -----------------------------------------------------------------------------
// Location

type locationMUS struct{}

func (s locationMUS) Marshal(v Location, bs []byte) (n int) {
	n = marshalFloat64(v.Latitude, bs)
	n += marshalFloat64(v.Longitude, bs[n:])
	n += ord.String.Marshal(v.Label, bs[n:])
	return
}

func (s locationMUS) Unmarshal(bs []byte) (v Location, n int, err error) {
	var n1 int
	v.Latitude, n, err = unmarshalFloat64(bs)
	if err != nil {
		return
	}
	v.Longitude, n1, err = unmarshalFloat64(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Label, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s locationMUS) Size(v Location) (size int) {
	size = sizeFloat64(v.Latitude)
	size += sizeFloat64(v.Longitude)
	size += ord.String.Size(v.Label)
	return
}

func (s locationMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = skipFloat64(bs)
	if err != nil {
		return
	}
	n1, err = skipFloat64(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

// -----------------------------------------------------------------------------
// Score

type scoreMUS struct{}

func (s scoreMUS) Marshal(v Score, bs []byte) (n int) {
	n = marshalFloat32(v.Value, bs)
	n += ord.Bool.Marshal(v.Valid, bs[n:])
	return
}

func (s scoreMUS) Unmarshal(bs []byte) (v Score, n int, err error) {
	var n1 int
	v.Value, n, err = unmarshalFloat32(bs)
	if err != nil {
		return
	}
	v.Valid, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (s scoreMUS) Size(v Score) (size int) {
	return sizeFloat32(v.Value) + ord.Bool.Size(v.Valid)
}

func (s scoreMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = skipFloat32(bs)
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	return
}

// -----------------------------------------------------------------------------
// Report

type reportMUS struct{}

func (s reportMUS) Marshal(v Report, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += varint.Int.Marshal(int(v.Kind), bs[n:])
	n += varint.Int.Marshal(int(v.Subject), bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	n += LocationMUS.Marshal(v.Location, bs[n:])
	n += marshalStringSlice(v.PhotoRefs, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return
}

func (s reportMUS) Unmarshal(bs []byte) (v Report, n int, err error) {
	var (
		n1 int
		iv int
	)
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	iv, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind = ReportKind(iv)
	iv, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Subject = SubjectKind(iv)
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Language, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Location, n1, err = LocationMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PhotoRefs, n1, err = unmarshalStringSlice(bs[n:])
	n += n1
	if err != nil {
		return
	}
	iv, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = ReportStatus(iv)
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s reportMUS) Size(v Report) (size int) {
	size = ord.String.Size(v.Id)
	size += varint.Int.Size(int(v.Kind))
	size += varint.Int.Size(int(v.Subject))
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Language)
	size += LocationMUS.Size(v.Location)
	size += sizeStringSlice(v.PhotoRefs)
	size += varint.Int.Size(int(v.Status))
	size += sizeTime(v.CreatedAt)
	return
}

func (s reportMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = LocationMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = skipStringSlice(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = skipTime(bs[n:])
	n += n1
	return
}

// -----------------------------------------------------------------------------
// EmbeddingSet

type embeddingSetMUS struct{}

func (s embeddingSetMUS) Marshal(v EmbeddingSet, bs []byte) (n int) {
	n = ord.String.Marshal(v.ReportId, bs)
	n += varint.Int.Marshal(len(v.FaceVectors), bs[n:])
	for _, fv := range v.FaceVectors {
		n += marshalFloat32Slice(fv, bs[n:])
	}
	n += marshalFloat32Slice(v.ImageVector, bs[n:])
	n += marshalFloat32Slice(v.TextVector, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return
}

func (s embeddingSetMUS) Unmarshal(bs []byte) (v EmbeddingSet, n int, err error) {
	var (
		n1     int
		length int
	)
	v.ReportId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var fv []float32
	for i := 0; i < length; i++ {
		fv, n1, err = unmarshalFloat32Slice(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.FaceVectors = append(v.FaceVectors, fv)
	}
	v.ImageVector, n1, err = unmarshalFloat32Slice(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TextVector, n1, err = unmarshalFloat32Slice(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s embeddingSetMUS) Size(v EmbeddingSet) (size int) {
	size = ord.String.Size(v.ReportId)
	size += varint.Int.Size(len(v.FaceVectors))
	for _, fv := range v.FaceVectors {
		size += sizeFloat32Slice(fv)
	}
	size += sizeFloat32Slice(v.ImageVector)
	size += sizeFloat32Slice(v.TextVector)
	size += sizeTime(v.CreatedAt)
	return
}

func (s embeddingSetMUS) Skip(bs []byte) (n int, err error) {
	var (
		n1     int
		length int
	)
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < length; i++ {
		n1, err = skipFloat32Slice(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = skipFloat32Slice(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = skipTime(bs[n:])
	n += n1
	return
}

// -----------------------------------------------------------------------------
// IndexEntry

type indexEntryMUS struct{}

func (s indexEntryMUS) Marshal(v IndexEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ReportId, bs)
	n += marshalFloat32Slice(v.Vector, bs[n:])
	return
}

func (s indexEntryMUS) Unmarshal(bs []byte) (v IndexEntry, n int, err error) {
	var n1 int
	v.ReportId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Vector, n1, err = unmarshalFloat32Slice(bs[n:])
	n += n1
	return
}

func (s indexEntryMUS) Size(v IndexEntry) (size int) {
	return ord.String.Size(v.ReportId) + sizeFloat32Slice(v.Vector)
}

func (s indexEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = skipFloat32Slice(bs[n:])
	n += n1
	return
}

// -----------------------------------------------------------------------------
// MatchRecord

type matchRecordMUS struct{}

func (s matchRecordMUS) Marshal(v MatchRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.LostReportId, bs[n:])
	n += ord.String.Marshal(v.FoundReportId, bs[n:])
	n += ScoreMUS.Marshal(v.FaceScore, bs[n:])
	n += ScoreMUS.Marshal(v.ImageScore, bs[n:])
	n += ScoreMUS.Marshal(v.TextScore, bs[n:])
	n += ScoreMUS.Marshal(v.DistanceScore, bs[n:])
	n += marshalFloat32(v.FusedScore, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return
}

func (s matchRecordMUS) Unmarshal(bs []byte) (v MatchRecord, n int, err error) {
	var (
		n1 int
		iv int
	)
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.LostReportId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FoundReportId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FaceScore, n1, err = ScoreMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ImageScore, n1, err = ScoreMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TextScore, n1, err = ScoreMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DistanceScore, n1, err = ScoreMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FusedScore, n1, err = unmarshalFloat32(bs[n:])
	n += n1
	if err != nil {
		return
	}
	iv, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = MatchStatus(iv)
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (s matchRecordMUS) Size(v MatchRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.LostReportId)
	size += ord.String.Size(v.FoundReportId)
	size += ScoreMUS.Size(v.FaceScore)
	size += ScoreMUS.Size(v.ImageScore)
	size += ScoreMUS.Size(v.TextScore)
	size += ScoreMUS.Size(v.DistanceScore)
	size += sizeFloat32(v.FusedScore)
	size += varint.Int.Size(int(v.Status))
	size += sizeTime(v.CreatedAt)
	return
}

func (s matchRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 4; i++ {
		n1, err = ScoreMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = skipFloat32(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = skipTime(bs[n:])
	n += n1
	return
}
