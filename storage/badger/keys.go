package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/refind/core"
)

// Key prefixes for different data types
const (
	reportRecordPrefix  = "reprec"
	embeddingSetPrefix  = "embset"
	indexEntryPrefix    = "vecidx"
	indexMetaPrefix     = "vecidxdim"
	indexEntrySeqPrefix = "vecidxseq"
	matchRecordPrefix   = "matrec"
	matchIDPrefix       = "matid"
)

// makeReportKey generates a key for a report by ID.
func makeReportKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", reportRecordPrefix, id))
}

// makeEmbeddingSetKey generates a key for a report's embedding set.
func makeEmbeddingSetKey(reportID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", embeddingSetPrefix, reportID))
}

// makeIndexEntryKey generates a composite key for an index entry.
// Format: prefix:modality:seq
func makeIndexEntryKey(modality core.Modality, seq uint64) []byte {
	prefix := indexEntryPrefix + ":" + modality.String() + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for the sequence number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves insertion order
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeIndexEntryPrefix generates the scan prefix for a modality's entries.
func makeIndexEntryPrefix(modality core.Modality) []byte {
	return []byte(indexEntryPrefix + ":" + modality.String() + ":")
}

// makeIndexMetaKey generates the key holding a modality's dimensionality.
func makeIndexMetaKey(modality core.Modality) []byte {
	return []byte(fmt.Sprintf("%s:%s", indexMetaPrefix, modality))
}

// indexSequenceName returns the badger sequence name for a modality index.
func indexSequenceName(modality core.Modality) string {
	return indexEntrySeqPrefix + ":" + modality.String()
}

// makeMatchKey generates a key for a match record by its pair fingerprint.
func makeMatchKey(fingerprint core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", matchRecordPrefix, fingerprint))
}

// makeMatchIDKey generates a key for the match id lookup index.
// The value stored under it is the pair fingerprint.
func makeMatchIDKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", matchIDPrefix, id))
}
