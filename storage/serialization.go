// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/refind/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalReport serializes a Report to bytes.
func MarshalReport(report *core.Report) []byte {
	buf := make([]byte, core.ReportMUS.Size(*report))
	core.ReportMUS.Marshal(*report, buf)
	return buf
}

// UnmarshalReport deserializes a Report from bytes.
func UnmarshalReport(data []byte) (*core.Report, error) {
	report, _, err := core.ReportMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// MarshalEmbeddingSet serializes an EmbeddingSet to bytes.
func MarshalEmbeddingSet(set *core.EmbeddingSet) []byte {
	buf := make([]byte, core.EmbeddingSetMUS.Size(*set))
	core.EmbeddingSetMUS.Marshal(*set, buf)
	return buf
}

// UnmarshalEmbeddingSet deserializes an EmbeddingSet from bytes.
func UnmarshalEmbeddingSet(data []byte) (*core.EmbeddingSet, error) {
	set, _, err := core.EmbeddingSetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// MarshalIndexEntry serializes an IndexEntry to bytes.
func MarshalIndexEntry(entry *core.IndexEntry) []byte {
	buf := make([]byte, core.IndexEntryMUS.Size(*entry))
	core.IndexEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
func UnmarshalIndexEntry(data []byte) (*core.IndexEntry, error) {
	entry, _, err := core.IndexEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalMatchRecord serializes a MatchRecord to bytes.
func MarshalMatchRecord(record *core.MatchRecord) []byte {
	buf := make([]byte, core.MatchRecordMUS.Size(*record))
	core.MatchRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalMatchRecord deserializes a MatchRecord from bytes.
func UnmarshalMatchRecord(data []byte) (*core.MatchRecord, error) {
	record, _, err := core.MatchRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
