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


package badger

import "github.com/poiesic/refind/storage"

// MemoryStores bundles in-memory repositories for testing.
// Caller must call Close when done.
type MemoryStores struct {
	Reports    storage.ReportRepository
	Embeddings storage.EmbeddingRepository
	Indexes    storage.IndexStore
	Matches    storage.MatchRepository
	Backend    *Backend
}

// Close closes all repositories and the backing store.
func (m *MemoryStores) Close() error {
	m.Reports.Close()
	m.Embeddings.Close()
	m.Indexes.Close()
	m.Matches.Close()
	return m.Backend.Close()
}

// NewMemoryStores creates a full set of in-memory repositories for testing.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	reports, err := NewReportRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embeddings, err := NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	indexes, err := NewIndexStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	matches, err := NewMatchRepository(backend)
	if err != nil {
		indexes.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Reports:    reports,
		Embeddings: embeddings,
		Indexes:    indexes,
		Matches:    matches,
		Backend:    backend,
	}, nil
}
