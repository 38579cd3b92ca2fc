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


// Package storage provides the storage abstraction layer for refind.
//
// This package defines repository interfaces that decouple storage
// implementation from the matching logic. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Repositories
//
//   - ReportRepository: incident reports (the engine reads, the reporting
//     workflow writes)
//   - EmbeddingRepository: per-report embedding sets, the source of truth
//     for index rebuilds
//   - IndexStore: durable per-modality nearest-neighbor indexes
//   - MatchRepository: match records with (lost, found) pair idempotency
//
// # Index durability
//
// Each index entry co-persists its vector and owning report id as a single
// serialized value under an ordered key. Reloading an index therefore always
// restores vectors and the id mapping together; the two can never diverge.
//
// # Thread safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. The IndexStore additionally guarantees
// that searches never observe a partially-written index.
//
// # Context support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
