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


package match

import "errors"

var (
	// ErrReportRepositoryRequired indicates a nil report repository.
	ErrReportRepositoryRequired = errors.New("report repository is required")

	// ErrEmbeddingRepositoryRequired indicates a nil embedding repository.
	ErrEmbeddingRepositoryRequired = errors.New("embedding repository is required")

	// ErrMatchRepositoryRequired indicates a nil match repository.
	ErrMatchRepositoryRequired = errors.New("match repository is required")

	// ErrIndexStoreRequired indicates a nil index store.
	ErrIndexStoreRequired = errors.New("index store is required")

	// ErrProviderRequired indicates a nil model provider.
	ErrProviderRequired = errors.New("model provider is required")

	// ErrInvalidWeights indicates fusion weights outside [0, 1] or summing
	// to more than 1.
	ErrInvalidWeights = errors.New("invalid fusion weights")

	// ErrInvalidThreshold indicates a match threshold outside [0, 1].
	ErrInvalidThreshold = errors.New("invalid match threshold")
)
