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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrIndexNotFound indicates a search against a modality index that was
	// never initialized.
	ErrIndexNotFound = errors.New("modality index not found")

	// ErrDimensionMismatch indicates an insert whose vector dimensionality
	// does not match the dimensionality fixed at the index's first insertion.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrLengthMismatch indicates an insert where the vectors and owning
	// report ids have different lengths.
	ErrLengthMismatch = errors.New("vectors and report ids length mismatch")

	// ErrInvalidDimension indicates a non-positive index dimensionality.
	ErrInvalidDimension = errors.New("index dimension must be positive")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
