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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidReport indicates a Report failed validation.
	ErrInvalidReport = errors.New("invalid report")

	// ErrInvalidMatchRecord indicates a MatchRecord failed validation.
	ErrInvalidMatchRecord = errors.New("invalid match record")

	// ErrEmptyReportId indicates the report Id field is empty.
	ErrEmptyReportId = errors.New("report id cannot be empty")

	// ErrInvalidReportKind indicates an invalid ReportKind value.
	ErrInvalidReportKind = errors.New("invalid report kind")

	// ErrInvalidSubjectKind indicates an invalid SubjectKind value.
	ErrInvalidSubjectKind = errors.New("invalid subject kind")

	// ErrInvalidCoordinates indicates latitude or longitude out of range.
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrSelfMatch indicates a match record pairing a report with itself.
	ErrSelfMatch = errors.New("lost and found report ids must differ")

	// ErrInvalidMatchStatus indicates an invalid MatchStatus value.
	ErrInvalidMatchStatus = errors.New("invalid match status")
)
