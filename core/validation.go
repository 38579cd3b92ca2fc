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

import (
	"fmt"
	"time"
)

// ValidateReport validates a Report according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Kind must be LOST or FOUND
//   - Subject must be PERSON or ITEM
//   - Coordinates must be in range (lat [-90,90], lon [-180,180])
//   - CreatedAt must not be in the future
//
// NOT validated (legitimately optional):
//   - Description (reports may be photo-only)
//   - PhotoRefs (reports may be text-only)
func ValidateReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}

	if report.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyReportId)
	}

	if err := ValidateReportKind(report.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	if err := ValidateSubjectKind(report.Subject); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	if !ValidCoordinates(report.Location.Latitude, report.Location.Longitude) {
		return fmt.Errorf("%w: %w: lat=%v lon=%v", ErrInvalidReport, ErrInvalidCoordinates,
			report.Location.Latitude, report.Location.Longitude)
	}

	if !IsValidTimestamp(report.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateMatchRecord validates a MatchRecord according to domain rules.
//
// Validation rules:
//   - LostReportId and FoundReportId must be non-empty and distinct
//   - FusedScore must be in [0, 1]
//   - Status must be a known value
func ValidateMatchRecord(record *MatchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidMatchRecord)
	}

	if record.LostReportId == "" || record.FoundReportId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrEmptyReportId)
	}

	if record.LostReportId == record.FoundReportId {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrSelfMatch)
	}

	if record.FusedScore < 0 || record.FusedScore > 1 {
		return fmt.Errorf("%w: fused score %v outside [0,1]", ErrInvalidMatchRecord, record.FusedScore)
	}

	if err := ValidateMatchStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, err)
	}

	return nil
}

// ValidateReportKind validates that a ReportKind has a valid value.
func ValidateReportKind(kind ReportKind) error {
	if kind != ReportKindLost && kind != ReportKindFound {
		return fmt.Errorf("%w: value %d", ErrInvalidReportKind, kind)
	}
	return nil
}

// ValidateSubjectKind validates that a SubjectKind has a valid value.
func ValidateSubjectKind(kind SubjectKind) error {
	if kind != SubjectKindPerson && kind != SubjectKindItem {
		return fmt.Errorf("%w: value %d", ErrInvalidSubjectKind, kind)
	}
	return nil
}

// ValidateMatchStatus validates that a MatchStatus has a valid value.
func ValidateMatchStatus(status MatchStatus) error {
	switch status {
	case MatchStatusPending, MatchStatusConfirmedReunited, MatchStatusFalseMatch:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidMatchStatus, status)
	}
}

// ValidCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
