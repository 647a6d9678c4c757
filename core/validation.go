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

import "fmt"

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Normalized token sequence must not be empty
//
// NOT validated:
//   - Scope (an empty scope means an unscoped query)
func ValidateQuery(q Query) error {
	if len(q.Tokens) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQuery)
	}
	return nil
}

// ValidateRouteDecision validates a RouteDecision according to domain rules.
//
// Validation rules:
//   - Bucket set must be non-empty
//   - Bucket set must not contain duplicates
//   - Every bucket must be a valid StrategyKind
func ValidateRouteDecision(d RouteDecision) error {
	if len(d.Buckets) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRouteDecision, ErrNoBuckets)
	}

	seen := make(map[StrategyKind]bool, len(d.Buckets))
	for _, bucket := range d.Buckets {
		if err := ValidateStrategyKind(bucket); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRouteDecision, err)
		}
		if seen[bucket] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidRouteDecision, ErrDuplicateBucket, bucket)
		}
		seen[bucket] = true
	}

	return nil
}

// ValidateStrategyKind validates that a StrategyKind has a valid value.
func ValidateStrategyKind(kind StrategyKind) error {
	if kind != StrategyExact && kind != StrategyLemma && kind != StrategySemantic {
		return fmt.Errorf("%w: value %d", ErrInvalidStrategyKind, kind)
	}
	return nil
}

// ValidateFreshnessRecord validates a FreshnessRecord according to domain rules.
//
// Validation rules:
//   - OwnerID must not be empty
//   - EmbeddedChunks and GraphLinkedChunks must not exceed TotalChunks
func ValidateFreshnessRecord(record *FreshnessRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidFreshnessRecord)
	}

	if record.OwnerID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFreshnessRecord, ErrEmptyOwner)
	}

	if record.EmbeddedChunks > record.TotalChunks {
		return fmt.Errorf("%w: %w: embedded %d > total %d",
			ErrInvalidFreshnessRecord, ErrCounterOverflow, record.EmbeddedChunks, record.TotalChunks)
	}

	if record.GraphLinkedChunks > record.TotalChunks {
		return fmt.Errorf("%w: %w: graph-linked %d > total %d",
			ErrInvalidFreshnessRecord, ErrCounterOverflow, record.GraphLinkedChunks, record.TotalChunks)
	}

	return nil
}
