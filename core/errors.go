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
	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyQuery indicates the query text is empty after normalization.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidRouteDecision indicates a RouteDecision failed validation.
	ErrInvalidRouteDecision = errors.New("invalid route decision")

	// ErrNoBuckets indicates a RouteDecision with an empty bucket set.
	ErrNoBuckets = errors.New("route decision has no buckets")

	// ErrDuplicateBucket indicates a RouteDecision listing a strategy twice.
	ErrDuplicateBucket = errors.New("route decision has duplicate buckets")

	// ErrInvalidStrategyKind indicates an invalid StrategyKind value.
	ErrInvalidStrategyKind = errors.New("invalid strategy kind")

	// ErrInvalidFreshnessRecord indicates a FreshnessRecord failed validation.
	ErrInvalidFreshnessRecord = errors.New("invalid freshness record")

	// ErrCounterOverflow indicates a derived-index counter exceeding TotalChunks.
	ErrCounterOverflow = errors.New("index counter exceeds total chunks")

	// ErrEmptyOwner indicates a missing owner identifier.
	ErrEmptyOwner = errors.New("owner id cannot be empty")
)
