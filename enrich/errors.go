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


package enrich

import "errors"

var (
	// ErrTrackerRequired indicates a nil freshness tracker was passed
	// to NewTrigger.
	ErrTrackerRequired = errors.New("freshness tracker is required")

	// ErrEnricherRequired indicates a nil enricher was passed to
	// NewTrigger.
	ErrEnricherRequired = errors.New("enricher is required")

	// ErrBucketRequired indicates a nil token bucket.
	ErrBucketRequired = errors.New("token bucket cannot be nil")

	// ErrInvalidRate indicates a non-positive refill rate.
	ErrInvalidRate = errors.New("rate per minute must be positive")

	// ErrInvalidMaxItems indicates a non-positive per-trigger cap.
	ErrInvalidMaxItems = errors.New("max items must be positive")

	// ErrInvalidTimeout indicates a non-positive job timeout.
	ErrInvalidTimeout = errors.New("job timeout must be positive")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
