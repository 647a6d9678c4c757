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

package freshness

import "errors"

var (
	// ErrRepositoryRequired indicates a nil freshness repository was
	// passed to NewTracker.
	ErrRepositoryRequired = errors.New("freshness repository is required")

	// ErrInvalidThresholds indicates a coverage threshold outside (0, 1].
	ErrInvalidThresholds = errors.New("coverage thresholds must be in (0, 1]")
)
