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

package search

import "errors"

var (
	// ErrNoStrategies indicates the orchestrator was created without
	// any strategies.
	ErrNoStrategies = errors.New("at least one strategy is required")

	// ErrNilStrategy indicates a nil strategy was passed in.
	ErrNilStrategy = errors.New("strategy cannot be nil")

	// ErrDuplicateStrategy indicates two strategies registered the
	// same kind.
	ErrDuplicateStrategy = errors.New("duplicate strategy kind")

	// ErrNoAdapter indicates the route decision selected a strategy
	// kind with no registered adapter.
	ErrNoAdapter = errors.New("no adapter registered for strategy kind")

	// ErrInvalidTimeout indicates a non-positive strategy timeout.
	ErrInvalidTimeout = errors.New("strategy timeout must be positive")

	// ErrAllStrategiesFailed indicates every selected strategy failed
	// or timed out.
	ErrAllStrategiesFailed = errors.New("all strategies failed")
)
