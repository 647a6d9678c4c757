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

import (
	"github.com/poiesic/librarian/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalFreshnessRecord serializes a FreshnessRecord to bytes.
func MarshalFreshnessRecord(record *core.FreshnessRecord) []byte {
	buf := make([]byte, core.FreshnessRecordMUS.Size(*record))
	core.FreshnessRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalFreshnessRecord deserializes a FreshnessRecord from bytes.
func UnmarshalFreshnessRecord(data []byte) (*core.FreshnessRecord, error) {
	record, _, err := core.FreshnessRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalItemEntry serializes an ItemEntry to bytes.
func MarshalItemEntry(entry *core.ItemEntry) []byte {
	buf := make([]byte, core.ItemEntryMUS.Size(*entry))
	core.ItemEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalItemEntry deserializes an ItemEntry from bytes.
func UnmarshalItemEntry(data []byte) (*core.ItemEntry, error) {
	entry, _, err := core.ItemEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
