package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/librarian/core"
)

// Key prefixes for different data types
const (
	freshnessPrefix = "fresh"
	itemPrefix      = "itemrec"
	itemOwnerPrefix = "itemown"
)

// makeFreshnessKey generates a key for a freshness record.
// Format: prefix:owner:id
func makeFreshnessKey(ownerID string, itemID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", freshnessPrefix, ownerID, itemID))
}

// makeItemKey generates a key for an item entry by ID.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemPrefix, id))
}

// makeItemOwnerKey generates a composite key for the owner index.
// Format: prefix:owner:id
func makeItemOwnerKey(ownerID string, id core.ID) []byte {
	prefix := makePartialItemOwnerKey(ownerID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialItemOwnerKey generates a partial key for owner scans.
// Format: prefix:owner:
func makePartialItemOwnerKey(ownerID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", itemOwnerPrefix, ownerID))
}
