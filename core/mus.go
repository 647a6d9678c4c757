package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted types. Written by hand against the mus-go
// primitive serializers; keep field order in sync with the struct
// definitions, existing databases depend on it. Timestamps round-trip
// in UTC.

var (
	// IDMUS serializes ID values.
	IDMUS = idMUS{}
	// FreshnessRecordMUS serializes FreshnessRecord values.
	FreshnessRecordMUS = freshnessRecordMUS{}
	// ItemEntryMUS serializes ItemEntry values.
	ItemEntryMUS = itemEntryMUS{}
)

var (
	_ mus.Serializer[ID]              = IDMUS
	_ mus.Serializer[FreshnessRecord] = FreshnessRecordMUS
	_ mus.Serializer[ItemEntry]       = ItemEntryMUS
)

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type freshnessRecordMUS struct{}

func (freshnessRecordMUS) Marshal(r FreshnessRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.OwnerID, bs)
	n += IDMUS.Marshal(r.ItemID, bs[n:])
	n += varint.Uint64.Marshal(r.TotalChunks, bs[n:])
	n += varint.Uint64.Marshal(r.EmbeddedChunks, bs[n:])
	n += varint.Uint64.Marshal(r.GraphLinkedChunks, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(r.UpdatedAt, bs[n:])
	return n
}

func (freshnessRecordMUS) Unmarshal(bs []byte) (r FreshnessRecord, n int, err error) {
	var n1 int
	if r.OwnerID, n, err = ord.String.Unmarshal(bs); err != nil {
		return r, n, err
	}
	if r.ItemID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.TotalChunks, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.EmbeddedChunks, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.GraphLinkedChunks, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	r.UpdatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	return r, n + n1, err
}

func (freshnessRecordMUS) Size(r FreshnessRecord) (size int) {
	size = ord.String.Size(r.OwnerID)
	size += IDMUS.Size(r.ItemID)
	size += varint.Uint64.Size(r.TotalChunks)
	size += varint.Uint64.Size(r.EmbeddedChunks)
	size += varint.Uint64.Size(r.GraphLinkedChunks)
	size += raw.TimeUnixMicroUTC.Size(r.UpdatedAt)
	return size
}

func (freshnessRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return n, err
	}
	for i := 0; i < 4; i++ {
		if n1, err = varint.Uint64.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	return n + n1, err
}

type itemEntryMUS struct{}

func (itemEntryMUS) Marshal(e ItemEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(e.Id, bs)
	n += ord.String.Marshal(e.OwnerID, bs[n:])
	n += ord.String.Marshal(e.Title, bs[n:])
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(e.InsertedAt, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(e.UpdatedAt, bs[n:])
	return n
}

func (itemEntryMUS) Unmarshal(bs []byte) (e ItemEntry, n int, err error) {
	var n1 int
	if e.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return e, n, err
	}
	if e.OwnerID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.InsertedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	e.UpdatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	return e, n + n1, err
}

func (itemEntryMUS) Size(e ItemEntry) (size int) {
	size = IDMUS.Size(e.Id)
	size += ord.String.Size(e.OwnerID)
	size += ord.String.Size(e.Title)
	size += vectorMUS.Size(e.Vector)
	size += raw.TimeUnixMicroUTC.Size(e.InsertedAt)
	size += raw.TimeUnixMicroUTC.Size(e.UpdatedAt)
	return size
}

func (itemEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return n, err
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	return n + n1, err
}
