package local

import "errors"

var (
	// ErrItemIndexRequired is returned when an item index is not provided.
	ErrItemIndexRequired = errors.New("item index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
