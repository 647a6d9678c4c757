package local

import (
	"context"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/embed"
	"github.com/poiesic/librarian/storage"
)

const (
	defaultMinSimilarity = 0.60
	defaultMaxHits       = 20
)

// SemanticStrategy matches on embedding similarity: the query is embedded
// and compared against stored item vectors.
type SemanticStrategy struct {
	index         storage.ItemIndex
	embedder      embed.Embedder
	minSimilarity float32
	maxHits       int
}

var _ adapter.Strategy = (*SemanticStrategy)(nil)

// SemanticOption configures a SemanticStrategy.
type SemanticOption func(*SemanticStrategy)

// WithMinSimilarity sets the similarity threshold below which matches are
// discarded. Default is 0.60.
func WithMinSimilarity(min float32) SemanticOption {
	return func(s *SemanticStrategy) {
		s.minSimilarity = min
	}
}

// WithMaxHits caps the number of results. Default is 20.
func WithMaxHits(n int) SemanticOption {
	return func(s *SemanticStrategy) {
		if n > 0 {
			s.maxHits = n
		}
	}
}

// NewSemantic creates a semantic strategy over the local item index.
func NewSemantic(index storage.ItemIndex, embedder embed.Embedder, opts ...SemanticOption) (*SemanticStrategy, error) {
	if index == nil {
		return nil, ErrItemIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &SemanticStrategy{
		index:         index,
		embedder:      embedder,
		minSimilarity: defaultMinSimilarity,
		maxHits:       defaultMaxHits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Kind returns core.StrategySemantic.
func (s *SemanticStrategy) Kind() core.StrategyKind {
	return core.StrategySemantic
}

// Search embeds the query and returns similar items from the owner's
// library.
func (s *SemanticStrategy) Search(ctx context.Context, query core.Query) ([]core.ScoredItem, error) {
	vector, err := s.embedder.EmbedText(ctx, query.Raw)
	if err != nil {
		return nil, err
	}

	results, err := s.index.FindSimilar(ctx, query.Scope.OwnerID, embed.Normalize(vector), s.minSimilarity, s.maxHits)
	if err != nil {
		return nil, err
	}

	if query.Scope.ItemID != 0 {
		scoped := results[:0]
		for _, result := range results {
			if result.Item == query.Scope.ItemID {
				scoped = append(scoped, result)
			}
		}
		results = scoped
	}
	return results, nil
}
