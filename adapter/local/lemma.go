package local

import (
	"context"
	"slices"
	"strings"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
)

// LemmaStrategy matches on reduced word base forms: tokens are stripped of
// common inflection suffixes before comparison, so "kitaplar" matches
// "kitap" and "meanings" matches "meaning".
type LemmaStrategy struct {
	index storage.ItemIndex
}

var _ adapter.Strategy = (*LemmaStrategy)(nil)

// NewLemma creates a lemma-match strategy over the local item index.
func NewLemma(index storage.ItemIndex) (*LemmaStrategy, error) {
	if index == nil {
		return nil, ErrItemIndexRequired
	}
	return &LemmaStrategy{index: index}, nil
}

// Kind returns core.StrategyLemma.
func (s *LemmaStrategy) Kind() core.StrategyKind {
	return core.StrategyLemma
}

// Search scores items by the fraction of query lemmas found among the
// title's lemmas. Items with no overlap are excluded.
func (s *LemmaStrategy) Search(ctx context.Context, query core.Query) ([]core.ScoredItem, error) {
	queryLemmas := lemmatize(query.Tokens)
	if len(queryLemmas) == 0 {
		return nil, nil
	}

	entries, err := scopedEntries(ctx, s.index, query.Scope)
	if err != nil {
		return nil, err
	}

	var results []core.ScoredItem
	for _, entry := range entries {
		titleLemmas := make(map[string]bool)
		for _, lemma := range lemmatize(core.Tokenize(entry.Title)) {
			titleLemmas[lemma] = true
		}

		matched := 0
		for _, lemma := range queryLemmas {
			if titleLemmas[lemma] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		results = append(results, core.ScoredItem{
			Item:  entry.Id,
			Score: float32(matched) / float32(len(queryLemmas)),
		})
	}

	// Sort by score descending, ties by ID for determinism
	slices.SortFunc(results, func(a, b core.ScoredItem) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Item < b.Item {
			return -1
		}
		if a.Item > b.Item {
			return 1
		}
		return 0
	})

	return results, nil
}

// inflection suffixes stripped during lemmatization, longest first
var lemmaSuffixes = []string{
	"lerin", "ların", "lerde", "larda",
	"ings", "ler", "lar", "ing", "ies",
	"es", "ed", "s", "i", "ı",
}

// lemmatize reduces tokens to crude base forms by stripping one known
// inflection suffix. Good enough for the local reference adapter; real
// deployments put a proper lemmatizer behind the Strategy interface.
func lemmatize(tokens []string) []string {
	lemmas := make([]string, 0, len(tokens))
	for _, token := range tokens {
		lemmas = append(lemmas, stem(token))
	}
	return lemmas
}

func stem(token string) string {
	for _, suffix := range lemmaSuffixes {
		if strings.HasSuffix(token, suffix) && len(token) > len(suffix)+2 {
			return strings.TrimSuffix(token, suffix)
		}
	}
	return token
}
