package annotate

import (
	"context"
	"encoding/json"

	"github.com/zw021029/know-more-about-our-futures/internal/cache"
	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// CachedAnnotator memoizes annotation results keyed by sentence text.
// Identical sentences recur across documents (boilerplate, quoted headlines),
// and a parse is far more expensive than a cache lookup.
type CachedAnnotator struct {
	inner Annotator
	cache cache.Cache
}

// NewCachedAnnotator wraps an annotator with a cache layer.
func NewCachedAnnotator(inner Annotator, c cache.Cache) *CachedAnnotator {
	return &CachedAnnotator{inner: inner, cache: c}
}

// Annotate returns the cached parse when available, otherwise delegates and
// stores the result. Cache write failures are ignored: a cold cache only
// costs another parse.
func (a *CachedAnnotator) Annotate(ctx context.Context, sentence string) ([]model.AnnotatedWord, error) {
	key := cache.Key("annotate", sentence)

	if data, found := a.cache.Get(key); found {
		var words []model.AnnotatedWord
		if err := json.Unmarshal(data, &words); err == nil {
			return words, nil
		}
		// Corrupt entry: drop it and re-annotate.
		_ = a.cache.Delete(key)
	}

	words, err := a.inner.Annotate(ctx, sentence)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(words); err == nil {
		_ = a.cache.Set(key, data, 0)
	}

	return words, nil
}
