package annotate

import (
	"context"
	"fmt"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Annotator is the narrow interface over the external dependency-parsing
// engine. One call per sentence; implementations must be safe for concurrent
// invocation, since scoring tasks run in parallel.
type Annotator interface {
	// Annotate returns one AnnotatedWord per token of the sentence.
	Annotate(ctx context.Context, sentence string) ([]model.AnnotatedWord, error)
}

// NewAnnotator creates an annotator from configuration.
func NewAnnotator(cfg *model.Config, limiter Limiter) (Annotator, error) {
	backend := strings.ToLower(cfg.Annotator.Backend)

	switch backend {
	case "http", "":
		return newHTTPAnnotator(cfg.Annotator, cfg.Proxy, limiter), nil
	default:
		return nil, fmt.Errorf("unknown annotator backend: %s (supported: http)", backend)
	}
}

// Limiter throttles calls to a remote endpoint. Satisfied by worker.Limiter.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}
