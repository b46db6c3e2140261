// Package classify provides the sentence classifier ensemble. Members are
// external trained models consumed as black boxes over a narrow interface;
// training, loading and versioning happen elsewhere.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Classifier maps a sentence to a two-class probability distribution
// (not-fact, fact). Implementations must be deterministic for a fixed
// sentence and model state, and safe for concurrent invocation: scoring
// tasks call them in parallel with no locking. That is a hard precondition
// on the backing model server.
type Classifier interface {
	Classify(ctx context.Context, sentence string) (model.ClassProbs, error)
}

// Limiter throttles calls to a remote endpoint. Satisfied by worker.Limiter.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// NewClassifier creates a single classifier instance from configuration.
func NewClassifier(cfg *model.Config, endpoint string, limiter Limiter) (Classifier, error) {
	backend := strings.ToLower(cfg.Ensemble.Backend)

	switch backend {
	case "http", "":
		return newHTTPClassifier(cfg.Ensemble, endpoint, cfg.Proxy, limiter), nil
	case "openai":
		return newOpenAIClassifier(cfg.Ensemble, limiter)
	default:
		return nil, fmt.Errorf("unknown classifier backend: %s (supported: http, openai)", backend)
	}
}
