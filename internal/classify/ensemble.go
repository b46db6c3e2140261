package classify

import (
	"context"
	"fmt"
	"sync"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Ensemble averages the probability vectors of N independently loaded
// classifier instances. N is whatever configuration provides, one or many;
// nothing here assumes a fixed count.
type Ensemble struct {
	members []Classifier
}

// NewEnsemble builds the ensemble from configuration. With the http backend
// each configured endpoint becomes one member; a single endpoint is shared
// by Size homogeneous instances.
func NewEnsemble(cfg *model.Config, limiter Limiter) (*Ensemble, error) {
	endpoints := cfg.Ensemble.Endpoints
	if len(endpoints) == 0 {
		size := cfg.Ensemble.Size
		if size <= 0 {
			size = 1
		}
		endpoints = make([]string, size)
		for i := range endpoints {
			endpoints[i] = cfg.Ensemble.Endpoint
		}
	}

	members := make([]Classifier, 0, len(endpoints))
	for _, ep := range endpoints {
		c, err := NewClassifier(cfg, ep, limiter)
		if err != nil {
			return nil, err
		}
		members = append(members, c)
	}

	return &Ensemble{members: members}, nil
}

// NewEnsembleFromMembers wraps pre-built classifiers (used by tests and by
// callers that manage their own instances).
func NewEnsembleFromMembers(members ...Classifier) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("ensemble requires at least one classifier")
	}
	return &Ensemble{members: members}, nil
}

// Size returns the number of ensemble members.
func (e *Ensemble) Size() int {
	return len(e.members)
}

// FactProbability queries every member concurrently, validates each vector,
// and returns the fact-class mass of the element-wise average. Any member
// failing, or returning a malformed distribution, is fatal: averaging over
// a silently shrunken ensemble would invisibly bias results.
func (e *Ensemble) FactProbability(ctx context.Context, sentence string) (float64, error) {
	probs := make([]model.ClassProbs, len(e.members))
	errs := make([]error, len(e.members))
	var wg sync.WaitGroup

	for i, member := range e.members {
		wg.Add(1)
		go func(idx int, c Classifier) {
			defer wg.Done()
			probs[idx], errs[idx] = c.Classify(ctx, sentence)
		}(i, member)
	}
	wg.Wait()

	var avg model.ClassProbs
	for i := range e.members {
		if errs[i] != nil {
			return 0, wrapClassifierErr(errs[i])
		}
		if !probs[i].Valid() {
			return 0, &model.ClassifierError{
				Backend: "ensemble",
				Err:     fmt.Errorf("member %d returned invalid distribution %v", i, probs[i]),
			}
		}
		avg[model.ClassNotFact] += probs[i][model.ClassNotFact]
		avg[model.ClassFact] += probs[i][model.ClassFact]
	}

	n := float64(len(e.members))
	avg[model.ClassNotFact] /= n
	avg[model.ClassFact] /= n

	return avg.Fact(), nil
}

func wrapClassifierErr(err error) error {
	if _, ok := err.(*model.ClassifierError); ok {
		return err
	}
	return &model.ClassifierError{Backend: "ensemble", Err: err}
}
