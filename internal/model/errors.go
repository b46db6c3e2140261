package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the input text is empty, whitespace-only,
// or not valid UTF-8. No collaborator is invoked in that case.
var ErrInvalidInput = errors.New("invalid input: text is empty or not analyzable")

// AnnotationError reports a failure of the external dependency annotator on
// one sentence. It aborts the whole batch.
type AnnotationError struct {
	Sentence string
	Err      error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("annotate %q: %v", e.Sentence, e.Err)
}

func (e *AnnotationError) Unwrap() error {
	return e.Err
}

// ClassifierError reports an ensemble member either failing outright or
// returning a malformed probability vector. Treated as fatal to the batch:
// silently averaging over fewer members would invisibly bias results.
type ClassifierError struct {
	Backend string
	Err     error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier %s: %v", e.Backend, e.Err)
}

func (e *ClassifierError) Unwrap() error {
	return e.Err
}
