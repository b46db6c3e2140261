package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/classify"
	"github.com/zw021029/know-more-about-our-futures/internal/model"
	"github.com/zw021029/know-more-about-our-futures/internal/score"
)

// stubAnnotator returns canned annotations and counts invocations.
type stubAnnotator struct {
	words map[string][]model.AnnotatedWord
	err   error
	calls int32
}

func (a *stubAnnotator) Annotate(ctx context.Context, sentence string) ([]model.AnnotatedWord, error) {
	atomic.AddInt32(&a.calls, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.words[sentence], nil
}

// stubClassifier returns a fixed fact probability per sentence, sleeping a
// random few milliseconds so tasks finish out of submission order.
type stubClassifier struct {
	factProb map[string]float64
	fallback float64
	err      error
	jitter   bool
	calls    int32
}

func (c *stubClassifier) Classify(ctx context.Context, sentence string) (model.ClassProbs, error) {
	atomic.AddInt32(&c.calls, 1)
	if err := ctx.Err(); err != nil {
		return model.ClassProbs{}, err
	}
	if c.err != nil {
		return model.ClassProbs{}, c.err
	}
	if c.jitter {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}
	p, ok := c.factProb[sentence]
	if !ok {
		p = c.fallback
	}
	return model.ClassProbs{1 - p, p}, nil
}

func testPipeline(annotator *stubAnnotator, classifier classify.Classifier, weight float64) *Pipeline {
	lexicon := score.NewLexicon(model.LexiconConfig{
		OpinionCues:   []string{"觉得", "可能"},
		FactCues:      []string{"根据", "数据显示"},
		DegreeAdverbs: []string{"很", "非常"},
	})
	ensemble, _ := classify.NewEnsembleFromMembers(classifier)
	return NewPipelineFromParts(score.NewRuleScorer(lexicon, annotator), ensemble, weight, 4)
}

func TestPipeline_AnalyzeText_OrderPreserved(t *testing.T) {
	text := "第一句话。重复的话。第三句话。重复的话。第五句话。"
	want := []string{"第一句话。", "重复的话。", "第三句话。", "重复的话。", "第五句话。"}

	annotator := &stubAnnotator{}
	classifier := &stubClassifier{fallback: 0.5, jitter: true}
	p := testPipeline(annotator, classifier, 0.1)

	// Repeat to give out-of-order completion a chance to surface bugs.
	for run := 0; run < 5; run++ {
		report, err := p.AnalyzeText(context.Background(), text)
		if err != nil {
			t.Fatalf("AnalyzeText failed: %v", err)
		}
		if len(report.Sentences) != len(want) {
			t.Fatalf("expected %d sentences, got %d", len(want), len(report.Sentences))
		}
		for i, s := range report.Sentences {
			if s.Text != want[i] {
				t.Errorf("run %d position %d: expected %q, got %q", run, i, want[i], s.Text)
			}
			if s.Index != i {
				t.Errorf("run %d position %d: index %d", run, i, s.Index)
			}
		}
	}
}

func TestPipeline_AnalyzeText_ManySentencesOrderPreserved(t *testing.T) {
	// Far more sentences than workers: the dispatcher must keep draining
	// while it submits, and order must still match segmentation order.
	count := 60
	want := make([]string, count)
	var text strings.Builder
	for i := 0; i < count; i++ {
		s := fmt.Sprintf("这是第%d句。", i+1)
		want[i] = s
		text.WriteString(s)
	}

	annotator := &stubAnnotator{}
	classifier := &stubClassifier{fallback: 0.5, jitter: true}
	p := testPipeline(annotator, classifier, 0.1)

	type outcome struct {
		report *model.Report
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		report, err := p.AnalyzeText(context.Background(), text.String())
		done <- outcome{report, err}
	}()

	var got outcome
	select {
	case got = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("analysis stalled with more sentences than workers")
	}
	if got.err != nil {
		t.Fatalf("AnalyzeText failed: %v", got.err)
	}
	if len(got.report.Sentences) != count {
		t.Fatalf("expected %d sentences, got %d", count, len(got.report.Sentences))
	}
	for i, s := range got.report.Sentences {
		if s.Text != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], s.Text)
		}
		if s.Index != i {
			t.Errorf("position %d: index %d", i, s.Index)
		}
	}
}

func TestPipeline_AnalyzeText_CancelledContext(t *testing.T) {
	annotator := &stubAnnotator{}
	classifier := &stubClassifier{fallback: 0.5}
	p := testPipeline(annotator, classifier, 0.1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.AnalyzeText(ctx, "第一句。第二句。第三句。")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if report != nil {
		t.Error("no partial results after cancellation")
	}
}

func TestPipeline_AnalyzeText_FactSentenceRaisesProbability(t *testing.T) {
	// Contains a fact cue and objective referents: adjusted must not fall
	// below the raw ensemble probability.
	sentence := "根据最新的数据，他们的市场份额正在扩大。"
	annotator := &stubAnnotator{words: map[string][]model.AnnotatedWord{
		sentence: {
			{Text: "数据", POS: "NOUN", DepRel: "obj"},
			{Text: "份额", POS: "NOUN", DepRel: "nsubj"},
			{Text: "扩大", POS: "VERB", DepRel: "root"},
		},
	}}
	classifier := &stubClassifier{fallback: 0.6}
	p := testPipeline(annotator, classifier, 0.1)

	report, err := p.AnalyzeText(context.Background(), sentence)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	s := report.Sentences[0]
	if s.LogicScore < 1 {
		t.Errorf("expected logic score >= 1, got %v", s.LogicScore)
	}
	if s.AdjustedProb < s.EnsembleProb {
		t.Errorf("adjusted %v fell below ensemble %v", s.AdjustedProb, s.EnsembleProb)
	}
}

func TestPipeline_AnalyzeText_OpinionSentenceLowersProbability(t *testing.T) {
	sentence := "我觉得这个产品很棒。"
	annotator := &stubAnnotator{words: map[string][]model.AnnotatedWord{
		sentence: {
			{Text: "觉得", POS: "VERB", DepRel: "root"},
			{Text: "产品", POS: "NOUN", DepRel: "nsubj"},
			{Text: "很", POS: "ADV", DepRel: "advmod"},
			{Text: "棒", POS: "ADJ", DepRel: "ccomp"},
		},
	}}
	classifier := &stubClassifier{fallback: 0.6}
	p := testPipeline(annotator, classifier, 0.1)

	report, err := p.AnalyzeText(context.Background(), sentence)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	s := report.Sentences[0]
	if s.LogicScore > -1.5 {
		t.Errorf("expected logic score <= -1.5, got %v", s.LogicScore)
	}
	if s.AdjustedProb > s.EnsembleProb {
		t.Errorf("adjusted %v rose above ensemble %v", s.AdjustedProb, s.EnsembleProb)
	}
}

func TestPipeline_AnalyzeText_EmptyInput(t *testing.T) {
	annotator := &stubAnnotator{}
	classifier := &stubClassifier{fallback: 0.5}
	p := testPipeline(annotator, classifier, 0.1)

	_, err := p.AnalyzeText(context.Background(), "   ")
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if atomic.LoadInt32(&annotator.calls) != 0 {
		t.Error("annotator must not be invoked for invalid input")
	}
	if atomic.LoadInt32(&classifier.calls) != 0 {
		t.Error("classifier must not be invoked for invalid input")
	}
}

func TestPipeline_AnalyzeText_AnnotatorFailureAbortsBatch(t *testing.T) {
	annotator := &stubAnnotator{err: errors.New("parser crashed")}
	classifier := &stubClassifier{fallback: 0.5}
	p := testPipeline(annotator, classifier, 0.1)

	report, err := p.AnalyzeText(context.Background(), "第一句。第二句。第三句。")
	if err == nil {
		t.Fatal("expected error when annotator fails")
	}
	if report != nil {
		t.Error("no partial results on batch failure")
	}
}

func TestPipeline_AnalyzeText_ClassifierFailureAbortsBatch(t *testing.T) {
	annotator := &stubAnnotator{}
	classifier := &stubClassifier{err: errors.New("model server down")}
	p := testPipeline(annotator, classifier, 0.1)

	report, err := p.AnalyzeText(context.Background(), "第一句。第二句。")
	if err == nil {
		t.Fatal("expected error when classifier fails")
	}
	if report != nil {
		t.Error("no partial results on batch failure")
	}
	var cerr *model.ClassifierError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ClassifierError, got %T: %v", err, err)
	}
}

func TestPipeline_AnalyzeText_AdjustedAlwaysBounded(t *testing.T) {
	sentence := "根据数据显示市场份额扩大。"
	annotator := &stubAnnotator{words: map[string][]model.AnnotatedWord{
		sentence: {
			{Text: "份额", POS: "NOUN", DepRel: "nsubj"},
			{Text: "数据", POS: "NOUN", DepRel: "obj"},
		},
	}}
	classifier := &stubClassifier{fallback: 0.95}
	// A heavy weight pushes the raw sum past 1; the result must clamp.
	p := testPipeline(annotator, classifier, 5)

	report, err := p.AnalyzeText(context.Background(), sentence)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	s := report.Sentences[0]
	if s.AdjustedProb < 0 || s.AdjustedProb > 1 {
		t.Errorf("adjusted probability %v out of [0,1]", s.AdjustedProb)
	}
	if s.AdjustedProb != 1 {
		t.Errorf("expected clamp at 1, got %v", s.AdjustedProb)
	}
}
