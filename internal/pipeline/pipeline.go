package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/annotate"
	"github.com/zw021029/know-more-about-our-futures/internal/cache"
	"github.com/zw021029/know-more-about-our-futures/internal/classify"
	"github.com/zw021029/know-more-about-our-futures/internal/fuse"
	"github.com/zw021029/know-more-about-our-futures/internal/model"
	"github.com/zw021029/know-more-about-our-futures/internal/score"
	"github.com/zw021029/know-more-about-our-futures/internal/segment"
	"github.com/zw021029/know-more-about-our-futures/internal/worker"
)

// Pipeline orchestrates the complete analysis: segment the text, score every
// sentence concurrently, fuse signals, and reassemble results in input order.
type Pipeline struct {
	segmenter  *segment.Segmenter
	ruleScorer *score.RuleScorer
	ensemble   *classify.Ensemble
	renderer   *Renderer
	weight     float64
	workers    int
}

// NewPipeline wires the pipeline from configuration: rate limiter, cached
// annotator, rule scorer, classifier ensemble.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	annotator, err := annotate.NewAnnotator(cfg, limiter)
	if err != nil {
		return nil, fmt.Errorf("create annotator: %w", err)
	}
	if c := cache.New(cfg.Cache); c != nil {
		annotator = annotate.NewCachedAnnotator(annotator, c)
	}

	ensemble, err := classify.NewEnsemble(cfg, limiter)
	if err != nil {
		return nil, fmt.Errorf("create ensemble: %w", err)
	}

	return &Pipeline{
		segmenter:  segment.NewSegmenter(),
		ruleScorer: score.NewRuleScorer(score.NewLexicon(cfg.Lexicon), annotator),
		ensemble:   ensemble,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		weight:     cfg.Fusion.Weight,
		workers:    cfg.Concurrency.Workers,
	}, nil
}

// NewPipelineFromParts builds a pipeline from pre-built collaborators
// (used by tests).
func NewPipelineFromParts(ruleScorer *score.RuleScorer, ensemble *classify.Ensemble, weight float64, workers int) *Pipeline {
	return &Pipeline{
		segmenter:  segment.NewSegmenter(),
		ruleScorer: ruleScorer,
		ensemble:   ensemble,
		renderer:   NewRenderer(true),
		weight:     weight,
		workers:    workers,
	}
}

// sentenceJob scores one sentence at a fixed position.
type sentenceJob struct {
	pos      int
	sentence string
	p        *Pipeline
}

func (j *sentenceJob) Pos() int { return j.pos }

func (j *sentenceJob) Execute(ctx context.Context) worker.Result {
	scored, err := j.p.scoreSentence(ctx, j.pos, j.sentence)
	return &sentenceResult{pos: j.pos, scored: scored, err: err}
}

type sentenceResult struct {
	pos    int
	scored model.ScoredSentence
	err    error
}

func (r *sentenceResult) Pos() int   { return r.pos }
func (r *sentenceResult) Err() error { return r.err }

// scoreSentence runs the per-sentence task: rule score plus ensemble
// probability, fused into the adjusted probability.
func (p *Pipeline) scoreSentence(ctx context.Context, pos int, sentence string) (model.ScoredSentence, error) {
	logicScore, err := p.ruleScorer.Score(ctx, sentence)
	if err != nil {
		return model.ScoredSentence{}, err
	}

	ensembleProb, err := p.ensemble.FactProbability(ctx, sentence)
	if err != nil {
		return model.ScoredSentence{}, err
	}

	return model.ScoredSentence{
		Index:        pos,
		Text:         sentence,
		LogicScore:   logicScore,
		EnsembleProb: ensembleProb,
		AdjustedProb: fuse.Fuse(ensembleProb, logicScore, p.weight),
	}, nil
}

// AnalyzeText analyzes one document. Sentences are scored in parallel; the
// output order always equals segmentation order, restored from the position
// tag each job carries. On any task failure the whole batch is aborted and
// no partial results are returned.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (*model.Report, error) {
	sentences, err := p.segmenter.Segment(text)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPoolWithContext(ctx, p.workers)
	pool.Start()

	for i, sentence := range sentences {
		pool.Submit(&sentenceJob{pos: i, sentence: sentence, p: p})
	}

	results := pool.Wait()

	// Cancellation can stop the pool before every sentence was scored.
	if len(results) != len(sentences) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis interrupted: %w", err)
		}
		return nil, fmt.Errorf("scored %d of %d sentences", len(results), len(sentences))
	}

	scored := make([]model.ScoredSentence, len(sentences))
	for _, result := range results {
		r := result.(*sentenceResult)
		if r.err != nil {
			return nil, fmt.Errorf("score sentence %d: %w", r.pos, r.err)
		}
		scored[r.pos] = r.scored
	}

	return &model.Report{
		AnalyzedAt: time.Now().UTC(),
		Sentences:  scored,
		Summary:    model.Summarize(scored),
	}, nil
}
