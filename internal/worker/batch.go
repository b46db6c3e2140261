package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Analyzer analyzes one document. Satisfied by pipeline.Pipeline.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (*model.Report, error)
}

// DocJob analyzes one document at a fixed batch position.
type DocJob struct {
	Position int
	Text     string
	Source   string
	Analyzer Analyzer
}

// Pos returns the submission index of the job.
func (j *DocJob) Pos() int { return j.Position }

// Execute runs the analysis.
func (j *DocJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeText(ctx, j.Text)
	if report != nil {
		report.Source = j.Source
	}
	return &DocResult{Position: j.Position, Source: j.Source, Report: report, Error: err}
}

// DocResult is the outcome of analyzing one document.
type DocResult struct {
	Position int
	Source   string
	Report   *model.Report
	Error    error
}

// Pos returns the submission index of the originating job.
func (r *DocResult) Pos() int { return r.Position }

// Err returns the job's error, if any.
func (r *DocResult) Err() error { return r.Error }

// BatchProcessor analyzes multiple documents concurrently.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessDocuments analyzes the documents concurrently and returns results
// in input order.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []string) []*DocResult {
	if len(docs) == 0 {
		return []*DocResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, doc := range docs {
		pool.Submit(&DocJob{
			Position: i,
			Text:     doc,
			Source:   fmt.Sprintf("doc %d", i+1),
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	ordered := make([]*DocResult, len(docs))
	for _, result := range results {
		ordered[result.Pos()] = result.(*DocResult)
	}

	// Positions the pool never reached report the cancellation instead of
	// leaving nil holes.
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &DocResult{
				Position: i,
				Source:   fmt.Sprintf("doc %d", i+1),
				Error:    err,
			}
		}
	}

	return ordered
}

// ProcessFile reads documents from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*DocResult, error) {
	docs, err := ReadDocumentsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}

	return b.ProcessDocuments(ctx, docs), nil
}

// ReadDocumentsFromFile reads documents from a file. Documents are separated
// by blank lines; lines starting with # are comments. Unlike URLs in a
// crawl list, duplicate documents are legitimate input and are kept.
func ReadDocumentsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var docs []string
	var current strings.Builder

	flush := func() {
		doc := strings.TrimSpace(current.String())
		if doc != "" {
			docs = append(docs, doc)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return docs, nil
}
