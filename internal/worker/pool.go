package worker

import (
	"context"
	"sync"
)

// Job is a unit of work tagged with its submission position. The position is
// assigned at enqueue time and travels with the result, so the caller can
// restore submission order no matter when each job completes. Reassembly
// never searches by payload value: identical payloads are ambiguous.
type Job interface {
	// Pos returns the submission index of the job.
	Pos() int
	// Execute runs the job and returns its result.
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	// Pos returns the submission index of the originating job.
	Pos() int
	// Err returns the job's error, if any.
	Err() error
}

// Pool runs jobs concurrently on a bounded set of workers. Finished results
// accumulate in a collector rather than a bounded channel, so workers never
// stall on an undrained output and Submit stays live for any batch size.
type Pool struct {
	workers    int
	jobQueue   chan Job
	collector  *ResultCollector
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a pool whose jobs run under a context derived
// from ctx. Cancelling ctx aborts queued and in-flight work.
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2), // Buffered to prevent blocking
		collector:  NewResultCollector(),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.collector.Add(job.Execute(p.ctx))
		}
	}
}

// Submit enqueues a job for execution.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for all jobs to finish, and returns every
// result in completion order. Callers reorder by Pos. If the pool's context
// was cancelled, results may cover fewer jobs than were submitted.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.cancelFunc()

	return p.collector.Results()
}

// Shutdown cancels outstanding work and stops the workers.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

// ResultCollector accumulates results as they arrive.
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{
		results: make([]Result, 0),
	}
}

// Add appends a result. Safe for concurrent use.
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns all collected results.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
