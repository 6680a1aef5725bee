package translator

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nohbdy/rsxfrag/insts"
)

// Job is one program queued for batch translation.
type Job struct {
	Program []byte
	Control insts.ProgramControl
}

// JobResult pairs a job's result with its position in the batch.
type JobResult struct {
	Index  int
	Result *Result
	Err    error
}

// Pool translates batches of programs across a fixed set of workers.
// Translations share nothing, so the pool is just a fan-out shell around
// Translate.
type Pool struct {
	NumWorkers int

	progress io.Writer

	completed atomic.Int64
	failed    atomic.Int64
}

// PoolOption is a functional option for configuring a Pool.
type PoolOption func(*Pool)

// WithProgress makes the pool report each completed job to w.
func WithProgress(w io.Writer) PoolOption {
	return func(p *Pool) {
		p.progress = w
	}
}

// NewPool creates a pool with the given number of workers. Zero or
// negative means one worker per CPU.
func NewPool(numWorkers int, opts ...PoolOption) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	p := &Pool{NumWorkers: numWorkers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats returns how many jobs completed and how many of those failed.
func (p *Pool) Stats() (completed, failed int64) {
	return p.completed.Load(), p.failed.Load()
}

// Translate runs every job and returns the results indexed like the input.
func (p *Pool) Translate(jobs []Job, opts ...Option) []JobResult {
	results := make([]JobResult, len(jobs))
	total := len(jobs)

	ch := make(chan int, len(jobs))
	for i := range jobs {
		ch <- i
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for worker := 0; worker < p.NumWorkers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				res, err := Translate(jobs[i].Program, jobs[i].Control, opts...)
				results[i] = JobResult{Index: i, Result: res, Err: err}
				mu.Lock()
				done := p.completed.Add(1)
				if p.progress != nil {
					fmt.Fprintf(p.progress, "translated %d/%d programs\n", done, total)
				}
				mu.Unlock()
				if err != nil {
					p.failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	return results
}
