package feeds

import (
	"context"
	"sync"

	"feedagg/models"

	log "github.com/sirupsen/logrus"
)

// SourceFunc processes one source. It must not touch state shared with other
// sources; its return value is handed to the single collector.
type SourceFunc func(ctx context.Context, spec models.FeedSourceSpec) Contribution

// Contribution is what one source adds to the aggregate
type Contribution struct {
	Entries []models.RawEntry
	Authors []models.AuthorRecord
	Err     error
}

type sourceJob struct {
	index int
	spec  models.FeedSourceSpec
}

type sourceResult struct {
	index        int
	contribution Contribution
}

// ParallelProcessor runs a SourceFunc over a list of sources with at most
// maxWorkers in flight.
type ParallelProcessor struct {
	maxWorkers  int
	workerQueue chan sourceJob
	results     chan sourceResult
	process     SourceFunc
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewParallelProcessor(ctx context.Context, maxWorkers int, process SourceFunc) *ParallelProcessor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &ParallelProcessor{
		maxWorkers: maxWorkers,
		process:    process,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes every spec and returns the contributions in spec order,
// regardless of completion order. If the context is cancelled the partial
// results are discarded and the context error returned.
func (pp *ParallelProcessor) Run(specs []models.FeedSourceSpec) ([]Contribution, error) {
	defer pp.cancel()

	pp.workerQueue = make(chan sourceJob)
	pp.results = make(chan sourceResult, len(specs))

	workers := min(pp.maxWorkers, len(specs))
	for i := 0; i < workers; i++ {
		pp.wg.Add(1)
		go pp.startWorker(i)
	}

	go func() {
		defer close(pp.workerQueue)
		for i, spec := range specs {
			select {
			case <-pp.ctx.Done():
				return
			case pp.workerQueue <- sourceJob{index: i, spec: spec}:
			}
		}
	}()

	go func() {
		pp.wg.Wait()
		close(pp.results)
	}()

	contributions := make([]Contribution, len(specs))
	for res := range pp.results {
		contributions[res.index] = res.contribution
	}

	if err := pp.ctx.Err(); err != nil {
		return nil, err
	}
	return contributions, nil
}

func (pp *ParallelProcessor) startWorker(id int) {
	defer pp.wg.Done()

	for job := range pp.workerQueue {
		if pp.ctx.Err() != nil {
			log.Debugf("Worker %d: Shutting down", id)
			return
		}
		pp.results <- sourceResult{
			index:        job.index,
			contribution: pp.process(pp.ctx, job.spec),
		}
	}
}
