package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/santiagomed/rcgen/core"
	"github.com/santiagomed/rcgen/logger"
)

type ExecutionRequest struct {
	Pipeline   *core.Pipeline
	ResultChan chan error
	CreatedAt  time.Time
}

// Engine runs pipelines off the UI goroutine.
type Engine struct {
	logger       logger.Logger
	requests     chan ExecutionRequest
	workers      int
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

func NewEngine(l logger.Logger, workers int) *Engine {
	if l == nil {
		l = logger.NewNullLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		logger:       l,
		requests:     make(chan ExecutionRequest, workers),
		workers:      workers,
		shutdownChan: make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx)
	}
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case req := <-e.requests:
			e.logger.Debug(fmt.Sprintf("Pipeline picked up after %v", time.Since(req.CreatedAt)))
			req.ResultChan <- req.Pipeline.Execute(ctx)
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

// Submit queues p and returns the channel its result is delivered on.
func (e *Engine) Submit(p *core.Pipeline) chan error {
	resultChan := make(chan error, 1)
	e.requests <- ExecutionRequest{
		Pipeline:   p,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	e.shutdownOnce.Do(func() { close(e.shutdownChan) })

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Debug("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
