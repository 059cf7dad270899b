package aggregation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Engine runs one pipeline per grouping dimension. Pipelines share nothing
// and run fully in parallel, each over its own stream reader.
type Engine struct {
	logger *slog.Logger
	runs   []pipelineRun
}

type pipelineRun struct {
	pipeline *Pipeline
	reader   StreamReader
}

// NewEngine creates an empty engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Add registers a pipeline with its stream reader.
func (e *Engine) Add(p *Pipeline, reader StreamReader) {
	e.runs = append(e.runs, pipelineRun{pipeline: p, reader: reader})
}

// Run starts all pipelines and blocks until every one has stopped. On
// shutdown, open windows are discarded; an unfinalized window is simply
// lost without external checkpointing.
func (e *Engine) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(e.runs))

	for i, run := range e.runs {
		wg.Add(1)
		go func(i int, run pipelineRun) {
			defer wg.Done()
			defer run.reader.Close()

			if err := run.pipeline.Run(ctx, run.reader); err != nil && !errors.Is(err, context.Canceled) {
				errs[i] = err
			}

			if open := run.pipeline.OpenWindows(); open > 0 {
				e.logger.Info("discarding unfinalized windows on shutdown",
					slog.String("dimension", run.pipeline.dim.Name),
					slog.Int("open_windows", open))
			}
		}(i, run)
	}

	wg.Wait()
	return errors.Join(errs...)
}
