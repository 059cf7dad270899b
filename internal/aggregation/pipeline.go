package aggregation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aurora/txnstream/internal/domain"
)

// Message is one raw record fetched from the event stream.
type Message struct {
	Key       []byte
	Value     []byte
	Partition int
	Offset    int64
}

// StreamReader yields records ordered per partition. Fetch blocks until a
// record is available or the context is cancelled.
type StreamReader interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
	Close() error
}

// IDGenerator generates unique IDs for emitted aggregates.
type IDGenerator interface {
	Generate() string
}

// Collector is the metrics capability a pipeline reports into.
type Collector interface {
	RecordProcessed(dimension string)
	RecordSkipped(dimension string)
	RecordMalformed(dimension string)
	LateRecordDropped(dimension string)
	WindowEmitted(dimension string)
	EmitFailed(dimension string)
	WatermarkLag(dimension string, lag time.Duration)
}

// Pipeline is one grouping dimension's aggregation state machine. It owns
// its keyed accumulators and watermark exclusively; all updates happen on
// the single goroutine running Run.
type Pipeline struct {
	dim       Dimension
	sink      Sink
	idGen     IDGenerator
	collector Collector
	logger    *slog.Logger

	windows   map[WindowKey]*Accumulator
	watermark *Watermark
}

// NewPipeline creates a pipeline for one dimension.
func NewPipeline(dim Dimension, sink Sink, idGen IDGenerator, collector Collector, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		dim:       dim,
		sink:      sink,
		idGen:     idGen,
		collector: collector,
		logger:    logger.With(slog.String("dimension", dim.Name)),
		windows:   make(map[WindowKey]*Accumulator),
		watermark: NewWatermark(dim.Window.Lateness),
	}
}

// Run consumes the stream until the context is cancelled. Malformed records
// and sink failures are recovered locally; no error in the record path is
// fatal to the pipeline.
func (p *Pipeline) Run(ctx context.Context, reader StreamReader) error {
	p.logger.Info("aggregation pipeline started",
		slog.Duration("window_length", p.dim.Window.Length),
		slog.Duration("window_slide", p.dim.Window.Slide),
		slog.Duration("lateness", p.dim.Window.Lateness))

	for {
		msg, err := reader.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("aggregation pipeline shutting down")
				return ctx.Err()
			}
			p.logger.Error("fetch failed", slog.String("error", err.Error()))
			return err
		}

		p.Process(ctx, msg.Value)

		if err := reader.Commit(ctx, msg); err != nil {
			p.logger.Error("commit failed", slog.String("error", err.Error()))
		}
	}
}

// Process decodes one raw stream record, folds it into the matching open
// windows, advances the watermark and emits every window it finalizes.
func (p *Pipeline) Process(ctx context.Context, raw []byte) {
	rec, err := p.decode(raw)
	if err != nil {
		p.collector.RecordMalformed(p.dim.Name)
		p.logger.Warn("skipping malformed stream record", slog.String("error", err.Error()))
		return
	}

	p.collector.RecordProcessed(p.dim.Name)
	p.fold(rec)
	p.watermark.Observe(rec.Timestamp)
	p.collector.WatermarkLag(p.dim.Name, time.Since(p.watermark.Current()))
	p.emitFinalized(ctx)
}

func (p *Pipeline) decode(raw []byte) (*domain.StreamRecord, error) {
	rec := &domain.StreamRecord{}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	if rec.Timestamp.IsZero() {
		return nil, errors.New("record has no event timestamp")
	}
	rec.ProcessedAt = time.Now().UTC()
	return rec, nil
}

func (p *Pipeline) fold(rec *domain.StreamRecord) {
	groupKey, ok := p.dim.Key(rec)
	if !ok {
		p.collector.RecordSkipped(p.dim.Name)
		return
	}

	for _, win := range AssignWindows(rec.Timestamp, p.dim.Window) {
		// A window whose end the watermark has already passed was either
		// emitted or would emit immediately with partial contents. The
		// record is dropped for that window, counted, never re-aggregated.
		if !win.End.After(p.watermark.Current()) {
			p.collector.LateRecordDropped(p.dim.Name)
			p.logger.Debug("late record dropped",
				slog.String("transaction_id", rec.ID),
				slog.Time("event_timestamp", rec.Timestamp),
				slog.Time("window_end", win.End),
				slog.Time("watermark", p.watermark.Current()))
			continue
		}

		key := WindowKey{
			Dimension: p.dim.Name,
			GroupKey:  groupKey,
			Start:     win.Start,
			End:       win.End,
		}

		acc, ok := p.windows[key]
		if !ok {
			acc = NewAccumulator(p.dim.distinctFieldNames())
			p.windows[key] = acc
		}
		acc.Fold(rec.Amount, p.dim.distinctValues(rec))
	}
}

// emitFinalized delivers every open window whose end the watermark has
// passed and destroys its state. A window that fails delivery stays open
// and is re-attempted at the next scan; the late-data guard in fold keeps
// its contents frozen, so a later successful delivery carries the same
// aggregate.
func (p *Pipeline) emitFinalized(ctx context.Context) {
	for key, acc := range p.windows {
		if key.End.After(p.watermark.Current()) {
			continue
		}

		agg := p.finalize(key, acc)
		if err := p.sink.Deliver(ctx, agg); err != nil {
			p.collector.EmitFailed(p.dim.Name)
			p.logger.Error("aggregate delivery failed",
				slog.String("group_key", key.GroupKey),
				slog.Time("window_end", key.End),
				slog.String("error", err.Error()))
			continue
		}

		delete(p.windows, key)
		p.collector.WindowEmitted(p.dim.Name)
		p.logger.Debug("window emitted",
			slog.String("group_key", key.GroupKey),
			slog.Time("window_start", key.Start),
			slog.Time("window_end", key.End),
			slog.Int64("count", agg.Count))
	}
}

func (p *Pipeline) finalize(key WindowKey, acc *Accumulator) *domain.WindowAggregate {
	return &domain.WindowAggregate{
		ID:             p.idGen.Generate(),
		Dimension:      key.Dimension,
		GroupKey:       key.GroupKey,
		WindowStart:    key.Start,
		WindowEnd:      key.End,
		Sum:            acc.Sum,
		Count:          acc.Count,
		Average:        acc.Average(),
		Min:            acc.Min,
		Max:            acc.Max,
		DistinctCounts: acc.DistinctCounts(),
		EmittedAt:      time.Now().UTC(),
	}
}

// OpenWindows returns the number of open accumulators. Used by tests and
// the engine's shutdown log.
func (p *Pipeline) OpenWindows() int {
	return len(p.windows)
}
