package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bakkerme/pagewatch/internal/core"
	"github.com/bakkerme/pagewatch/internal/detect"
)

// Watch ties a trigger to its change detector.
type Watch struct {
	Name     string
	Trigger  core.TriggerProcessor
	Detector *detect.Detector
}

type Runner struct {
	logger *slog.Logger
	tracer trace.Tracer
}

func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger: logger,
		tracer: otel.Tracer("pagewatch/runner"),
	}
}

// Start subscribes each watch to its trigger. Triggered runs execute
// sequentially per watch; the runner does not guard against a scheduler
// firing faster than a run completes beyond the trigger's own tick dropping.
func (r *Runner) Start(ctx context.Context, watches []*Watch) error {
	if len(watches) == 0 {
		return fmt.Errorf("at least one watch is required")
	}
	for _, watch := range watches {
		if watch == nil || watch.Trigger == nil {
			continue
		}
		events, err := watch.Trigger.Start(ctx, watch.Name)
		if err != nil {
			return fmt.Errorf("start trigger for %s: %w", watch.Name, err)
		}
		go r.listen(ctx, watch, events)
	}
	return nil
}

// RunOnce executes one complete poll cycle for the watch.
func (r *Runner) RunOnce(ctx context.Context, watch *Watch) (*core.RunResult, error) {
	if watch == nil || watch.Detector == nil {
		return nil, fmt.Errorf("watch detector is required")
	}

	runID := uuid.NewString()
	logger := r.logger.With("watch_id", watch.Name, "run_id", runID)
	ctx = core.WithWatchID(ctx, watch.Name)
	ctx = core.WithRunID(ctx, runID)
	ctx = core.WithLogger(ctx, logger)

	ctx, span := r.tracer.Start(ctx, "watch.run",
		trace.WithAttributes(attribute.String("watch.id", watch.Name)),
	)
	defer span.End()

	result, err := watch.Detector.Run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "watch run failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("watch.status", string(result.Status)),
		attribute.Int("watch.snapshot_size", len(result.Snapshot)),
		attribute.Int("watch.added", len(result.Added)),
	)
	logger.Info("watch run complete",
		"status", result.Status,
		"snapshot", len(result.Snapshot),
		"added", len(result.Added),
	)
	return result, nil
}

func (r *Runner) listen(ctx context.Context, watch *Watch, events <-chan core.TriggerEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.logger.Info("trigger event", "watch_id", event.WatchID, "time", event.Timestamp)
			if _, err := r.RunOnce(ctx, watch); err != nil {
				// A failed run leaves the seen set untouched; the next trigger
				// retries the whole cycle from scratch.
				r.logger.Error("watch run failed", "watch_id", watch.Name, "error", err)
			}
		}
	}
}
