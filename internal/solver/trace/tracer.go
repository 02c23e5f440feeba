package trace

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
)

// Tracer publishes solver search events onto an in-process event bus so
// any number of consumers — a JSON-lines writer by default — can
// observe a solve without coupling the engine to a particular sink.
// Engine.Trace is nil-safe: every method is a no-op on a nil *Tracer.
type Tracer struct {
	bus   *eventbus.InProcessEventBus
	runID uuid.UUID
}

// NewTracer wires a fresh in-process bus with a WriterConsumer attached
// to w (typically os.Stderr, for VISUALIZE=true).
func NewTracer(w io.Writer, logger *slog.Logger) *Tracer {
	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(NewWriterConsumer(w))
	return &Tracer{bus: bus, runID: uuid.New()}
}

func (t *Tracer) NodeExpanded(ctx context.Context, depth int, studentID string, remainingCount, candidateCount int) {
	if t == nil {
		return
	}
	_ = t.bus.PublishDomainEvent(ctx, NewNodeExpandedEvent(t.runID, depth, studentID, remainingCount, candidateCount))
}

func (t *Tracer) Backtrack(ctx context.Context, depth int, studentID, reason string) {
	if t == nil {
		return
	}
	_ = t.bus.PublishDomainEvent(ctx, NewBacktrackEvent(t.runID, depth, studentID, reason))
}

func (t *Tracer) SolutionFound(ctx context.Context, scheduledCount, totalCount int, computeTimeMs float64, timedOut bool) {
	if t == nil {
		return
	}
	_ = t.bus.PublishDomainEvent(ctx, NewSolutionFoundEvent(t.runID, scheduledCount, totalCount, computeTimeMs, timedOut))
}
