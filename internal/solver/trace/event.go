// Package trace implements the solver's VISUALIZE=true JSON-lines
// search tracing: every node the engine expands, every backtrack, and
// the final solution are published as domain events on an in-process
// event bus, the same publish/consume pattern the eventbus package
// uses for its own domain events.
package trace

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/lessonscheduler/solver/internal/shared/domain"
)

// Routing keys a Tracer publishes under; WriterConsumer subscribes to
// all three.
const (
	RoutingKeyNodeExpanded  = "solver.trace.node_expanded"
	RoutingKeyBacktrack     = "solver.trace.backtrack"
	RoutingKeySolutionFound = "solver.trace.solution_found"
)

// runAggregateType is the AggregateType every trace event carries;
// the "aggregate" is the solve run itself, identified by Tracer.runID.
const runAggregateType = "SolveRun"

// envelope mirrors eventbus.ConsumedEvent's wire shape. Trace events
// build it directly in MarshalJSON rather than importing eventbus,
// keeping the event definitions independent of the transport.
type envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// marshalEnvelope flattens base's identity fields (exported only via
// getters — BaseEvent's struct fields are themselves unexported) around
// payload, matching the JSON shape InProcessEventBus.Publish expects
// when it unmarshals into a ConsumedEvent.
func marshalEnvelope(base shareddomain.BaseEvent, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		EventID:       base.EventID(),
		AggregateID:   base.AggregateID(),
		AggregateType: base.AggregateType(),
		RoutingKey:    base.RoutingKey(),
		OccurredAt:    base.OccurredAt(),
		Payload:       raw,
	})
}

// NodeExpandedEvent fires once per search node the engine visits.
type NodeExpandedEvent struct {
	shareddomain.BaseEvent
	Depth          int    `json:"depth"`
	StudentID      string `json:"studentId"`
	RemainingCount int    `json:"remainingCount"`
	CandidateCount int    `json:"candidateCount"`
}

func NewNodeExpandedEvent(runID uuid.UUID, depth int, studentID string, remainingCount, candidateCount int) NodeExpandedEvent {
	return NodeExpandedEvent{
		BaseEvent:      shareddomain.NewBaseEvent(runID, runAggregateType, RoutingKeyNodeExpanded),
		Depth:          depth,
		StudentID:      studentID,
		RemainingCount: remainingCount,
		CandidateCount: candidateCount,
	}
}

// MarshalJSON emits the event's own exported fields as the payload;
// the embedded BaseEvent's unexported fields never enter the alias's
// field list, so this can't accidentally serialize them twice.
func (e NodeExpandedEvent) MarshalJSON() ([]byte, error) {
	type alias NodeExpandedEvent
	return marshalEnvelope(e.BaseEvent, alias(e))
}

// BacktrackEvent fires once per assignment the engine undoes while
// backing out of a dead branch.
type BacktrackEvent struct {
	shareddomain.BaseEvent
	Depth     int    `json:"depth"`
	StudentID string `json:"studentId"`
	Reason    string `json:"reason"`
}

func NewBacktrackEvent(runID uuid.UUID, depth int, studentID, reason string) BacktrackEvent {
	return BacktrackEvent{
		BaseEvent: shareddomain.NewBaseEvent(runID, runAggregateType, RoutingKeyBacktrack),
		Depth:     depth,
		StudentID: studentID,
		Reason:    reason,
	}
}

func (e BacktrackEvent) MarshalJSON() ([]byte, error) {
	type alias BacktrackEvent
	return marshalEnvelope(e.BaseEvent, alias(e))
}

// SolutionFoundEvent fires once, when the engine returns (whether it
// found a complete schedule, a partial one, or timed out).
type SolutionFoundEvent struct {
	shareddomain.BaseEvent
	ScheduledCount int     `json:"scheduledCount"`
	TotalCount     int     `json:"totalCount"`
	ComputeTimeMs  float64 `json:"computeTimeMs"`
	TimedOut       bool    `json:"timedOut"`
}

func NewSolutionFoundEvent(runID uuid.UUID, scheduledCount, totalCount int, computeTimeMs float64, timedOut bool) SolutionFoundEvent {
	return SolutionFoundEvent{
		BaseEvent:      shareddomain.NewBaseEvent(runID, runAggregateType, RoutingKeySolutionFound),
		ScheduledCount: scheduledCount,
		TotalCount:     totalCount,
		ComputeTimeMs:  computeTimeMs,
		TimedOut:       timedOut,
	}
}

func (e SolutionFoundEvent) MarshalJSON() ([]byte, error) {
	type alias SolutionFoundEvent
	return marshalEnvelope(e.BaseEvent, alias(e))
}
