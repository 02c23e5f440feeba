// Package catalog persists a per-run summary row for every fixture the
// generator accepts, so analyze-fixtures can report trends across
// invocations instead of only the latest batch, backed by
// modernc.org/sqlite via the internal/shared/infrastructure/database
// stack.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/lessonscheduler/solver/internal/shared/domain"
)

// FixtureGeneratedRoutingKey is the routing key Store subscribes to
// when wired as an eventbus.EventConsumer.
const FixtureGeneratedRoutingKey = "catalog.fixture.generated"

// GeneratedFixture is the aggregate root for one accepted generator
// run: an event-sourced record that a test case was produced,
// independent of whether the catalog store ever persists it. Follows
// the usual aggregate pattern (BaseAggregateRoot + AddDomainEvent in
// the constructor).
type GeneratedFixture struct {
	shareddomain.BaseAggregateRoot
	testCaseID       string
	category         string
	targetK          int64
	actualK          int64
	difficultyScore  float64
	predictedSolveMs float64
	seed             int64
}

// NewGeneratedFixture constructs the aggregate and records its
// FixtureGeneratedEvent, ready for a caller to publish via
// AddDomainEvent/DomainEvents/ClearDomainEvents.
func NewGeneratedFixture(testCaseID, category string, targetK, actualK int64, difficultyScore, predictedSolveMs float64, seed int64) *GeneratedFixture {
	f := &GeneratedFixture{
		BaseAggregateRoot: shareddomain.NewBaseAggregateRoot(),
		testCaseID:        testCaseID,
		category:          category,
		targetK:           targetK,
		actualK:           actualK,
		difficultyScore:   difficultyScore,
		predictedSolveMs:  predictedSolveMs,
		seed:              seed,
	}
	event := newFixtureGeneratedEvent(f)
	f.AddDomainEvent(&event)
	return f
}

func (f *GeneratedFixture) TestCaseID() string { return f.testCaseID }

// rehydrateGeneratedFixture rebuilds an aggregate from a stored row,
// for Store.FindByID — no new domain events are recorded, following
// the usual Rehydrate* convention for loading existing aggregates.
func rehydrateGeneratedFixture(id uuid.UUID, createdAt time.Time, testCaseID, category string, targetK, actualK int64, difficultyScore, predictedSolveMs float64, seed int64) *GeneratedFixture {
	entity := shareddomain.RehydrateBaseEntity(id, createdAt, createdAt)
	return &GeneratedFixture{
		BaseAggregateRoot: shareddomain.RehydrateBaseAggregateRoot(entity, 0),
		testCaseID:        testCaseID,
		category:          category,
		targetK:           targetK,
		actualK:           actualK,
		difficultyScore:   difficultyScore,
		predictedSolveMs:  predictedSolveMs,
		seed:              seed,
	}
}

// fixtureGeneratedPayload is both the event's JSON payload and the
// shape Store.Handle unmarshals back out of a ConsumedEvent.
type fixtureGeneratedPayload struct {
	TestCaseID       string  `json:"testCaseId"`
	Category         string  `json:"category"`
	TargetK          int64   `json:"targetK"`
	ActualK          int64   `json:"actualK"`
	DifficultyScore  float64 `json:"difficultyScore"`
	PredictedSolveMs float64 `json:"predictedSolveMs"`
	Seed             int64   `json:"seed"`
}

// FixtureGeneratedEvent is the domain event recorded when a
// GeneratedFixture aggregate is created.
type FixtureGeneratedEvent struct {
	shareddomain.BaseEvent
	payload fixtureGeneratedPayload
}

func newFixtureGeneratedEvent(f *GeneratedFixture) FixtureGeneratedEvent {
	return FixtureGeneratedEvent{
		BaseEvent: shareddomain.NewBaseEvent(f.ID(), "GeneratedFixture", FixtureGeneratedRoutingKey),
		payload: fixtureGeneratedPayload{
			TestCaseID:       f.testCaseID,
			Category:         f.category,
			TargetK:          f.targetK,
			ActualK:          f.actualK,
			DifficultyScore:  f.difficultyScore,
			PredictedSolveMs: f.predictedSolveMs,
			Seed:             f.seed,
		},
	}
}

// eventEnvelope mirrors eventbus.ConsumedEvent's wire shape, without
// importing the eventbus package from the event definition itself.
type eventEnvelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

func (e FixtureGeneratedEvent) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(e.payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventEnvelope{
		EventID:       e.EventID(),
		AggregateID:   e.AggregateID(),
		AggregateType: e.AggregateType(),
		RoutingKey:    e.RoutingKey(),
		OccurredAt:    e.OccurredAt(),
		Payload:       payload,
	})
}
