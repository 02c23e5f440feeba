package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/lessonscheduler/solver/internal/shared/domain"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/database"
	_ "github.com/lessonscheduler/solver/internal/shared/infrastructure/database/sqlite" // registers the sqlite driver
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/migrations"
)

// ErrFixtureNotFound is returned by FindByID when no row matches the
// given aggregate ID.
var ErrFixtureNotFound = errors.New("catalog: fixture not found")

// Store is the SQLite-backed fixture_runs table: one row per accepted
// generator run, queried by analyze-fixtures to report trends across
// invocations.
type Store struct {
	conn database.Connection
}

// Open connects to cfg's SQLite database, running migrations before
// returning. Callers must Close the Store when done.
func Open(ctx context.Context, cfg database.Config) (*Store, error) {
	if err := database.EnsureDirectory(cfg.SQLitePath); err != nil {
		return nil, fmt.Errorf("prepare fixture catalog directory: %w", err)
	}
	conn, err := database.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open fixture catalog: %w", err)
	}

	db, ok := conn.(interface{ DB() *sql.DB })
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("fixture catalog requires the sqlite driver")
	}
	if err := migrations.RunSQLiteMigrations(ctx, db.DB()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run fixture catalog migrations: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

// FixtureRun is one row of the fixture_runs table.
type FixtureRun struct {
	ID               string
	GeneratedAt      time.Time
	Category         string
	TargetK          int64
	ActualK          int64
	DifficultyScore  float64
	PredictedSolveMs float64
	Seed             int64
}

// RecordRun inserts or replaces run's row, keyed by ID (a generator
// re-run with the same test case ID overwrites rather than duplicates).
func (s *Store) RecordRun(ctx context.Context, run FixtureRun) error {
	_, err := s.conn.Exec(ctx, `INSERT INTO fixture_runs
		(id, generated_at, category, target_k, actual_k, difficulty_score, predicted_solve_ms, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generated_at = excluded.generated_at,
			category = excluded.category,
			target_k = excluded.target_k,
			actual_k = excluded.actual_k,
			difficulty_score = excluded.difficulty_score,
			predicted_solve_ms = excluded.predicted_solve_ms,
			seed = excluded.seed`,
		run.ID, run.GeneratedAt.UTC().Format(time.RFC3339Nano), run.Category,
		run.TargetK, run.ActualK, run.DifficultyScore, run.PredictedSolveMs, run.Seed)
	return err
}

// Save implements shareddomain.Repository[*GeneratedFixture]. Like
// RecordRun it upserts on the test-case ID; it also stores the
// aggregate's uuid in aggregate_id, which FindByID and Delete key on.
func (s *Store) Save(ctx context.Context, aggregate *GeneratedFixture) error {
	_, err := s.conn.Exec(ctx, `INSERT INTO fixture_runs
		(id, aggregate_id, generated_at, category, target_k, actual_k, difficulty_score, predicted_solve_ms, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			aggregate_id = excluded.aggregate_id,
			generated_at = excluded.generated_at,
			category = excluded.category,
			target_k = excluded.target_k,
			actual_k = excluded.actual_k,
			difficulty_score = excluded.difficulty_score,
			predicted_solve_ms = excluded.predicted_solve_ms,
			seed = excluded.seed`,
		aggregate.testCaseID, aggregate.ID().String(), aggregate.CreatedAt().UTC().Format(time.RFC3339Nano), aggregate.category,
		aggregate.targetK, aggregate.actualK, aggregate.difficultyScore, aggregate.predictedSolveMs, aggregate.seed)
	return err
}

// FindByID implements shareddomain.Repository[*GeneratedFixture].
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*GeneratedFixture, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, generated_at, category, target_k, actual_k, difficulty_score, predicted_solve_ms, seed
		FROM fixture_runs WHERE aggregate_id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrFixtureNotFound
	}
	var testCaseID, category, generatedAt string
	var targetK, actualK, seed int64
	var difficultyScore, predictedSolveMs float64
	if err := rows.Scan(&testCaseID, &generatedAt, &category, &targetK, &actualK, &difficultyScore, &predictedSolveMs, &seed); err != nil {
		return nil, err
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, generatedAt)
	return rehydrateGeneratedFixture(id, createdAt, testCaseID, category, targetK, actualK, difficultyScore, predictedSolveMs, seed), rows.Err()
}

// Delete implements shareddomain.Repository[*GeneratedFixture].
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM fixture_runs WHERE aggregate_id = ?`, id.String())
	return err
}

var _ shareddomain.Repository[*GeneratedFixture] = (*Store)(nil)

// EventTypes implements eventbus.EventConsumer: Store can be registered
// directly on an InProcessEventBus instead of requiring callers to
// invoke RecordRun by hand, decoupling generation from persistence.
func (s *Store) EventTypes() []string { return []string{FixtureGeneratedRoutingKey} }

// Handle implements eventbus.EventConsumer.
func (s *Store) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload fixtureGeneratedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode fixture generated payload: %w", err)
	}
	return s.RecordRun(ctx, FixtureRun{
		ID:               payload.TestCaseID,
		GeneratedAt:      event.OccurredAt,
		Category:         payload.Category,
		TargetK:          payload.TargetK,
		ActualK:          payload.ActualK,
		DifficultyScore:  payload.DifficultyScore,
		PredictedSolveMs: payload.PredictedSolveMs,
		Seed:             payload.Seed,
	})
}

// RunSummary aggregates fixture_runs for analyze-fixtures' reporting.
type RunSummary struct {
	TotalRuns               int
	ByCategory              map[string]int
	AverageDifficulty       float64
	AveragePredictedSolveMs float64
}

// Summary scans every recorded run and aggregates it.
func (s *Store) Summary(ctx context.Context) (RunSummary, error) {
	rows, err := s.conn.Query(ctx, `SELECT category, difficulty_score, predicted_solve_ms FROM fixture_runs`)
	if err != nil {
		return RunSummary{}, err
	}
	defer rows.Close()

	summary := RunSummary{ByCategory: make(map[string]int)}
	var difficultySum, solveSum float64
	for rows.Next() {
		var category string
		var difficulty, solve float64
		if err := rows.Scan(&category, &difficulty, &solve); err != nil {
			return RunSummary{}, err
		}
		summary.TotalRuns++
		summary.ByCategory[category]++
		difficultySum += difficulty
		solveSum += solve
	}
	if err := rows.Err(); err != nil {
		return RunSummary{}, err
	}
	if summary.TotalRuns > 0 {
		summary.AverageDifficulty = difficultySum / float64(summary.TotalRuns)
		summary.AveragePredictedSolveMs = solveSum / float64(summary.TotalRuns)
	}
	return summary, nil
}

// RecentRuns returns up to limit of the most recently generated runs.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]FixtureRun, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, generated_at, category, target_k, actual_k, difficulty_score, predicted_solve_ms, seed
		FROM fixture_runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FixtureRun, 0, limit)
	for rows.Next() {
		var r FixtureRun
		var generatedAt string
		if err := rows.Scan(&r.ID, &generatedAt, &r.Category, &r.TargetK, &r.ActualK, &r.DifficultyScore, &r.PredictedSolveMs, &r.Seed); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			r.GeneratedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
