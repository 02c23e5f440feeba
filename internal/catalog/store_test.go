package catalog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonscheduler/solver/internal/catalog"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/database"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
)

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	cfg := database.Config{Driver: database.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "fixtures.db")}
	store, err := catalog.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, catalog.FixtureRun{
		ID: "tc_1", GeneratedAt: time.Now(), Category: "hard",
		TargetK: 5, ActualK: 5, DifficultyScore: 0.8, PredictedSolveMs: 120, Seed: 42,
	}))
	require.NoError(t, store.RecordRun(ctx, catalog.FixtureRun{
		ID: "tc_2", GeneratedAt: time.Now(), Category: "easy",
		TargetK: 500, ActualK: 500, DifficultyScore: 0.2, PredictedSolveMs: 10, Seed: 43,
	}))

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRuns)
	assert.Equal(t, 1, summary.ByCategory["hard"])
	assert.Equal(t, 1, summary.ByCategory["easy"])
	assert.InDelta(t, 0.5, summary.AverageDifficulty, 0.001)
}

func TestStore_RecordRun_UpsertsByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := catalog.FixtureRun{ID: "tc_1", GeneratedAt: time.Now(), Category: "hard", TargetK: 5, ActualK: 5, DifficultyScore: 0.8, PredictedSolveMs: 120, Seed: 1}
	require.NoError(t, store.RecordRun(ctx, run))
	run.Category = "extreme"
	require.NoError(t, store.RecordRun(ctx, run))

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRuns)
	assert.Equal(t, 1, summary.ByCategory["extreme"])
}

func TestStore_RecentRuns_OrdersByGeneratedAtDesc(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, store.RecordRun(ctx, catalog.FixtureRun{ID: "tc_old", GeneratedAt: older, Category: "easy", TargetK: 1, ActualK: 1, Seed: 1}))
	require.NoError(t, store.RecordRun(ctx, catalog.FixtureRun{ID: "tc_new", GeneratedAt: newer, Category: "easy", TargetK: 1, ActualK: 1, Seed: 2}))

	recent, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "tc_new", recent[0].ID)
}

func TestStore_Repository_SaveFindDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	fixture := catalog.NewGeneratedFixture("tc_repo", "medium", 10, 11, 0.4, 50, 3)
	require.NoError(t, store.Save(ctx, fixture))

	found, err := store.FindByID(ctx, fixture.ID())
	require.NoError(t, err)
	assert.Equal(t, fixture.TestCaseID(), found.TestCaseID())

	require.NoError(t, store.Delete(ctx, fixture.ID()))
	_, err = store.FindByID(ctx, fixture.ID())
	assert.ErrorIs(t, err, catalog.ErrFixtureNotFound)
}

func TestStore_ImplementsEventConsumer_PersistsOnPublish(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(store)

	fixture := catalog.NewGeneratedFixture("tc_published", "medium", 50, 52, 0.5, 75.5, 7)
	for _, event := range fixture.DomainEvents() {
		require.NoError(t, bus.PublishDomainEvent(ctx, event))
	}

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRuns)
	assert.Equal(t, 1, summary.ByCategory["medium"])
}
