package main

import (
	"context"

	"github.com/lessonscheduler/solver/internal/catalog"
	"github.com/lessonscheduler/solver/internal/generator"
	shared "github.com/lessonscheduler/solver/internal/shared/application"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
	"github.com/lessonscheduler/solver/pkg/observability"
)

// generateFixtureCommand and fixtureSummaryQuery put the CLI's two
// write/read paths behind a command/query seam
// (shared/application.Command / Query) instead of calling the
// generator and catalog packages directly from cobra's RunE.

type generateFixtureCommand struct {
	cfg      generator.TargetConfig
	category string
}

func (c generateFixtureCommand) CommandName() string { return "generate_fixture" }

type generateFixtureHandler struct {
	bus *eventbus.InProcessEventBus
}

func (h generateFixtureHandler) Handle(ctx context.Context, cmd generateFixtureCommand) error {
	fixture, path, err := generateAndRecord(ctx, h.bus, cmd.cfg, cmd.category)
	if err != nil {
		return err
	}
	appLogger.Info("fixture generated", "fixture_id", fixture.TestCaseID(), "path", path)
	return nil
}

var (
	_ shared.Command                               = generateFixtureCommand{}
	_ shared.CommandHandler[generateFixtureCommand] = generateFixtureHandler{}
)

type fixtureSummaryQuery struct{ recent int }

func (q fixtureSummaryQuery) QueryName() string { return "fixture_summary" }

type fixtureSummaryResult struct {
	Summary catalog.RunSummary
	Recent  []catalog.FixtureRun
}

type fixtureSummaryHandler struct {
	store *catalog.Store
}

func (h fixtureSummaryHandler) Handle(ctx context.Context, q fixtureSummaryQuery) (fixtureSummaryResult, error) {
	appMetrics.Counter(observability.MetricCatalogQueries, 1, observability.T("query", "fixture_summary"))

	summary, err := h.store.Summary(ctx)
	if err != nil {
		appMetrics.Counter(observability.MetricCatalogQueryErrors, 1, observability.T("query", "fixture_summary"))
		return fixtureSummaryResult{}, err
	}
	recent, err := h.store.RecentRuns(ctx, q.recent)
	if err != nil {
		appMetrics.Counter(observability.MetricCatalogQueryErrors, 1, observability.T("query", "fixture_summary"))
		return fixtureSummaryResult{}, err
	}
	return fixtureSummaryResult{Summary: summary, Recent: recent}, nil
}

var (
	_ shared.Query                                                  = fixtureSummaryQuery{}
	_ shared.QueryHandler[fixtureSummaryQuery, fixtureSummaryResult] = fixtureSummaryHandler{}
)
