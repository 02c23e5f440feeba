package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lessonscheduler/solver/internal/catalog"
	"github.com/lessonscheduler/solver/internal/generator"
	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	shared "github.com/lessonscheduler/solver/internal/shared/application"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
	"github.com/lessonscheduler/solver/internal/solver"
	"github.com/lessonscheduler/solver/pkg/observability"
)

var (
	scaledCountsFlag     string
	scaledTargetKFlag    int64
	scaledToleranceFlag  int64
	scaledStrictnessFlag string

	extremeCountFlag int
)

var generateScaledFixturesCmd = &cobra.Command{
	Use:   "generate-scaled-fixtures",
	Short: "Generate fixtures at increasing student counts targeting a fixed solution count",
	Long: `generate-scaled-fixtures runs the k-targeting generator once per
student count in --counts, each aimed at the same --target-k exact
solution count, so the resulting fixture set isolates how problem size
alone affects difficulty independent of how constrained the problem is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := parseIntList(scaledCountsFlag)
		if err != nil {
			return err
		}
		strictness, err := parseStrictness(scaledStrictnessFlag)
		if err != nil {
			return err
		}

		store, err := openCatalogStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		bus := eventbus.NewInProcessEventBus(appLogger)
		bus.RegisterConsumer(store)
		handler := generateFixtureHandler{bus: bus}

		for i, count := range counts {
			cfg := generator.TargetConfig{
				TargetK:      scaledTargetKFlag,
				Tolerance:    scaledToleranceFlag,
				MaxAttempts:  25,
				StudentCount: count,
				Strictness:   strictness,
				Seed:         appConfig.DefaultSeed + int64(i),
			}
			if err := handler.Handle(cmd.Context(), generateFixtureCommand{cfg: cfg, category: "scaled"}); err != nil {
				return fmt.Errorf("generate fixture for %d students: %w", count, err)
			}
		}
		return nil
	},
}

var generateExtremeFixturesCmd = &cobra.Command{
	Use:   "generate-extreme-fixtures",
	Short: "Generate a batch of edge-case fixtures: TargetK=0 and heavily over-subscribed problems",
	Long: `generate-extreme-fixtures produces --count fixtures split between
deliberately infeasible problems (TargetK=0) and deliberately
over-constrained ones (a large student count against the tightest
strictness level), exercising the generator's and solver's edge-case
handling rather than its typical-case path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalogStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		bus := eventbus.NewInProcessEventBus(appLogger)
		bus.RegisterConsumer(store)
		handler := generateFixtureHandler{bus: bus}

		for i := 0; i < extremeCountFlag; i++ {
			var cfg generator.TargetConfig
			if i%2 == 0 {
				cfg = generator.TargetConfig{
					TargetK:      0,
					StudentCount: 10,
					Strictness:   generator.StrictnessExtreme,
					Seed:         appConfig.DefaultSeed + int64(i),
				}
			} else {
				cfg = generator.TargetConfig{
					TargetK:      1,
					Tolerance:    0,
					MaxAttempts:  25,
					StudentCount: 40,
					Strictness:   generator.StrictnessExtreme,
					Seed:         appConfig.DefaultSeed + int64(i),
				}
			}
			if err := handler.Handle(cmd.Context(), generateFixtureCommand{cfg: cfg, category: "extreme"}); err != nil {
				return fmt.Errorf("generate extreme fixture %d: %w", i, err)
			}
		}
		return nil
	},
}

// generateAndRecord runs the k-targeting generator for cfg, scores the
// result with the difficulty calculator, writes the fixture to disk,
// and publishes a FixtureGeneratedEvent so bus's registered consumers
// (the catalog store) persist a summary row; correlation metadata is
// attached to the events here, before publishing. It returns the
// published aggregate and the fixture's output path so a caller
// (generateFixtureHandler) can log them without re-deriving them.
func generateAndRecord(ctx context.Context, bus *eventbus.InProcessEventBus, cfg generator.TargetConfig, categoryPrefix string) (*catalog.GeneratedFixture, string, error) {
	rng := generator.NewSeededRNG(cfg.Seed)
	ktarget := generator.NewKTargetGenerator(rng)
	result, err := ktarget.Generate(ctx, cfg)
	if err != nil {
		appMetrics.Counter(observability.MetricGeneratorFailures, 1, observability.T("category", categoryPrefix))
		return nil, "", err
	}
	appMetrics.Counter(observability.MetricGeneratorAttempts, int64(result.Attempts), observability.T("category", categoryPrefix))

	calc := generator.NewDifficultyCalculator()
	score := calc.Score(generator.DifficultyParams{
		StudentCount:        len(result.Problem.Students()),
		OverlapRatio:        solver.AnalyzeGraph(result.Problem).Density,
		FragmentationLevel:  averageFragmentation(result.Problem.Teacher().Availability()),
		PackingDensity:      packingDensity(result.Problem),
		ConstraintTightness: float64(cfg.Strictness) / 3.0,
	})
	level := calc.Level(score)
	category := fmt.Sprintf("%s_%s", categoryPrefix, level)

	id := generator.NewTestCaseID(rng, time.Now())
	tc := generator.NewTestCase(result.Problem, id, generator.TestCaseMetadata{
		Seed:             cfg.Seed,
		Category:         category,
		TargetK:          cfg.TargetK,
		ActualK:          result.ActualK,
		DifficultyScore:  score,
		DifficultyLevel:  level.String(),
		PredictedSolveMs: calc.PredictSolveTime(score, len(result.Problem.Students())),
		GeneratedAt:      time.Now(),
	})

	path, err := writeTestCase(tc, appConfig.OutputDir)
	if err != nil {
		return nil, "", err
	}

	fixture := catalog.NewGeneratedFixture(tc.ID, category, cfg.TargetK, result.ActualK, score, tc.Metadata.PredictedSolveMs, cfg.Seed)
	metadata := shared.NewEventMetadata(uuid.Nil)
	shared.ApplyEventMetadata(fixture.DomainEvents(), metadata)
	for _, event := range fixture.DomainEvents() {
		if err := bus.PublishDomainEvent(ctx, event); err != nil {
			appLogger.Warn("failed to publish fixture generated event", "fixture_id", tc.ID, "correlation_id", metadata.CorrelationID, "error", err)
		}
	}

	appMetrics.Counter(observability.MetricFixturesGenerated, 1, observability.T("category", category))
	appLogger.Debug("fixture scored", "fixture_id", tc.ID, "category", category, "actual_k", result.ActualK, "correlation_id", metadata.CorrelationID)
	return fixture, path, nil
}

func averageFragmentation(week domain.WeekSchedule) float64 {
	days := week.Days()
	sum := 0.0
	for _, d := range days {
		sum += d.Stats().FragmentationScore
	}
	return sum / float64(len(days))
}

// packingDensity is demand-minutes (every student's preferred duration
// times their weekly lesson count) divided by supply-minutes (the
// teacher's total available minutes across the week).
func packingDensity(problem domain.Problem) float64 {
	supply := 0
	for _, d := range problem.Teacher().Availability().Days() {
		supply += d.Stats().TotalAvailable
	}
	if supply == 0 {
		return 1
	}

	demand := 0
	for _, s := range problem.Students() {
		demand += s.PreferredDuration() * s.MaxLessonsPerWeek()
	}
	return float64(demand) / float64(supply)
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid student count %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseStrictness(s string) (generator.StrictnessTag, error) {
	switch s {
	case "loose":
		return generator.StrictnessLoose, nil
	case "moderate":
		return generator.StrictnessModerate, nil
	case "tight":
		return generator.StrictnessTight, nil
	case "extreme":
		return generator.StrictnessExtreme, nil
	default:
		return 0, fmt.Errorf("unknown strictness %q (want loose, moderate, tight, extreme)", s)
	}
}

func init() {
	generateScaledFixturesCmd.Flags().StringVar(&scaledCountsFlag, "counts", "5,15,30,50", "comma-separated student counts to generate fixtures for")
	generateScaledFixturesCmd.Flags().Int64Var(&scaledTargetKFlag, "target-k", 100, "exact solution count every fixture should hit")
	generateScaledFixturesCmd.Flags().Int64Var(&scaledToleranceFlag, "tolerance", 10, "acceptable distance from target-k")
	generateScaledFixturesCmd.Flags().StringVar(&scaledStrictnessFlag, "strictness", "moderate", "constraint strictness: loose, moderate, tight, extreme")
	rootCmd.AddCommand(generateScaledFixturesCmd)

	generateExtremeFixturesCmd.Flags().IntVar(&extremeCountFlag, "count", 10, "number of extreme fixtures to generate")
	rootCmd.AddCommand(generateExtremeFixturesCmd)
}
