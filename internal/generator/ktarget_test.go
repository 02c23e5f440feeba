package generator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonscheduler/solver/internal/generator"
)

func TestKTargetGenerator_ZeroTargetBuildsInfeasibleProblem(t *testing.T) {
	gen := generator.NewKTargetGenerator(generator.NewSeededRNG(1))
	result, err := gen.Generate(context.Background(), generator.TargetConfig{
		TargetK:      0,
		StudentCount: 3,
		Strictness:   generator.StrictnessModerate,
		Seed:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.ActualK)
	assert.True(t, result.Exact)

	for day := 0; day < 7; day++ {
		ds, err := result.Problem.Teacher().Availability().Day(day)
		require.NoError(t, err)
		assert.Empty(t, ds.Blocks())
	}
}

func TestKTargetGenerator_ConvergesWithinTolerance(t *testing.T) {
	gen := generator.NewKTargetGenerator(generator.NewSeededRNG(5))
	result, err := gen.Generate(context.Background(), generator.TargetConfig{
		TargetK:      3,
		Tolerance:    2,
		MaxAttempts:  25,
		StudentCount: 2,
		Strictness:   generator.StrictnessLoose,
		Seed:         5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3, result.ActualK, 2)
}
