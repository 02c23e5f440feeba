package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonscheduler/solver/internal/generator"
	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

func TestConstraintGenerator_DefaultDurationsScaleWithStrictness(t *testing.T) {
	gen := generator.NewConstraintGenerator(generator.NewSeededRNG(1))

	loose, err := gen.Generate(generator.ConstraintParams{Strictness: generator.StrictnessLoose})
	require.NoError(t, err)
	extreme, err := gen.Generate(generator.ConstraintParams{Strictness: generator.StrictnessExtreme})
	require.NoError(t, err)

	assert.Greater(t, len(loose.AllowedDurations()), len(extreme.AllowedDurations()))
	assert.Greater(t, loose.MaxConsecutiveMinutes(), extreme.MaxConsecutiveMinutes())
}

func TestConstraintGenerator_RespectsExplicitDurations(t *testing.T) {
	gen := generator.NewConstraintGenerator(generator.NewSeededRNG(2))
	constraints, err := gen.Generate(generator.ConstraintParams{
		Strictness:       generator.StrictnessModerate,
		AllowedDurations: []int{45},
		BackToBack:       domain.BackToBackMinimize,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{45}, constraints.AllowedDurations())
	assert.Equal(t, domain.BackToBackMinimize, constraints.BackToBackPreference())
}
