package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonscheduler/solver/internal/generator"
)

func TestAvailabilityGenerator_ProducesDaysOnlyWithinPatternWindow(t *testing.T) {
	rng := generator.NewSeededRNG(1)
	gen := generator.NewAvailabilityGenerator(rng)

	week, err := gen.Generate(generator.AvailabilityParams{
		Pattern:  generator.PatternWeekendOnly,
		MinBlock: 30,
		MaxBlock: 90,
	})
	require.NoError(t, err)

	for day := 0; day < 7; day++ {
		ds, err := week.Day(day)
		require.NoError(t, err)
		blocks := ds.Blocks()
		if day == 5 || day == 6 {
			assert.NotEmpty(t, blocks, "weekend day %d should have availability", day)
		} else {
			assert.Empty(t, blocks, "weekday %d should have no availability", day)
		}
	}
}

func TestAvailabilityGenerator_IsDeterministicForSameSeed(t *testing.T) {
	params := generator.AvailabilityParams{Pattern: generator.PatternFragmented, MinBlock: 30, MaxBlock: 60, FragmentationLevel: 0.8}

	first, err := generator.NewAvailabilityGenerator(generator.NewSeededRNG(42)).Generate(params)
	require.NoError(t, err)
	second, err := generator.NewAvailabilityGenerator(generator.NewSeededRNG(42)).Generate(params)
	require.NoError(t, err)

	for day := 0; day < 7; day++ {
		firstDay, _ := first.Day(day)
		secondDay, _ := second.Day(day)
		assert.Equal(t, firstDay.Blocks(), secondDay.Blocks())
	}
}

func TestAvailabilityGenerator_HigherFragmentationYieldsMoreBlocks(t *testing.T) {
	low, err := generator.NewAvailabilityGenerator(generator.NewSeededRNG(7)).Generate(generator.AvailabilityParams{
		Pattern: generator.PatternFullTime, MinBlock: 30, MaxBlock: 60, FragmentationLevel: 0,
	})
	require.NoError(t, err)
	high, err := generator.NewAvailabilityGenerator(generator.NewSeededRNG(7)).Generate(generator.AvailabilityParams{
		Pattern: generator.PatternFullTime, MinBlock: 30, MaxBlock: 60, FragmentationLevel: 1,
	})
	require.NoError(t, err)

	lowDay, _ := low.Day(0)
	highDay, _ := high.Day(0)
	assert.LessOrEqual(t, len(lowDay.Blocks()), len(highDay.Blocks()))
}
