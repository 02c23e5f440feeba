package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lessonscheduler/solver/internal/generator"
)

func TestDifficultyCalculator_LevelBinsMonotonically(t *testing.T) {
	calc := generator.NewDifficultyCalculator()
	assert.Equal(t, generator.DifficultyTrivial, calc.Level(0))
	assert.Equal(t, generator.DifficultyEasy, calc.Level(0.2))
	assert.Equal(t, generator.DifficultyMedium, calc.Level(0.4))
	assert.Equal(t, generator.DifficultyHard, calc.Level(0.6))
	assert.Equal(t, generator.DifficultyExtreme, calc.Level(0.8))
	assert.Equal(t, generator.DifficultyImpossible, calc.Level(1.0))
}

func TestDifficultyCalculator_ScoreIncreasesWithHarderSignals(t *testing.T) {
	calc := generator.NewDifficultyCalculator()
	base := generator.DifficultyParams{StudentCount: 5, OverlapRatio: 0.1, FragmentationLevel: 0.1, PackingDensity: 0.3, ConstraintTightness: 0.1}
	harder := base
	harder.StudentCount = 30
	harder.OverlapRatio = 0.9
	harder.PackingDensity = 0.9

	assert.Greater(t, calc.Score(harder), calc.Score(base))
}

func TestDifficultyCalculator_PredictSolveTimeIncreasesWithScore(t *testing.T) {
	calc := generator.NewDifficultyCalculator()
	low := calc.PredictSolveTime(0.1, 10)
	high := calc.PredictSolveTime(0.9, 10)
	assert.Greater(t, high, low)
}
