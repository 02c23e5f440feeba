package solver_test

import (
	"math/rand"
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/lessonscheduler/solver/internal/solver"
	"github.com/stretchr/testify/assert"
)

func TestCountSolutions_ExactCountForTwoSlotsTwoStudents(t *testing.T) {
	week := weekWithBlock(t, 0, 540, 120) // Monday 09:00-11:00, two 60-min slots
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, week, constraints)
	s1 := mustStudent(t, "s1", 60, 1, week)
	s2 := mustStudent(t, "s2", 60, 1, week)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1, s2})

	result := solver.CountSolutions(problem, 100, 200, rand.New(rand.NewSource(1)))

	assert.True(t, result.Exact)
	assert.Equal(t, int64(2), result.Count)
	assert.False(t, result.Capped)
}

func TestCountSolutions_ZeroWhenInfeasible(t *testing.T) {
	teacherWeek := weekWithBlock(t, 0, 540, 60)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)
	studentWeek := weekWithBlock(t, 1, 540, 60)
	student := mustStudent(t, "s1", 60, 1, studentWeek)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{student})

	result := solver.CountSolutions(problem, 100, 200, rand.New(rand.NewSource(1)))

	assert.True(t, result.Exact)
	assert.Equal(t, int64(0), result.Count)
}

func TestAnalyzeGraph_DisjointAvailabilityHasNoEdges(t *testing.T) {
	teacherWeek := twoDayTeacherWeek(t)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)

	mondayOnly := weekWithBlock(t, 0, 540, 60)
	tuesdayOnly := weekWithBlock(t, 1, 540, 60)
	s1 := mustStudent(t, "s1", 60, 1, mondayOnly)
	s2 := mustStudent(t, "s2", 60, 1, tuesdayOnly)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1, s2})

	stats := solver.AnalyzeGraph(problem)

	assert.Equal(t, 0, stats.EdgeCount)
	assert.Equal(t, 0.0, stats.Density)
}

func TestAnalyzeGraph_SharedDayProducesAnEdge(t *testing.T) {
	week := weekWithBlock(t, 0, 540, 120)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, week, constraints)
	s1 := mustStudent(t, "s1", 60, 1, week)
	s2 := mustStudent(t, "s2", 60, 1, week)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1, s2})

	stats := solver.AnalyzeGraph(problem)

	assert.Equal(t, 1, stats.EdgeCount)
	assert.Equal(t, 2, stats.NodeCount)
	assert.GreaterOrEqual(t, stats.MaxDegree, 1)
}
