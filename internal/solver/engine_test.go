package solver_test

import (
	"context"
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/lessonscheduler/solver/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoDayTeacherWeek(t *testing.T) domain.WeekSchedule {
	t.Helper()
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	mondayBlock, err := domain.NewTimeBlock(540, 240) // 09:00-13:00
	require.NoError(t, err)
	tuesdayBlock, err := domain.NewTimeBlock(540, 240)
	require.NoError(t, err)
	monday, err := domain.NewCanonicalDaySchedule(0, []domain.TimeBlock{mondayBlock})
	require.NoError(t, err)
	tuesday, err := domain.NewCanonicalDaySchedule(1, []domain.TimeBlock{tuesdayBlock})
	require.NoError(t, err)
	week, err = week.WithDay(monday)
	require.NoError(t, err)
	week, err = week.WithDay(tuesday)
	require.NoError(t, err)
	return week
}

func TestEngine_SolveSchedulesNonConflictingStudents(t *testing.T) {
	teacherWeek := twoDayTeacherWeek(t)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)

	s1 := mustStudent(t, "s1", 60, 1, teacherWeek)
	s2 := mustStudent(t, "s2", 60, 1, teacherWeek)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1, s2})

	solution, err := solver.Solve(context.Background(), problem, solver.DefaultSolveOptions())
	require.NoError(t, err)

	assert.Len(t, solution.Assignments, 2)
	assert.Empty(t, solution.Unscheduled)
	assert.Equal(t, 2, solution.Metadata.ScheduledStudents)
}

func TestEngine_SolveLeavesOneUnscheduledWhenOnlyOneSlotExists(t *testing.T) {
	week := weekWithBlock(t, 0, 540, 60) // exactly one slot, all week
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, week, constraints)

	s1 := mustStudent(t, "s1", 60, 1, week)
	s2 := mustStudent(t, "s2", 60, 1, week)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1, s2})

	solution, err := solver.Solve(context.Background(), problem, solver.DefaultSolveOptions())
	require.NoError(t, err)

	assert.Len(t, solution.Assignments, 1)
	assert.Len(t, solution.Unscheduled, 1)
}

func TestEngine_SolveRespectsMaxLessonsPerWeek(t *testing.T) {
	teacherWeek := twoDayTeacherWeek(t)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)

	twiceWeekly := mustStudent(t, "s1", 60, 2, teacherWeek)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{twiceWeekly})

	solution, err := solver.Solve(context.Background(), problem, solver.DefaultSolveOptions())
	require.NoError(t, err)

	assert.Len(t, solution.Assignments, 2)
	for _, a := range solution.Assignments {
		assert.Equal(t, "s1", a.StudentID())
	}
	assert.NotEqual(t, solution.Assignments[0].DayOfWeek(), solution.Assignments[1].DayOfWeek())
}

func TestEngine_SolveReturnsInvalidInputForIncompatibleDuration(t *testing.T) {
	teacherWeek := weekWithBlock(t, 0, 540, 60)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)

	minDur, maxDur := 30, 30
	mismatched, err := domain.NewStudentConfig(mustPerson(t, "s1"), 30, &minDur, &maxDur, 1, teacherWeek)
	require.NoError(t, err)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{mismatched})

	_, solveErr := solver.Solve(context.Background(), problem, solver.DefaultSolveOptions())
	require.Error(t, solveErr)
	assert.ErrorIs(t, solveErr, solver.Error{Kind: solver.ErrorKindInvalidInput})
}

func TestEngine_SolveIncrementalPinsValidPriorAssignments(t *testing.T) {
	teacherWeek := twoDayTeacherWeek(t)
	constraints := mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic)
	teacher := mustTeacher(t, teacherWeek, constraints)
	s1 := mustStudent(t, "s1", 60, 1, teacherWeek)
	problem := domain.NewProblem(teacher, []domain.StudentConfig{s1})

	prior, err := domain.NewLessonAssignment("s1", 0, 540, 60)
	require.NoError(t, err)
	priorSolution := domain.ScheduleSolution{Assignments: []domain.LessonAssignment{prior}}

	engine := solver.NewEngine(problem, solver.DefaultSolveOptions())
	solution, solveErr := engine.SolveIncremental(context.Background(), priorSolution)
	require.NoError(t, solveErr)

	require.Len(t, solution.Assignments, 1)
	assert.Equal(t, domain.Minute(540), solution.Assignments[0].StartMinute())
}

func TestCreateOptimalConfig_ScalesWithStudentCount(t *testing.T) {
	small := solver.CreateOptimalConfig(3)
	large := solver.CreateOptimalConfig(40)

	assert.Less(t, small.MaxTimeMs, large.MaxTimeMs)
	assert.True(t, large.EnableEarlyTermination)
}
