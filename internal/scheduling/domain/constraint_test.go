package domain_test

import (
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekWithMondayBlock(t *testing.T, start domain.Minute, duration int) domain.WeekSchedule {
	t.Helper()
	block, err := domain.NewTimeBlock(start, duration)
	require.NoError(t, err)
	monday, err := domain.NewDaySchedule(1, []domain.TimeBlock{block})
	require.NoError(t, err)
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	week, err = week.WithDay(monday)
	require.NoError(t, err)
	return week
}

func mustConstraints(t *testing.T, maxConsecutive, breakMin, minDur, maxDur int, allowed []int, pref domain.BackToBackPreference) domain.SchedulingConstraints {
	t.Helper()
	c, err := domain.NewSchedulingConstraints(maxConsecutive, breakMin, minDur, maxDur, allowed, pref)
	require.NoError(t, err)
	return c
}

func TestNewSchedulingConstraints_Validation(t *testing.T) {
	_, err := domain.NewSchedulingConstraints(60, -1, 30, 60, []int{60}, domain.BackToBackAgnostic)
	assert.ErrorIs(t, err, domain.ErrNegativeBreakDuration)

	_, err = domain.NewSchedulingConstraints(60, 0, 60, 30, []int{60}, domain.BackToBackAgnostic)
	assert.ErrorIs(t, err, domain.ErrDurationRange)

	_, err = domain.NewSchedulingConstraints(20, 0, 30, 60, []int{60}, domain.BackToBackAgnostic)
	assert.ErrorIs(t, err, domain.ErrMaxConsecutiveTooShort)

	_, err = domain.NewSchedulingConstraints(60, 0, 30, 60, nil, domain.BackToBackAgnostic)
	assert.ErrorIs(t, err, domain.ErrEmptyAllowedDurations)

	_, err = domain.NewSchedulingConstraints(60, 0, 30, 60, []int{90}, domain.BackToBackAgnostic)
	assert.ErrorIs(t, err, domain.ErrAllowedDurationRange)
}

func TestSchedulingConstraints_MinuteStep(t *testing.T) {
	c := mustConstraints(t, 120, 10, 30, 90, []int{30, 45, 60}, domain.BackToBackAgnostic)
	assert.Equal(t, 15, c.MinuteStep())
}

func TestConstraintSet_TeacherAndStudentAvailability(t *testing.T) {
	teacherWeek := weekWithMondayBlock(t, 540, 480) // 09:00-17:00
	studentWeek := weekWithMondayBlock(t, 540, 60)  // 09:00-10:00 only

	teacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 600, 10, 60, 60, []int{60}, domain.BackToBackAgnostic),
	)
	require.NoError(t, err)

	student, err := domain.NewStudentConfig(mustPerson(t, "student-1"), 60, nil, nil, 1, studentWeek)
	require.NoError(t, err)

	problem := domain.NewProblem(teacher, []domain.StudentConfig{student})
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()

	inside, err := domain.NewLessonAssignment("student-1", 1, 540, 60)
	require.NoError(t, err)
	assert.True(t, cs.Check(problem, partial, inside).OK)

	outside, err := domain.NewLessonAssignment("student-1", 1, 600, 60)
	require.NoError(t, err)
	assert.False(t, cs.Check(problem, partial, outside).OK)
}

func TestConstraintSet_NoOverlap(t *testing.T) {
	teacherWeek := weekWithMondayBlock(t, 540, 480)
	teacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 600, 10, 60, 60, []int{60}, domain.BackToBackAgnostic),
	)
	require.NoError(t, err)

	studentA, err := domain.NewStudentConfig(mustPerson(t, "a"), 60, nil, nil, 1, teacherWeek)
	require.NoError(t, err)
	studentB, err := domain.NewStudentConfig(mustPerson(t, "b"), 60, nil, nil, 1, teacherWeek)
	require.NoError(t, err)

	problem := domain.NewProblem(teacher, []domain.StudentConfig{studentA, studentB})
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()

	first, _ := domain.NewLessonAssignment("a", 1, 540, 60)
	partial.Add(first)

	overlapping, _ := domain.NewLessonAssignment("b", 1, 570, 60)
	assert.False(t, cs.Check(problem, partial, overlapping).OK)

	disjoint, _ := domain.NewLessonAssignment("b", 1, 660, 60)
	assert.True(t, cs.Check(problem, partial, disjoint).OK)
}

func TestConstraintSet_MaxConsecutiveAndBreak(t *testing.T) {
	// Mirrors S3 from the testable-properties scenarios: 150-minute
	// block, maxConsecutive=60, breakDuration=60, allowedDurations=[90]
	// (minLessonDuration=60, so maxConsecutive >= minLessonDuration holds).
	teacherWeek := weekWithMondayBlock(t, 540, 150)
	teacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 60, 60, 60, 90, []int{90}, domain.BackToBackAgnostic),
	)
	require.NoError(t, err)

	studentA, err := domain.NewStudentConfig(mustPerson(t, "a"), 90, nil, nil, 1, teacherWeek)
	require.NoError(t, err)
	studentB, err := domain.NewStudentConfig(mustPerson(t, "b"), 90, nil, nil, 1, teacherWeek)
	require.NoError(t, err)

	problem := domain.NewProblem(teacher, []domain.StudentConfig{studentA, studentB})
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()

	// A lone 90-minute lesson is already a 90-minute consecutive run,
	// which exceeds maxConsecutive=60, so no lesson of 90 minutes fits.
	first, _ := domain.NewLessonAssignment("a", 1, 540, 90)
	assert.False(t, cs.Check(problem, partial, first).OK)
	partial.Add(first)

	// A second 90-minute lesson right after it (630-720) is rejected too:
	// it runs past the teacher block's end at 690, and the run would
	// total 180 > 60 minutes.
	second, _ := domain.NewLessonAssignment("b", 1, 630, 90)
	assert.False(t, cs.Check(problem, partial, second).OK)
}

func TestConstraintSet_PerStudentLessons(t *testing.T) {
	teacherWeek := weekWithMondayBlock(t, 540, 480)
	teacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackAgnostic),
	)
	require.NoError(t, err)

	student, err := domain.NewStudentConfig(mustPerson(t, "a"), 60, nil, nil, 1, teacherWeek)
	require.NoError(t, err)

	problem := domain.NewProblem(teacher, []domain.StudentConfig{student})
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()

	first, _ := domain.NewLessonAssignment("a", 1, 540, 60)
	partial.Add(first)

	second, _ := domain.NewLessonAssignment("a", 1, 660, 60)
	assert.False(t, cs.Check(problem, partial, second).OK)
}

func TestConstraintSet_BackToBackSoftCost(t *testing.T) {
	teacherWeek := weekWithMondayBlock(t, 480, 600) // 08:00-18:00
	maximizeTeacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 600, 0, 60, 60, []int{60}, domain.BackToBackMaximize),
	)
	require.NoError(t, err)

	studentA, err := domain.NewStudentConfig(mustPerson(t, "a"), 60, nil, nil, 1, teacherWeek)
	require.NoError(t, err)
	studentB, err := domain.NewStudentConfig(mustPerson(t, "b"), 60, nil, nil, 1, teacherWeek)
	require.NoError(t, err)

	problem := domain.NewProblem(maximizeTeacher, []domain.StudentConfig{studentA, studentB})
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()

	first, _ := domain.NewLessonAssignment("a", 1, 540, 60)
	partial.Add(first)

	adjacent, _ := domain.NewLessonAssignment("b", 1, 600, 60)
	farApart, _ := domain.NewLessonAssignment("b", 1, 780, 60)

	adjacentResult := cs.Check(problem, partial, adjacent)
	farResult := cs.Check(problem, partial, farApart)
	require.True(t, adjacentResult.OK)
	require.True(t, farResult.OK)
	assert.Less(t, adjacentResult.SoftCost, farResult.SoftCost)
}

func mustPerson(t *testing.T, id string) domain.Person {
	t.Helper()
	p, err := domain.NewPerson(id, id, id+"@example.com")
	require.NoError(t, err)
	return p
}
