package solver_test

import (
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/stretchr/testify/require"
)

func mustPerson(t *testing.T, id string) domain.Person {
	t.Helper()
	p, err := domain.NewPerson(id, id, id+"@example.com")
	require.NoError(t, err)
	return p
}

func weekWithBlock(t *testing.T, day int, start domain.Minute, duration int) domain.WeekSchedule {
	t.Helper()
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	block, err := domain.NewTimeBlock(start, duration)
	require.NoError(t, err)
	ds, err := domain.NewCanonicalDaySchedule(day, []domain.TimeBlock{block})
	require.NoError(t, err)
	week, err = week.WithDay(ds)
	require.NoError(t, err)
	return week
}

func mustConstraints(t *testing.T, maxConsecutive, breakMinutes, minDur, maxDur int, allowed []int, pref domain.BackToBackPreference) domain.SchedulingConstraints {
	t.Helper()
	c, err := domain.NewSchedulingConstraints(maxConsecutive, breakMinutes, minDur, maxDur, allowed, pref)
	require.NoError(t, err)
	return c
}

func mustTeacher(t *testing.T, availability domain.WeekSchedule, constraints domain.SchedulingConstraints) domain.TeacherConfig {
	t.Helper()
	teacher, err := domain.NewTeacherConfig(mustPerson(t, "teacher-1"), "studio-1", availability, constraints)
	require.NoError(t, err)
	return teacher
}

func mustStudent(t *testing.T, id string, preferredDuration, maxLessonsPerWeek int, availability domain.WeekSchedule) domain.StudentConfig {
	t.Helper()
	s, err := domain.NewStudentConfig(mustPerson(t, id), preferredDuration, nil, nil, maxLessonsPerWeek, availability)
	require.NoError(t, err)
	return s
}
