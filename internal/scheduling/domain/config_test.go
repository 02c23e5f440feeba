package domain_test

import (
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentConfig_PreferredOutsideBounds(t *testing.T) {
	minDur, maxDur := 60, 90
	_, err := domain.NewStudentConfig(mustPerson(t, "a"), 30, &minDur, &maxDur, 1, domain.WeekSchedule{})
	assert.ErrorIs(t, err, domain.ErrStudentDurationRange)
}

func TestNewStudentConfig_MaxLessonsMustBePositive(t *testing.T) {
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	_, err = domain.NewStudentConfig(mustPerson(t, "a"), 60, nil, nil, 0, week)
	assert.ErrorIs(t, err, domain.ErrStudentMaxLessons)
}

func TestStudentConfig_AllowsDuration(t *testing.T) {
	minDur, maxDur := 45, 75
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	s, err := domain.NewStudentConfig(mustPerson(t, "a"), 60, &minDur, &maxDur, 1, week)
	require.NoError(t, err)

	assert.True(t, s.AllowsDuration(60))
	assert.False(t, s.AllowsDuration(30))
	assert.False(t, s.AllowsDuration(90))
}

func TestNewTeacherConfig_RequiresStudioID(t *testing.T) {
	week, err := domain.NewEmptyWeekSchedule("UTC")
	require.NoError(t, err)
	constraints := mustConstraints(t, 60, 0, 30, 60, []int{60}, domain.BackToBackAgnostic)
	_, err = domain.NewTeacherConfig(mustPerson(t, "t"), "", week, constraints)
	assert.ErrorIs(t, err, domain.ErrEmptyStudioID)
}
