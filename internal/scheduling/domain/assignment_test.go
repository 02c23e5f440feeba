package domain_test

import (
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLessonAssignment_OutOfBounds(t *testing.T) {
	_, err := domain.NewLessonAssignment("s1", 1, 1430, 60)
	assert.ErrorIs(t, err, domain.ErrAssignmentOutOfBounds)
}

func TestNewLessonAssignment_InvalidDay(t *testing.T) {
	_, err := domain.NewLessonAssignment("s1", 7, 540, 60)
	assert.ErrorIs(t, err, domain.ErrInvalidDayOfWeek)
}

func TestLessonAssignment_OverlapsWith(t *testing.T) {
	a, err := domain.NewLessonAssignment("s1", 1, 540, 60)
	require.NoError(t, err)
	b, err := domain.NewLessonAssignment("s2", 1, 570, 60)
	require.NoError(t, err)
	c, err := domain.NewLessonAssignment("s3", 2, 570, 60)
	require.NoError(t, err)

	assert.True(t, a.OverlapsWith(b))
	assert.False(t, a.OverlapsWith(c)) // different day
}

func TestPartialAssignment_AddRemove(t *testing.T) {
	pa := domain.NewPartialAssignment()
	a, _ := domain.NewLessonAssignment("s1", 1, 540, 60)
	b, _ := domain.NewLessonAssignment("s2", 1, 480, 60)

	pa.Add(a)
	pa.Add(b)

	onMonday := pa.OnDay(1)
	require.Len(t, onMonday, 2)
	assert.Equal(t, domain.Minute(480), onMonday[0].StartMinute())
	assert.Equal(t, 1, pa.CountForStudent("s1"))

	pa.Remove(a)
	assert.Equal(t, 0, pa.CountForStudent("s1"))
	assert.Len(t, pa.OnDay(1), 1)
}

func TestPartialAssignment_Clone(t *testing.T) {
	pa := domain.NewPartialAssignment()
	a, _ := domain.NewLessonAssignment("s1", 1, 540, 60)
	pa.Add(a)

	clone := pa.Clone()
	clone.Remove(a)

	assert.Len(t, pa.OnDay(1), 1)
	assert.Len(t, clone.OnDay(1), 0)
}
