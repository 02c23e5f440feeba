package domain_test

import (
	"testing"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateDomain_RemoveAndRestore(t *testing.T) {
	candidates := []domain.Candidate{
		{DayOfWeek: 1, Start: 540, Duration: 60},
		{DayOfWeek: 1, Start: 600, Duration: 60},
		{DayOfWeek: 1, Start: 660, Duration: 60},
	}
	d := domain.NewCandidateDomain("student-1", candidates)
	assert.Equal(t, 3, d.Size())

	mark := d.Mark()
	d.Remove(0)
	d.Remove(1)
	assert.Equal(t, 1, d.Size())
	assert.False(t, d.IsPresent(0))

	d.RestoreTo(mark)
	assert.Equal(t, 3, d.Size())
	assert.True(t, d.IsPresent(0))
}

func TestCandidateDomain_IsEmpty(t *testing.T) {
	d := domain.NewCandidateDomain("student-1", []domain.Candidate{{DayOfWeek: 1, Start: 540, Duration: 60}})
	assert.False(t, d.IsEmpty())
	d.Remove(0)
	assert.True(t, d.IsEmpty())
}

func TestCandidateDomain_PresentIterationOrder(t *testing.T) {
	candidates := []domain.Candidate{
		{DayOfWeek: 1, Start: 540, Duration: 60},
		{DayOfWeek: 1, Start: 600, Duration: 60},
		{DayOfWeek: 1, Start: 660, Duration: 60},
	}
	d := domain.NewCandidateDomain("student-1", candidates)
	d.Remove(1)

	var starts []domain.Minute
	for _, c := range d.Present() {
		starts = append(starts, c.Start)
	}
	assert.Equal(t, []domain.Minute{540, 660}, starts)
}

func TestCandidateDomain_CloneIsIndependent(t *testing.T) {
	d := domain.NewCandidateDomain("student-1", []domain.Candidate{{DayOfWeek: 1, Start: 540, Duration: 60}})
	clone := d.Clone()
	clone.Remove(0)
	assert.Equal(t, 1, d.Size())
	assert.Equal(t, 0, clone.Size())
}

func TestBuildCandidates_RespectsStudentDurationBounds(t *testing.T) {
	teacherWeek := weekWithMondayBlock(t, 540, 480)
	teacher, err := domain.NewTeacherConfig(
		mustPerson(t, "teacher-1"), "studio-1", teacherWeek,
		mustConstraints(t, 600, 0, 30, 90, []int{30, 60, 90}, domain.BackToBackAgnostic),
	)
	require.NoError(t, err)

	maxDur := 60
	student, err := domain.NewStudentConfig(mustPerson(t, "a"), 60, nil, &maxDur, 1, teacherWeek)
	require.NoError(t, err)

	candidates := domain.BuildCandidates(teacher, student)
	for _, c := range candidates {
		assert.LessOrEqual(t, c.Duration, maxDur)
	}
	assert.NotEmpty(t, candidates)
}

func TestCandidate_ToAssignment(t *testing.T) {
	c := domain.Candidate{DayOfWeek: 1, Start: 540, Duration: 60}
	a, err := c.ToAssignment("student-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", a.StudentID())
	assert.Equal(t, domain.Minute(540), a.StartMinute())
}
