package domain

import "errors"

var (
	ErrAssignmentOutOfBounds    = errors.New("assignment extends past end of day")
	ErrAssignmentDurationNotAllowed = errors.New("duration is not in teacher.allowedDurations")
	ErrAssignmentOutsideTeacher = errors.New("assignment interval is outside teacher availability")
	ErrAssignmentOutsideStudent = errors.New("assignment interval is outside student availability")
)

// LessonAssignment is a single student's committed (day, start,
// duration) slot in a ScheduleSolution.
type LessonAssignment struct {
	studentID       string
	dayOfWeek       int
	startMinute     Minute
	durationMinutes int
}

// NewLessonAssignment constructs and structurally validates a
// LessonAssignment. It does not check consistency against a teacher or
// student (that is ConstraintSet's job); it only enforces the bounds
// invariant every assignment must satisfy regardless of context.
func NewLessonAssignment(studentID string, dayOfWeek int, startMinute Minute, durationMinutes int) (LessonAssignment, error) {
	if dayOfWeek < 0 || dayOfWeek >= DaysPerWeek {
		return LessonAssignment{}, ErrInvalidDayOfWeek
	}
	if err := startMinute.Validate(); err != nil {
		return LessonAssignment{}, err
	}
	if durationMinutes <= 0 {
		return LessonAssignment{}, ErrInvalidDuration
	}
	if int(startMinute)+durationMinutes > MinutesPerDay {
		return LessonAssignment{}, ErrAssignmentOutOfBounds
	}
	return LessonAssignment{
		studentID:       studentID,
		dayOfWeek:       dayOfWeek,
		startMinute:     startMinute,
		durationMinutes: durationMinutes,
	}, nil
}

func (a LessonAssignment) StudentID() string   { return a.studentID }
func (a LessonAssignment) DayOfWeek() int      { return a.dayOfWeek }
func (a LessonAssignment) StartMinute() Minute { return a.startMinute }
func (a LessonAssignment) DurationMinutes() int { return a.durationMinutes }
func (a LessonAssignment) EndMinute() Minute   { return a.startMinute + Minute(a.durationMinutes) }

// Block returns the assignment's interval as a TimeBlock for use with
// the time-block algebra (overlap/contains checks).
func (a LessonAssignment) Block() TimeBlock {
	return TimeBlock{start: a.startMinute, duration: a.durationMinutes}
}

// OverlapsWith reports whether a and other occupy the same day and
// share any minute.
func (a LessonAssignment) OverlapsWith(other LessonAssignment) bool {
	return a.dayOfWeek == other.dayOfWeek && a.Block().OverlapsWith(other.Block())
}

// SolutionMetadata summarizes a ScheduleSolution for external reporting.
type SolutionMetadata struct {
	TotalStudents      int
	ScheduledStudents  int
	AverageUtilization float64
	ComputeTimeMs      float64
	TimedOut           bool
}

// ScheduleSolution is the solver's output: a partition of student IDs
// into assignments and unscheduled.
type ScheduleSolution struct {
	Assignments []LessonAssignment
	Unscheduled []string
	Metadata    SolutionMetadata
}
