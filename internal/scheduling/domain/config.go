package domain

import "errors"

var (
	ErrEmptyStudioID          = errors.New("studioId must not be empty")
	ErrStudentDurationRange   = errors.New("min <= preferred <= max must hold for student durations")
	ErrStudentMaxLessons      = errors.New("maxLessonsPerWeek must be >= 1")
)

// TeacherConfig is the teacher half of a scheduling problem.
type TeacherConfig struct {
	person      Person
	studioID    string
	availability WeekSchedule
	constraints SchedulingConstraints
}

// NewTeacherConfig validates and constructs a TeacherConfig.
func NewTeacherConfig(person Person, studioID string, availability WeekSchedule, constraints SchedulingConstraints) (TeacherConfig, error) {
	if studioID == "" {
		return TeacherConfig{}, ErrEmptyStudioID
	}
	return TeacherConfig{
		person:       person,
		studioID:     studioID,
		availability: availability,
		constraints:  constraints,
	}, nil
}

func (t TeacherConfig) Person() Person                        { return t.person }
func (t TeacherConfig) StudioID() string                      { return t.studioID }
func (t TeacherConfig) Availability() WeekSchedule             { return t.availability }
func (t TeacherConfig) Constraints() SchedulingConstraints      { return t.constraints }

// StudentConfig is one student's half of a scheduling problem.
type StudentConfig struct {
	person            Person
	preferredDuration int
	minDuration       *int
	maxDuration       *int
	maxLessonsPerWeek int
	availability      WeekSchedule
}

// NewStudentConfig validates and constructs a StudentConfig. minDuration
// and maxDuration are optional (nil means unconstrained on that side);
// when present, min <= preferred <= max must hold.
func NewStudentConfig(
	person Person,
	preferredDuration int,
	minDuration, maxDuration *int,
	maxLessonsPerWeek int,
	availability WeekSchedule,
) (StudentConfig, error) {
	if maxLessonsPerWeek < 1 {
		return StudentConfig{}, ErrStudentMaxLessons
	}
	if minDuration != nil && *minDuration > preferredDuration {
		return StudentConfig{}, ErrStudentDurationRange
	}
	if maxDuration != nil && preferredDuration > *maxDuration {
		return StudentConfig{}, ErrStudentDurationRange
	}
	if minDuration != nil && maxDuration != nil && *minDuration > *maxDuration {
		return StudentConfig{}, ErrStudentDurationRange
	}

	var minCopy, maxCopy *int
	if minDuration != nil {
		v := *minDuration
		minCopy = &v
	}
	if maxDuration != nil {
		v := *maxDuration
		maxCopy = &v
	}

	return StudentConfig{
		person:            person,
		preferredDuration: preferredDuration,
		minDuration:       minCopy,
		maxDuration:       maxCopy,
		maxLessonsPerWeek: maxLessonsPerWeek,
		availability:      availability,
	}, nil
}

func (s StudentConfig) Person() Person               { return s.person }
func (s StudentConfig) PreferredDuration() int        { return s.preferredDuration }
func (s StudentConfig) MaxLessonsPerWeek() int        { return s.maxLessonsPerWeek }
func (s StudentConfig) Availability() WeekSchedule    { return s.availability }

// MinDuration returns (value, ok); ok is false when unconstrained.
func (s StudentConfig) MinDuration() (int, bool) {
	if s.minDuration == nil {
		return 0, false
	}
	return *s.minDuration, true
}

// MaxDuration returns (value, ok); ok is false when unconstrained.
func (s StudentConfig) MaxDuration() (int, bool) {
	if s.maxDuration == nil {
		return 0, false
	}
	return *s.maxDuration, true
}

// AllowsDuration reports whether d respects this student's own
// min/max bounds, independent of the teacher's allowedDurations.
func (s StudentConfig) AllowsDuration(d int) bool {
	if s.minDuration != nil && d < *s.minDuration {
		return false
	}
	if s.maxDuration != nil && d > *s.maxDuration {
		return false
	}
	return true
}
