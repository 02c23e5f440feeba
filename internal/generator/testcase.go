package generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// The domain package's types keep every field unexported, so fixtures
// cannot be serialized by tagging the domain structs directly; these
// wire* types are the JSON-visible mirror a TestCase is built from and
// reconstructed into.

type wireTimeBlock struct {
	Start    int `json:"start"`
	Duration int `json:"duration"`
}

type wireDaySchedule struct {
	DayOfWeek int             `json:"dayOfWeek"`
	Blocks    []wireTimeBlock `json:"blocks"`
}

type wireWeekSchedule struct {
	Timezone string            `json:"timezone"`
	Days     []wireDaySchedule `json:"days"`
}

type wirePerson struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type wireConstraints struct {
	MaxConsecutiveMinutes int    `json:"maxConsecutiveMinutes"`
	BreakDurationMinutes  int    `json:"breakDurationMinutes"`
	MinLessonDuration     int    `json:"minLessonDuration"`
	MaxLessonDuration     int    `json:"maxLessonDuration"`
	AllowedDurations      []int  `json:"allowedDurations"`
	BackToBackPreference  string `json:"backToBackPreference"`
}

type wireTeacher struct {
	Person       wirePerson       `json:"person"`
	StudioID     string           `json:"studioId"`
	Availability wireWeekSchedule `json:"availability"`
	Constraints  wireConstraints  `json:"constraints"`
}

type wireStudent struct {
	Person            wirePerson       `json:"person"`
	PreferredDuration int              `json:"preferredDuration"`
	MinDuration       *int             `json:"minDuration,omitempty"`
	MaxDuration       *int             `json:"maxDuration,omitempty"`
	MaxLessonsPerWeek int              `json:"maxLessonsPerWeek"`
	Availability      wireWeekSchedule `json:"availability"`
}

func toWirePerson(p domain.Person) wirePerson {
	return wirePerson{ID: p.ID(), Name: p.Name(), Email: p.Email()}
}

func fromWirePerson(w wirePerson) (domain.Person, error) {
	return domain.NewPerson(w.ID, w.Name, w.Email)
}

func toWireWeekSchedule(ws domain.WeekSchedule) wireWeekSchedule {
	days := ws.Days()
	out := wireWeekSchedule{Timezone: ws.Timezone(), Days: make([]wireDaySchedule, 0, domain.DaysPerWeek)}
	for _, d := range days {
		blocks := d.Blocks()
		wireBlocks := make([]wireTimeBlock, len(blocks))
		for i, b := range blocks {
			wireBlocks[i] = wireTimeBlock{Start: int(b.Start()), Duration: b.Duration()}
		}
		out.Days = append(out.Days, wireDaySchedule{DayOfWeek: d.DayOfWeek(), Blocks: wireBlocks})
	}
	return out
}

func fromWireWeekSchedule(w wireWeekSchedule) (domain.WeekSchedule, error) {
	timezone := w.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	week, err := domain.NewEmptyWeekSchedule(timezone)
	if err != nil {
		return domain.WeekSchedule{}, err
	}
	for _, wd := range w.Days {
		blocks := make([]domain.TimeBlock, len(wd.Blocks))
		for i, wb := range wd.Blocks {
			block, err := domain.NewTimeBlock(domain.Minute(wb.Start), wb.Duration)
			if err != nil {
				return domain.WeekSchedule{}, err
			}
			blocks[i] = block
		}
		ds, err := domain.NewCanonicalDaySchedule(wd.DayOfWeek, blocks)
		if err != nil {
			return domain.WeekSchedule{}, err
		}
		week, err = week.WithDay(ds)
		if err != nil {
			return domain.WeekSchedule{}, err
		}
	}
	return week, nil
}

func toWireConstraints(c domain.SchedulingConstraints) wireConstraints {
	return wireConstraints{
		MaxConsecutiveMinutes: c.MaxConsecutiveMinutes(),
		BreakDurationMinutes:  c.BreakDurationMinutes(),
		MinLessonDuration:     c.MinLessonDuration(),
		MaxLessonDuration:     c.MaxLessonDuration(),
		AllowedDurations:      c.AllowedDurations(),
		BackToBackPreference:  c.BackToBackPreference().String(),
	}
}

func fromWireConstraints(w wireConstraints) (domain.SchedulingConstraints, error) {
	pref, err := domain.ParseBackToBackPreference(w.BackToBackPreference)
	if err != nil {
		return domain.SchedulingConstraints{}, err
	}
	return domain.NewSchedulingConstraints(
		w.MaxConsecutiveMinutes, w.BreakDurationMinutes,
		w.MinLessonDuration, w.MaxLessonDuration,
		w.AllowedDurations, pref,
	)
}

func toWireTeacher(t domain.TeacherConfig) wireTeacher {
	return wireTeacher{
		Person:       toWirePerson(t.Person()),
		StudioID:     t.StudioID(),
		Availability: toWireWeekSchedule(t.Availability()),
		Constraints:  toWireConstraints(t.Constraints()),
	}
}

func fromWireTeacher(w wireTeacher) (domain.TeacherConfig, error) {
	person, err := fromWirePerson(w.Person)
	if err != nil {
		return domain.TeacherConfig{}, err
	}
	availability, err := fromWireWeekSchedule(w.Availability)
	if err != nil {
		return domain.TeacherConfig{}, err
	}
	constraints, err := fromWireConstraints(w.Constraints)
	if err != nil {
		return domain.TeacherConfig{}, err
	}
	return domain.NewTeacherConfig(person, w.StudioID, availability, constraints)
}

func toWireStudent(s domain.StudentConfig) wireStudent {
	out := wireStudent{
		Person:            toWirePerson(s.Person()),
		PreferredDuration: s.PreferredDuration(),
		MaxLessonsPerWeek: s.MaxLessonsPerWeek(),
		Availability:      toWireWeekSchedule(s.Availability()),
	}
	if min, ok := s.MinDuration(); ok {
		out.MinDuration = &min
	}
	if max, ok := s.MaxDuration(); ok {
		out.MaxDuration = &max
	}
	return out
}

func fromWireStudent(w wireStudent) (domain.StudentConfig, error) {
	person, err := fromWirePerson(w.Person)
	if err != nil {
		return domain.StudentConfig{}, err
	}
	availability, err := fromWireWeekSchedule(w.Availability)
	if err != nil {
		return domain.StudentConfig{}, err
	}
	return domain.NewStudentConfig(person, w.PreferredDuration, w.MinDuration, w.MaxDuration, w.MaxLessonsPerWeek, availability)
}

// TestCaseMetadata records how a TestCase was generated, for analyze-
// fixtures' reporting and for catalog.Store rows.
type TestCaseMetadata struct {
	Seed             int64     `json:"seed"`
	Category         string    `json:"category"`
	TargetK          int64     `json:"targetK"`
	ActualK          int64     `json:"actualK"`
	DifficultyScore  float64   `json:"difficultyScore"`
	DifficultyLevel  string    `json:"difficultyLevel"`
	PredictedSolveMs float64   `json:"predictedSolveMs"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// TestCase is a generated problem plus the metadata describing how it
// was produced, serialized as plain JSON (the domain types themselves
// are not tagged, so TestCase carries the wire* mirror instead).
type TestCase struct {
	ID       string           `json:"id"`
	Teacher  wireTeacher      `json:"teacher"`
	Students []wireStudent    `json:"students"`
	Metadata TestCaseMetadata `json:"metadata"`
}

// TestSuite groups related TestCases under a name (e.g. one file per
// difficulty category).
type TestSuite struct {
	Name      string     `json:"name"`
	TestCases []TestCase `json:"testCases"`
}

// NewTestCase converts problem into its wire form and attaches id and
// metadata.
func NewTestCase(problem domain.Problem, id string, metadata TestCaseMetadata) TestCase {
	students := problem.Students()
	wireStudents := make([]wireStudent, len(students))
	for i, s := range students {
		wireStudents[i] = toWireStudent(s)
	}
	return TestCase{
		ID:       id,
		Teacher:  toWireTeacher(problem.Teacher()),
		Students: wireStudents,
		Metadata: metadata,
	}
}

// Problem reconstructs the domain.Problem this TestCase describes.
func (tc TestCase) Problem() (domain.Problem, error) {
	teacher, err := fromWireTeacher(tc.Teacher)
	if err != nil {
		return domain.Problem{}, fmt.Errorf("reconstruct teacher for test case %s: %w", tc.ID, err)
	}
	students := make([]domain.StudentConfig, len(tc.Students))
	for i, w := range tc.Students {
		student, err := fromWireStudent(w)
		if err != nil {
			return domain.Problem{}, fmt.Errorf("reconstruct student %d for test case %s: %w", i, tc.ID, err)
		}
		students[i] = student
	}
	return domain.NewProblem(teacher, students), nil
}

// NewTestCaseID builds a tc_<base36-timestamp>_<5-char-base36-random>
// identifier: sortable by generation time, with a suffix drawn from rng
// so two fixtures generated within the same second from different RNG
// streams are unlikely to collide (the same seed in the same second
// yields the same ID).
func NewTestCaseID(rng *SeededRNG, now time.Time) string {
	timestamp := strconv.FormatInt(now.Unix(), 36)
	suffix := randomBase36(rng.Rand(), 5)
	return fmt.Sprintf("tc_%s_%s", timestamp, suffix)
}
