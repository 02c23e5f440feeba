package domain

import "sort"

// Problem bundles the immutable inputs to a single solve: one teacher
// and the students competing for lesson slots. A solver run borrows a
// Problem for its duration and never mutates it.
type Problem struct {
	teacher  TeacherConfig
	students []StudentConfig
}

// NewProblem constructs a Problem from a teacher and its students.
func NewProblem(teacher TeacherConfig, students []StudentConfig) Problem {
	cp := make([]StudentConfig, len(students))
	copy(cp, students)
	return Problem{teacher: teacher, students: cp}
}

func (p Problem) Teacher() TeacherConfig    { return p.teacher }
func (p Problem) Students() []StudentConfig { return p.students }

// Student looks up a student by Person.ID.
func (p Problem) Student(id string) (StudentConfig, bool) {
	for _, s := range p.students {
		if s.person.ID() == id {
			return s, true
		}
	}
	return StudentConfig{}, false
}

// PartialAssignment is the set of Committed assignments at a search
// node, grouped by day for O(day-size) same-day queries.
type PartialAssignment struct {
	byDay        [DaysPerWeek][]LessonAssignment
	countByStudent map[string]int
}

// NewPartialAssignment returns an empty partial assignment.
func NewPartialAssignment() *PartialAssignment {
	return &PartialAssignment{countByStudent: make(map[string]int)}
}

// OnDay returns the committed assignments for dayOfWeek, sorted by
// start minute.
func (pa *PartialAssignment) OnDay(dayOfWeek int) []LessonAssignment {
	return pa.byDay[dayOfWeek]
}

// CountForStudent returns how many assignments a student already has
// committed in this partial assignment.
func (pa *PartialAssignment) CountForStudent(studentID string) int {
	return pa.countByStudent[studentID]
}

// Add commits a, keeping the day's slice sorted by start minute.
func (pa *PartialAssignment) Add(a LessonAssignment) {
	day := pa.byDay[a.dayOfWeek]
	idx := sort.Search(len(day), func(i int) bool { return day[i].startMinute >= a.startMinute })
	day = append(day, LessonAssignment{})
	copy(day[idx+1:], day[idx:])
	day[idx] = a
	pa.byDay[a.dayOfWeek] = day
	pa.countByStudent[a.studentID]++
}

// Remove undoes a previously Added assignment (used by search
// backtracking). It is a no-op if a is not present.
func (pa *PartialAssignment) Remove(a LessonAssignment) {
	day := pa.byDay[a.dayOfWeek]
	for i, existing := range day {
		if existing == a {
			pa.byDay[a.dayOfWeek] = append(day[:i], day[i+1:]...)
			pa.countByStudent[a.studentID]--
			if pa.countByStudent[a.studentID] <= 0 {
				delete(pa.countByStudent, a.studentID)
			}
			return
		}
	}
}

// All returns every committed assignment across all days, sorted by
// (dayOfWeek, startMinute) for deterministic iteration.
func (pa *PartialAssignment) All() []LessonAssignment {
	all := make([]LessonAssignment, 0)
	for day := 0; day < DaysPerWeek; day++ {
		all = append(all, pa.byDay[day]...)
	}
	return all
}

// Clone deep-copies the partial assignment.
func (pa *PartialAssignment) Clone() *PartialAssignment {
	out := NewPartialAssignment()
	for day := 0; day < DaysPerWeek; day++ {
		out.byDay[day] = append([]LessonAssignment(nil), pa.byDay[day]...)
	}
	for k, v := range pa.countByStudent {
		out.countByStudent[k] = v
	}
	return out
}
