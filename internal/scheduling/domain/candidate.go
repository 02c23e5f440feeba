package domain

import "iter"

// Candidate is a concrete (day, start, duration) triple that could be
// assigned to a student — independent of which student, since a
// CandidateDomain is always scoped to one.
type Candidate struct {
	DayOfWeek int
	Start     Minute
	Duration  int
}

// ToAssignment binds candidate to a student, producing the
// LessonAssignment the search engine would commit.
func (c Candidate) ToAssignment(studentID string) (LessonAssignment, error) {
	return NewLessonAssignment(studentID, c.DayOfWeek, c.Start, c.Duration)
}

// CandidateDomain is the set of candidates still consistent with
// unary and propagated binary constraints for one student. Presence is
// a bitset over a fixed, heuristic-ordered candidate slice; removals
// are journaled so the search engine can undo them on backtrack
// without recomputing the domain from scratch.
type CandidateDomain struct {
	studentID  string
	candidates []Candidate
	present    []bool
	count      int
	journal    []int // indices removed, in removal order
}

// NewCandidateDomain builds a domain over candidates in the given
// order; that order is preserved for heuristic-ordered iteration.
func NewCandidateDomain(studentID string, candidates []Candidate) *CandidateDomain {
	present := make([]bool, len(candidates))
	for i := range present {
		present[i] = true
	}
	return &CandidateDomain{
		studentID:  studentID,
		candidates: candidates,
		present:    present,
		count:      len(candidates),
	}
}

func (d *CandidateDomain) StudentID() string { return d.studentID }

// Len returns the total number of candidates, present or removed.
func (d *CandidateDomain) Len() int { return len(d.candidates) }

// Size returns the number of candidates still present.
func (d *CandidateDomain) Size() int { return d.count }

// IsEmpty reports whether no candidates remain — per the domain
// invariant, this means the current search branch is unsatisfiable.
func (d *CandidateDomain) IsEmpty() bool { return d.count == 0 }

// At returns the candidate at index idx regardless of presence.
func (d *CandidateDomain) At(idx int) Candidate { return d.candidates[idx] }

// IsPresent reports whether the candidate at idx is still in the
// domain.
func (d *CandidateDomain) IsPresent(idx int) bool { return d.present[idx] }

// Remove marks the candidate at idx absent and journals the removal.
// Removing an already-absent candidate is a no-op and is not journaled
// (so Mark/RestoreTo pairs stay balanced).
func (d *CandidateDomain) Remove(idx int) {
	if !d.present[idx] {
		return
	}
	d.present[idx] = false
	d.count--
	d.journal = append(d.journal, idx)
}

// Mark returns a restore point capturing the journal's current length.
func (d *CandidateDomain) Mark() int { return len(d.journal) }

// RestoreTo undoes every removal journaled since mark, in reverse
// order. It is the undo half of the search engine's trail.
func (d *CandidateDomain) RestoreTo(mark int) {
	for len(d.journal) > mark {
		idx := d.journal[len(d.journal)-1]
		d.journal = d.journal[:len(d.journal)-1]
		d.present[idx] = true
		d.count++
	}
}

// Present iterates (index, candidate) pairs still in the domain, in
// the order the domain was constructed with (heuristic order).
func (d *CandidateDomain) Present() iter.Seq2[int, Candidate] {
	return func(yield func(int, Candidate) bool) {
		for i, c := range d.candidates {
			if d.present[i] {
				if !yield(i, c) {
					return
				}
			}
		}
	}
}

// Clone deep-copies the domain including its journal, for use by
// algorithms (e.g. solution counting) that need an independent search
// branch without disturbing the engine's own domains.
func (d *CandidateDomain) Clone() *CandidateDomain {
	return &CandidateDomain{
		studentID:  d.studentID,
		candidates: d.candidates, // immutable once built; safe to share
		present:    append([]bool(nil), d.present...),
		count:      d.count,
		journal:    append([]int(nil), d.journal...),
	}
}

// BuildCandidates enumerates every (day, start, duration) triple
// consistent with a student's own min/max duration bounds and the
// teacher's allowed durations, at the teacher's minute step, without
// yet checking availability — that pruning is the preprocessor's job
// (node consistency).
func BuildCandidates(teacher TeacherConfig, student StudentConfig) []Candidate {
	step := teacher.constraints.MinuteStep()
	candidates := make([]Candidate, 0)
	for _, duration := range teacher.constraints.allowedDurations {
		if !student.AllowsDuration(duration) {
			continue
		}
		for day := 0; day < DaysPerWeek; day++ {
			for start := 0; start+duration <= MinutesPerDay; start += step {
				candidates = append(candidates, Candidate{
					DayOfWeek: day,
					Start:     Minute(start),
					Duration:  duration,
				})
			}
		}
	}
	return candidates
}
