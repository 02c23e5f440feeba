package solver

import (
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// SelectVariable picks the next student to assign, MRV-with-degree-
// tiebreak: fewest remaining candidates first; ties broken by
// degree (how many other unassigned students share a day with this
// one, i.e. could conflict with it), then by student ID for
// determinism. Returns "" if remaining is empty.
func SelectVariable(remaining []string, domains map[string]*domain.CandidateDomain) string {
	if len(remaining) == 0 {
		return ""
	}
	best := remaining[0]
	bestSize := domains[best].Size()
	bestDegree := degree(best, remaining, domains)

	for _, id := range remaining[1:] {
		size := domains[id].Size()
		deg := degree(id, remaining, domains)
		if size < bestSize ||
			(size == bestSize && deg > bestDegree) ||
			(size == bestSize && deg == bestDegree && id < best) {
			best, bestSize, bestDegree = id, size, deg
		}
	}
	return best
}

// degree counts how many other remaining students have at least one
// candidate on a day studentID also has a candidate on — a proxy for
// how constrained the constraint graph is around this variable.
func degree(studentID string, remaining []string, domains map[string]*domain.CandidateDomain) int {
	days := daysUsed(domains[studentID])
	count := 0
	for _, other := range remaining {
		if other == studentID {
			continue
		}
		if sharesAnyDay(days, daysUsed(domains[other])) {
			count++
		}
	}
	return count
}

func daysUsed(d *domain.CandidateDomain) [domain.DaysPerWeek]bool {
	var days [domain.DaysPerWeek]bool
	for _, c := range d.Present() {
		days[c.DayOfWeek] = true
	}
	return days
}

func sharesAnyDay(a, b [domain.DaysPerWeek]bool) bool {
	for i := 0; i < domain.DaysPerWeek; i++ {
		if a[i] && b[i] {
			return true
		}
	}
	return false
}

// OrderValues returns candidate indices for studentID's domain ordered
// least-constraining-value first: fewest candidates eliminated
// from other students' domains if chosen, then lowest combined soft
// cost (duration preference + back-to-back), then closest to the
// midpoint of the day (mild bias toward central, less fragmenting
// slots), then a deterministic hash as a final stable tiebreak.
func OrderValues(
	problem domain.Problem,
	cs *domain.ConstraintSet,
	partial *domain.PartialAssignment,
	studentID string,
	d *domain.CandidateDomain,
	others map[string]*domain.CandidateDomain,
) []int {
	type scored struct {
		idx           int
		conflictCount int
		softCost      float64
		midDayBias    float64
		tieBreak      uint32
	}

	scores := make([]scored, 0, d.Size())
	for idx, c := range d.Present() {
		assignment, err := c.ToAssignment(studentID)
		if err != nil {
			continue
		}
		result := cs.Check(problem, partial, assignment)
		scores = append(scores, scored{
			idx:           idx,
			conflictCount: forwardConflictCount(problem, cs, partial, studentID, assignment, others),
			softCost:      result.SoftCost,
			midDayBias:    midDayDistance(c),
			tieBreak:      deterministicKey(c),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.conflictCount != b.conflictCount {
			return a.conflictCount < b.conflictCount
		}
		if a.softCost != b.softCost {
			return a.softCost < b.softCost
		}
		if a.midDayBias != b.midDayBias {
			return a.midDayBias < b.midDayBias
		}
		return a.tieBreak < b.tieBreak
	})

	ordered := make([]int, len(scores))
	for i, s := range scores {
		ordered[i] = s.idx
	}
	return ordered
}

// forwardConflictCount simulates committing candidate and counts how
// many candidates across other students' domains would become hard-
// inconsistent as a result — the classic LCV definition.
func forwardConflictCount(
	problem domain.Problem,
	cs *domain.ConstraintSet,
	partial *domain.PartialAssignment,
	studentID string,
	candidate domain.LessonAssignment,
	others map[string]*domain.CandidateDomain,
) int {
	tentative := partial.Clone()
	tentative.Add(candidate)

	conflicts := 0
	for otherID, otherDomain := range others {
		if otherID == studentID {
			continue
		}
		for _, oc := range otherDomain.Present() {
			oa, err := oc.ToAssignment(otherID)
			if err != nil {
				continue
			}
			if !cs.Validate(problem, tentative, oa) {
				conflicts++
			}
		}
	}
	return conflicts
}

func midDayDistance(c domain.Candidate) float64 {
	mid := domain.MinutesPerDay / 2
	center := int(c.Start) + c.Duration/2
	d := center - mid
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func deterministicKey(c domain.Candidate) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strconv.Itoa(c.DayOfWeek)))
	h.Write([]byte{':'})
	h.Write([]byte(strconv.Itoa(int(c.Start))))
	h.Write([]byte{':'})
	h.Write([]byte(strconv.Itoa(c.Duration)))
	return h.Sum32()
}
