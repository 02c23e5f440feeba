package solver

import (
	"time"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// PreprocessStats records what the preprocessor did, for observability:
// values eliminated and time spent.
type PreprocessStats struct {
	ValuesEliminated int
	ElapsedMs        float64
	Infeasible       bool
}

// maxArcPasses bounds level-3's repeated arc-consistency passes; AC-3
// converges in practice well before this for problems at this scale.
const maxArcPasses = 8

// Preprocess runs a one-shot domain reduction pass: node
// consistency, then (at level >= 2) AC-3-style arc consistency, then
// (at level 3) singleton propagation. level 0 skips all of it and
// returns the raw, unfiltered domains.
func Preprocess(problem domain.Problem, level int) (map[string]*domain.CandidateDomain, PreprocessStats) {
	start := time.Now()
	domains := buildRawDomains(problem)
	stats := PreprocessStats{}

	if level <= 0 {
		stats.ElapsedMs = elapsedMs(start)
		return domains, stats
	}

	cs := domain.NewConstraintSet()
	empty := domain.NewPartialAssignment()

	stats.ValuesEliminated += nodeConsistency(problem, cs, empty, domains)
	if anyEmpty(domains) {
		stats.Infeasible = true
		stats.ElapsedMs = elapsedMs(start)
		return domains, stats
	}

	if level >= 2 {
		passes := 1
		if level >= 3 {
			passes = maxArcPasses
		}
		for p := 0; p < passes; p++ {
			eliminated := arcConsistencyPass(problem, cs, domains)
			stats.ValuesEliminated += eliminated
			if anyEmpty(domains) {
				stats.Infeasible = true
				break
			}
			if eliminated == 0 {
				break
			}
		}
	}

	if level >= 3 && !stats.Infeasible {
		stats.ValuesEliminated += singletonPropagation(problem, cs, domains)
		if anyEmpty(domains) {
			stats.Infeasible = true
		}
	}

	stats.ElapsedMs = elapsedMs(start)
	return domains, stats
}

func buildRawDomains(problem domain.Problem) map[string]*domain.CandidateDomain {
	domains := make(map[string]*domain.CandidateDomain, len(problem.Students()))
	for _, s := range problem.Students() {
		candidates := domain.BuildCandidates(problem.Teacher(), s)
		domains[s.Person().ID()] = domain.NewCandidateDomain(s.Person().ID(), candidates)
	}
	return domains
}

// nodeConsistency removes candidates that fail a unary hard check
// (availability, allowed duration) against an empty partial assignment
// — with no other commitments, pairwise constraints are trivially
// satisfied, so only the unary rules can fail here.
func nodeConsistency(problem domain.Problem, cs *domain.ConstraintSet, empty *domain.PartialAssignment, domains map[string]*domain.CandidateDomain) int {
	eliminated := 0
	for studentID, d := range domains {
		for idx, c := range d.Present() {
			assignment, err := c.ToAssignment(studentID)
			if err != nil || !cs.Validate(problem, empty, assignment) {
				d.Remove(idx)
				eliminated++
			}
		}
	}
	return eliminated
}

// arcConsistencyPass removes, for every ordered pair of students (s,
// t), any candidate of s that cannot coexist with ANY remaining
// candidate of t under the pairwise hard constraints.
func arcConsistencyPass(problem domain.Problem, cs *domain.ConstraintSet, domains map[string]*domain.CandidateDomain) int {
	eliminated := 0
	students := problem.Students()

	for _, s := range students {
		sID := s.Person().ID()
		sDomain := domains[sID]

		for _, t := range students {
			tID := t.Person().ID()
			if tID == sID {
				continue
			}
			tDomain := domains[tID]

			for idx, sc := range sDomain.Present() {
				if hasSupport(problem, cs, sID, sc, tID, tDomain) {
					continue
				}
				sDomain.Remove(idx)
				eliminated++
			}
		}
	}
	return eliminated
}

// hasSupport reports whether some remaining candidate of tDomain can
// coexist with sCandidate already committed for sID.
func hasSupport(problem domain.Problem, cs *domain.ConstraintSet, sID string, sCandidate domain.Candidate, tID string, tDomain *domain.CandidateDomain) bool {
	sAssignment, err := sCandidate.ToAssignment(sID)
	if err != nil {
		return false
	}
	partial := domain.NewPartialAssignment()
	partial.Add(sAssignment)

	for _, tc := range tDomain.Present() {
		tAssignment, err := tc.ToAssignment(tID)
		if err != nil {
			continue
		}
		if cs.Validate(problem, partial, tAssignment) {
			return true
		}
	}
	return false
}

// singletonPropagation pins every student whose domain has exactly one
// candidate and forward-checks the pinned assignment against every
// other student's domain, repeating until no new singleton appears.
func singletonPropagation(problem domain.Problem, cs *domain.ConstraintSet, domains map[string]*domain.CandidateDomain) int {
	eliminated := 0
	pinned := domain.NewPartialAssignment()
	alreadyPinned := make(map[string]bool)

	for {
		progressed := false
		for studentID, d := range domains {
			if alreadyPinned[studentID] || d.Size() != 1 {
				continue
			}
			var only domain.Candidate
			for _, c := range d.Present() {
				only = c
			}
			assignment, err := only.ToAssignment(studentID)
			if err != nil {
				continue
			}
			pinned.Add(assignment)
			alreadyPinned[studentID] = true
			progressed = true

			for otherID, otherDomain := range domains {
				if otherID == studentID {
					continue
				}
				for idx, oc := range otherDomain.Present() {
					oa, err := oc.ToAssignment(otherID)
					if err != nil || !cs.Validate(problem, pinned, oa) {
						otherDomain.Remove(idx)
						eliminated++
					}
				}
			}
		}
		if !progressed {
			break
		}
	}
	return eliminated
}

func anyEmpty(domains map[string]*domain.CandidateDomain) bool {
	for _, d := range domains {
		if d.IsEmpty() {
			return true
		}
	}
	return false
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
