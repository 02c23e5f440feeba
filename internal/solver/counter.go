package solver

import (
	"math/rand"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// exactThreshold bounds the product of domain sizes below which exact
// DFS enumeration is used; above it, Monte-Carlo sampling estimates
// the count instead: Π|D(s)| <= threshold_exact uses exact counting,
// since the search tree is small enough to walk in full. The test is on
// the product of the domain sizes, not their sum.
const exactThreshold = 1_000_000

// CountResult reports how many distinct full solutions a problem
// admits, or an importance-weighted estimate when exact enumeration
// would be too expensive.
type CountResult struct {
	Count      int64
	Exact      bool
	Confidence float64 // only meaningful when Exact is false
	Capped     bool     // true if exact counting hit KMax and stopped early
}

// CountSolutions counts full (every student scheduled) solutions to
// problem, choosing between exact enumeration and Monte-Carlo
// importance sampling based on the preprocessed domain sizes. kMax
// bounds the exact count (a generator asking "is k >= 500?" doesn't
// need the 9000th solution enumerated to know the answer).
func CountSolutions(problem domain.Problem, kMax int64, sampleCount int, rng *rand.Rand) CountResult {
	domains, pstats := Preprocess(problem, 2)
	if pstats.Infeasible {
		return CountResult{Count: 0, Exact: true}
	}

	variables := studentVariables(problem)
	if len(variables) == 0 {
		return CountResult{Count: 1, Exact: true}
	}

	product := domainSizeProduct(variables, domains)
	if product <= exactThreshold {
		return countExact(problem, domains, variables, kMax)
	}
	return countMonteCarlo(problem, domains, variables, sampleCount, rng)
}

func domainSizeProduct(variables []string, domains map[string]*domain.CandidateDomain) int64 {
	product := int64(1)
	for _, id := range variables {
		product *= int64(domains[id].Size())
		if product > exactThreshold {
			return product
		}
	}
	return product
}

// countExact performs full DFS enumeration with forward checking,
// stopping once kMax distinct solutions have been found.
func countExact(problem domain.Problem, domains map[string]*domain.CandidateDomain, variables []string, kMax int64) CountResult {
	cs := domain.NewConstraintSet()
	partial := domain.NewPartialAssignment()
	var count int64
	capped := false

	var dfs func(remaining []string)
	dfs = func(remaining []string) {
		if capped {
			return
		}
		if len(remaining) == 0 {
			count++
			if kMax > 0 && count >= kMax {
				capped = true
			}
			return
		}

		studentID := remaining[0]
		rest := remaining[1:]
		d := domains[studentID]

		for _, c := range d.Present() {
			if capped {
				return
			}
			assignment, err := c.ToAssignment(studentID)
			if err != nil || !cs.Validate(problem, partial, assignment) {
				continue
			}
			partial.Add(assignment)
			marks := forwardCheck(problem, cs, domains, rest, partial)
			if !anyEmptyAmong(domains, rest) {
				dfs(rest)
			}
			restoreForwardCheck(domains, marks)
			partial.Remove(assignment)
		}
	}

	dfs(variables)
	return CountResult{Count: count, Exact: true, Capped: capped}
}

// countMonteCarlo estimates the solution count by sampling complete
// assignments one variable at a time with rejection, weighting each
// accepted sample by the inverse of the probability it was reachable
// under this proposal distribution (importance sampling), then
// scaling by the unconstrained search space size.
func countMonteCarlo(problem domain.Problem, domains map[string]*domain.CandidateDomain, variables []string, sampleCount int, rng *rand.Rand) CountResult {
	cs := domain.NewConstraintSet()
	ids := uniqueIDs(variables)
	spaceSize := 1.0
	for _, id := range ids {
		spaceSize *= float64(domains[id].Size())
	}

	successes := 0
	var weightedSum float64

	for i := 0; i < sampleCount; i++ {
		partial := domain.NewPartialAssignment()
		ok := true
		proposalProb := 1.0

		for _, id := range ids {
			d := domains[id]
			present := presentIndices(d)
			if len(present) == 0 {
				ok = false
				break
			}
			choice := present[rng.Intn(len(present))]
			proposalProb *= 1.0 / float64(len(present))
			assignment, err := d.At(choice).ToAssignment(id)
			if err != nil || !cs.Validate(problem, partial, assignment) {
				ok = false
				break
			}
			partial.Add(assignment)
		}

		if ok {
			successes++
			weightedSum += 1.0 / proposalProb
		}
	}

	if sampleCount == 0 {
		return CountResult{Count: 0, Exact: false, Confidence: 0}
	}

	estimate := weightedSum / float64(sampleCount)
	confidence := wilsonConfidence(successes, sampleCount)

	return CountResult{
		Count:      int64(estimate),
		Exact:      false,
		Confidence: confidence,
	}
}

func presentIndices(d *domain.CandidateDomain) []int {
	indices := make([]int, 0, d.Size())
	for idx := range d.Present() {
		indices = append(indices, idx)
	}
	return indices
}

// wilsonConfidence gives a rough [0,1] confidence score for a
// successes/trials Bernoulli rate — used only as a reporting signal
// for how much to trust the Monte-Carlo estimate, not as a rigorous
// statistical bound.
func wilsonConfidence(successes, trials int) float64 {
	if trials == 0 {
		return 0
	}
	p := float64(successes) / float64(trials)
	spread := 1.0 / (1.0 + float64(trials)/100.0)
	return clampConfidence(1.0 - spread*(1.0-2*absDist(p, 0.5)))
}

func absDist(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
