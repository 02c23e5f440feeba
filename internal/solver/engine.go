package solver

import (
	"context"
	"strings"
	"time"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/lessonscheduler/solver/internal/solver/trace"
	"github.com/lessonscheduler/solver/pkg/observability"
)

// pollInterval is how many search nodes pass between cooperative yield
// checks (ctx cancellation, time budget) — frequent enough to honor a
// tight MaxTimeMs, cheap enough not to dominate runtime.
const pollInterval = 256

// PollFunc lets a caller hook into the search loop's cooperative yield
// point, e.g. to drive a progress bar or abort on an external signal.
// Returning false stops the search early, same as a budget timeout.
type PollFunc func() bool

// Engine runs the backtracking search over one Problem: forward
// checking via CandidateDomain's trail, MRV+degree variable ordering
// and LCV+preference value ordering, an optional consistency
// cache, and branch-and-bound pruning against the
// best-scheduled-count found so far.
type Engine struct {
	problem domain.Problem
	opts    SolveOptions
	cs      *domain.ConstraintSet
	cache   *ConsistencyCache
	Poll    PollFunc

	// Metrics receives per-solve Counter/Gauge/Timing calls (backtracks,
	// constraint checks, deepest depth, cache hit rate, overall
	// duration). Defaults to a no-op so callers that don't care about
	// observability pay nothing for it.
	Metrics observability.Metrics

	// Trace, when non-nil, publishes VISUALIZE=true search events for
	// every node expansion, backtrack, and the final solution.
	Trace *trace.Tracer

	start   time.Time
	total   int
	best    int
	bestPA  *domain.PartialAssignment
	found   bool
	timeUp  bool
	nodes   int

	Backtracks       int
	ConstraintChecks int
	DeepestDepth     int
}

// NewEngine constructs a search engine for problem under opts.
func NewEngine(problem domain.Problem, opts SolveOptions) *Engine {
	cacheSize := 0
	if opts.EnableCaching {
		cacheSize = opts.MaxCacheSize
	}
	return &Engine{
		problem: problem,
		opts:    opts,
		cs:      domain.NewConstraintSet(),
		cache:   NewConsistencyCache(cacheSize),
		Metrics: observability.NoopMetrics{},
	}
}

// Solve runs preprocessing then backtracking search, returning the
// best schedule found. A non-nil error is only returned for
// InvalidInput, Infeasible (preprocessing proved no solution exists),
// or Timeout (the budget ran out before any candidate leaf was ever
// reached). A budget that expires after some progress was made is not
// an error: the best partial schedule found is returned with
// Metadata.TimedOut set, since it is still useful to the caller.
func (e *Engine) Solve(ctx context.Context) (domain.ScheduleSolution, error) {
	e.ensureMetrics()
	timer := observability.StartTimer("solver.solve").WithMetrics(e.Metrics)
	solution, err := e.solve(ctx)
	timer.StopWithError(err)
	e.recordSearchMetrics()
	if err == nil {
		e.Trace.SolutionFound(ctx, solution.Metadata.ScheduledStudents, solution.Metadata.TotalStudents, solution.Metadata.ComputeTimeMs, solution.Metadata.TimedOut)
	}
	return solution, err
}

func (e *Engine) solve(ctx context.Context) (domain.ScheduleSolution, error) {
	if errs := Validate(e.problem); len(errs) > 0 {
		return domain.ScheduleSolution{}, newError(ErrorKindInvalidInput, strings.Join(errs, "; "))
	}

	domains, pstats := Preprocess(e.problem, e.opts.PreprocessingLevel)
	if pstats.Infeasible {
		return domain.ScheduleSolution{}, newError(ErrorKindInfeasible, "no candidate values remain after preprocessing")
	}

	variables := studentVariables(e.problem)
	e.total = len(variables)
	e.start = time.Now()

	if e.total == 0 {
		return domain.ScheduleSolution{
			Metadata: domain.SolutionMetadata{ComputeTimeMs: elapsedMs(e.start)},
		}, nil
	}

	partial := domain.NewPartialAssignment()
	e.search(ctx, domains, variables, partial, 0)

	if e.bestPA == nil {
		return domain.ScheduleSolution{}, newError(ErrorKindTimeout, "time budget exceeded before any candidate could be evaluated")
	}

	return e.buildSolution(e.bestPA), nil
}

// ensureMetrics protects callers that build an Engine via struct literal
// instead of NewEngine from a nil Metrics field.
func (e *Engine) ensureMetrics() {
	if e.Metrics == nil {
		e.Metrics = observability.NoopMetrics{}
	}
}

// recordSearchMetrics flows the search engine's internal counters
// (Backtracks/ConstraintChecks/DeepestDepth) and the consistency cache's
// hit rate into Metrics, once per Solve/SolveIncremental call.
func (e *Engine) recordSearchMetrics() {
	e.Metrics.Counter(observability.MetricEngineBacktracks, int64(e.Backtracks))
	e.Metrics.Counter(observability.MetricEngineConstraintChecks, int64(e.ConstraintChecks))
	e.Metrics.Gauge(observability.MetricEngineDeepestDepth, float64(e.DeepestDepth))
	if e.cache != nil {
		e.Metrics.Gauge(observability.MetricEngineCacheHitRate, e.cache.HitRate())
	}
}

// SolveIncremental re-solves problem while pinning every assignment in
// prior that is still structurally consistent, only searching over
// the students that need a new slot: most of the week doesn't change
// when one student's availability does.
func (e *Engine) SolveIncremental(ctx context.Context, prior domain.ScheduleSolution) (domain.ScheduleSolution, error) {
	e.ensureMetrics()
	timer := observability.StartTimer("solver.solve_incremental").WithMetrics(e.Metrics)
	solution, err := e.solveIncremental(ctx, prior)
	timer.StopWithError(err)
	e.recordSearchMetrics()
	if err == nil {
		e.Trace.SolutionFound(ctx, solution.Metadata.ScheduledStudents, solution.Metadata.TotalStudents, solution.Metadata.ComputeTimeMs, solution.Metadata.TimedOut)
	}
	return solution, err
}

func (e *Engine) solveIncremental(ctx context.Context, prior domain.ScheduleSolution) (domain.ScheduleSolution, error) {
	if errs := Validate(e.problem); len(errs) > 0 {
		return domain.ScheduleSolution{}, newError(ErrorKindInvalidInput, strings.Join(errs, "; "))
	}

	domains, pstats := Preprocess(e.problem, e.opts.PreprocessingLevel)
	if pstats.Infeasible {
		return domain.ScheduleSolution{}, newError(ErrorKindInfeasible, "no candidate values remain after preprocessing")
	}

	pinned := domain.NewPartialAssignment()
	for _, a := range prior.Assignments {
		if _, found := e.problem.Student(a.StudentID()); !found {
			continue
		}
		if !e.cs.Validate(e.problem, pinned, a) {
			continue
		}
		pinned.Add(a)
	}

	// drop one occurrence of v per already-pinned lesson for that student
	variables := dropPinnedOccurrences(studentVariables(e.problem), pinned)

	e.total = len(variables) + len(pinned.All())
	e.start = time.Now()
	e.search(ctx, domains, variables, pinned, 0)

	if e.bestPA == nil {
		return domain.ScheduleSolution{}, newError(ErrorKindTimeout, "time budget exceeded before any candidate could be evaluated")
	}
	return e.buildSolution(e.bestPA), nil
}

func dropPinnedOccurrences(variables []string, pinned *domain.PartialAssignment) []string {
	remaining := make(map[string]int)
	for _, v := range variables {
		remaining[v]++
	}
	for _, a := range pinned.All() {
		if remaining[a.StudentID()] > 0 {
			remaining[a.StudentID()]--
		}
	}
	out := make([]string, 0, len(variables))
	for _, v := range variables {
		if remaining[v] > 0 {
			out = append(out, v)
			remaining[v]--
		}
	}
	return out
}

// studentVariables expands each student into one variable-slot per
// weekly lesson it needs (maxLessonsPerWeek repeats of its ID), so a
// student needing 2 lessons/week occupies two search variables whose
// candidates are forward-checked against each other via the ordinary
// no-overlap and per-student-lessons constraints.
func studentVariables(problem domain.Problem) []string {
	variables := make([]string, 0)
	for _, s := range problem.Students() {
		for i := 0; i < s.MaxLessonsPerWeek(); i++ {
			variables = append(variables, s.Person().ID())
		}
	}
	return variables
}

func (e *Engine) search(ctx context.Context, domains map[string]*domain.CandidateDomain, remaining []string, partial *domain.PartialAssignment, depth int) {
	e.nodes++
	if depth > e.DeepestDepth {
		e.DeepestDepth = depth
	}
	if e.nodes%pollInterval == 0 && !e.withinBudget(ctx) {
		e.timeUp = true
		return
	}
	if e.found || e.timeUp {
		return
	}

	scheduled := len(partial.All())
	upperBound := scheduled + len(remaining)
	if upperBound <= e.best {
		return
	}

	if len(remaining) == 0 {
		if scheduled > e.best {
			e.best = scheduled
			e.bestPA = partial.Clone()
		}
		if scheduled == e.total {
			e.found = true
		}
		return
	}

	studentID := SelectVariable(remaining, domains)
	rest := removeFirst(remaining, studentID)
	d := domains[studentID]
	e.Trace.NodeExpanded(ctx, depth, studentID, len(remaining), d.Size())

	for _, idx := range OrderValues(e.problem, e.cs, partial, studentID, d, domains) {
		if e.found || e.timeUp {
			return
		}
		candidate := d.At(idx)
		assignment, err := candidate.ToAssignment(studentID)
		if err != nil {
			continue
		}

		e.ConstraintChecks++
		check := e.checkWithCache(partial, assignment)
		if !check.OK {
			continue
		}

		partial.Add(assignment)
		marks := forwardCheck(e.problem, e.cs, domains, rest, partial)
		if !anyEmptyAmong(domains, rest) {
			e.search(ctx, domains, rest, partial, depth+1)
		}
		restoreForwardCheck(domains, marks)
		partial.Remove(assignment)
		e.Backtracks++
		e.Trace.Backtrack(ctx, depth, studentID, "search resumed after exhausting this branch")

		if e.earlyTerminationHit() {
			return
		}
	}

	if !e.found && !e.timeUp {
		e.search(ctx, domains, rest, partial, depth+1)
	}
}

func (e *Engine) checkWithCache(partial *domain.PartialAssignment, assignment domain.LessonAssignment) domain.CheckResult {
	if e.cache == nil || e.opts.MaxCacheSize <= 0 {
		return e.cs.Check(e.problem, partial, assignment)
	}
	sig := Signature(partial, assignment)
	if cached, ok := e.cache.Get(sig); ok {
		return cached
	}
	result := e.cs.Check(e.problem, partial, assignment)
	e.cache.Put(sig, result)
	return result
}

func (e *Engine) withinBudget(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if e.Poll != nil && !e.Poll() {
		return false
	}
	if e.opts.MaxTimeMs <= 0 {
		return true
	}
	return time.Since(e.start) < time.Duration(e.opts.MaxTimeMs)*time.Millisecond
}

func (e *Engine) earlyTerminationHit() bool {
	if !e.opts.EnableEarlyTermination || e.total == 0 {
		return false
	}
	pct := float64(e.best) / float64(e.total) * 100
	return pct >= float64(e.opts.EarlyTerminationThreshold)
}

func (e *Engine) buildSolution(partial *domain.PartialAssignment) domain.ScheduleSolution {
	students := e.problem.Students()
	unscheduled := make([]string, 0)
	for _, s := range students {
		if partial.CountForStudent(s.Person().ID()) == 0 {
			unscheduled = append(unscheduled, s.Person().ID())
		}
	}

	scheduledStudents := len(students) - len(unscheduled)
	utilization := 0.0
	if len(students) > 0 {
		utilization = float64(scheduledStudents) / float64(len(students))
	}

	return domain.ScheduleSolution{
		Assignments: partial.All(),
		Unscheduled: unscheduled,
		Metadata: domain.SolutionMetadata{
			TotalStudents:      len(students),
			ScheduledStudents:  scheduledStudents,
			AverageUtilization: utilization,
			ComputeTimeMs:      elapsedMs(e.start),
			TimedOut:           e.timeUp,
		},
	}
}

// forwardCheck prunes, from every still-unassigned student's domain,
// any candidate now hard-inconsistent with partial. Returns the
// restore marks the caller must pass to restoreForwardCheck on
// backtrack.
func forwardCheck(problem domain.Problem, cs *domain.ConstraintSet, domains map[string]*domain.CandidateDomain, remaining []string, partial *domain.PartialAssignment) map[string]int {
	marks := make(map[string]int)
	for _, id := range uniqueIDs(remaining) {
		d := domains[id]
		marks[id] = d.Mark()
		for idx, c := range d.Present() {
			assignment, err := c.ToAssignment(id)
			if err != nil || !cs.Validate(problem, partial, assignment) {
				d.Remove(idx)
			}
		}
	}
	return marks
}

func restoreForwardCheck(domains map[string]*domain.CandidateDomain, marks map[string]int) {
	for id, mark := range marks {
		domains[id].RestoreTo(mark)
	}
}

func anyEmptyAmong(domains map[string]*domain.CandidateDomain, ids []string) bool {
	for _, id := range uniqueIDs(ids) {
		if domains[id].IsEmpty() {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func removeFirst(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	removed := false
	for _, id := range ids {
		if !removed && id == target {
			removed = true
			continue
		}
		out = append(out, id)
	}
	return out
}
