package solver

import (
	"context"
	"fmt"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// Validate reports every structural problem with problem that the
// domain constructors don't already reject at construction time:
// cross-cutting feasibility issues such as a student whose duration
// bounds share nothing with the teacher's allowed durations, or a
// party with no availability at all. An empty result does not
// guarantee a solution exists — only that the problem isn't trivially
// malformed.
func Validate(problem domain.Problem) []string {
	var errs []string

	teacher := problem.Teacher()
	if weekIsEmpty(teacher.Availability()) {
		errs = append(errs, "teacher has no availability on any day")
	}

	for _, s := range problem.Students() {
		id := s.Person().ID()
		if weekIsEmpty(s.Availability()) {
			errs = append(errs, fmt.Sprintf("student %s has no availability on any day", id))
		}
		if !hasCompatibleDuration(teacher.Constraints(), s) {
			errs = append(errs, fmt.Sprintf("student %s's duration bounds share no value with the teacher's allowed durations", id))
		}
	}

	return errs
}

func weekIsEmpty(week domain.WeekSchedule) bool {
	for _, day := range week.Days() {
		if len(day.Blocks()) > 0 {
			return false
		}
	}
	return true
}

func hasCompatibleDuration(constraints domain.SchedulingConstraints, student domain.StudentConfig) bool {
	for _, d := range constraints.AllowedDurations() {
		if student.AllowsDuration(d) {
			return true
		}
	}
	return false
}

// Solve is the package-level convenience entry point: build an Engine
// with opts and run it to completion.
func Solve(ctx context.Context, problem domain.Problem, opts SolveOptions) (domain.ScheduleSolution, error) {
	return NewEngine(problem, opts).Solve(ctx)
}

// CreateOptimalSolver returns an Engine pre-configured by
// CreateOptimalConfig for problem's student count, picking a preset
// tuned to that scale instead of leaving every dial at its default.
func CreateOptimalSolver(problem domain.Problem) *Engine {
	return NewEngine(problem, CreateOptimalConfig(len(problem.Students())))
}
