package generator

import (
	"context"
	"math/rand"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
	"github.com/lessonscheduler/solver/internal/solver"
)

// TargetConfig describes a generation run whose goal is a problem with
// a specific (or deliberately unsatisfiable) exact solution count.
type TargetConfig struct {
	// TargetK is the desired exact solution count. Zero is a special
	// case: rather than binary-searching towards an unreachable count
	// of zero, Generate deliberately constructs an infeasible problem
	// (a teacher with no availability at all).
	TargetK int64

	// Tolerance accepts any actual count within [TargetK-Tolerance,
	// TargetK+Tolerance] as a match.
	Tolerance int64

	MaxAttempts  int
	StudentCount int
	Strictness   StrictnessTag
	Seed         int64
}

// GenerationResult is what a KTargetGenerator run produced.
type GenerationResult struct {
	Problem  domain.Problem
	ActualK  int64
	Attempts int
	Exact    bool
}

// KTargetGenerator builds a Problem with a target exact solution count
// by binary-searching how much of the teacher's nominal
// availability window is trimmed away: a narrower window monotonically
// shrinks the solution count, so bisecting on that single scalar
// converges without needing to understand why any given problem is
// over- or under-constrained.
type KTargetGenerator struct {
	rng *SeededRNG
}

func NewKTargetGenerator(rng *SeededRNG) *KTargetGenerator {
	return &KTargetGenerator{rng: rng}
}

// Generate runs the binary search described above, stopping once the
// actual count lands within cfg.Tolerance of cfg.TargetK or
// cfg.MaxAttempts is exhausted.
func (g *KTargetGenerator) Generate(ctx context.Context, cfg TargetConfig) (GenerationResult, error) {
	if cfg.TargetK == 0 {
		return g.generateInfeasible(cfg)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 20
	}

	lo, hi := 0.0, 0.95 // fraction of the teacher's nominal window trimmed away
	best := GenerationResult{}
	countRNG := rand.New(rand.NewSource(cfg.Seed))
	kMax := cfg.TargetK*4 + 10

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		mid := (lo + hi) / 2
		problem, err := g.buildProblem(cfg, mid)
		if err != nil {
			return best, err
		}

		result := solver.CountSolutions(problem, kMax, 2000, countRNG)
		best = GenerationResult{Problem: problem, ActualK: result.Count, Attempts: attempt, Exact: result.Exact}

		diff := result.Count - cfg.TargetK
		if diff < 0 {
			diff = -diff
		}
		if diff <= cfg.Tolerance {
			return best, nil
		}

		// More trim (narrower availability) never increases the
		// solution count, so the count is monotone non-increasing in
		// trim: bisect towards more trim when still over target, less
		// trim when already under it.
		if result.Count > cfg.TargetK {
			lo = mid
		} else {
			hi = mid
		}
	}

	return best, solver.Error{
		Kind:    solver.ErrorKindGenerationExhausted,
		Message: "k-targeting exhausted its attempt budget without reaching the target solution count",
	}
}

// generateInfeasible builds a problem with a teacher that has zero
// availability blocks, guaranteeing BuildCandidates produces no
// candidates for any student and the count is exactly zero.
func (g *KTargetGenerator) generateInfeasible(cfg TargetConfig) (GenerationResult, error) {
	teacher, students, err := g.buildTeacherAndStudents(cfg, nil)
	if err != nil {
		return GenerationResult{}, err
	}
	problem := domain.NewProblem(teacher, students)
	return GenerationResult{Problem: problem, ActualK: 0, Attempts: 1, Exact: true}, nil
}

func (g *KTargetGenerator) buildProblem(cfg TargetConfig, trim float64) (domain.Problem, error) {
	teacher, students, err := g.buildTeacherAndStudents(cfg, &trim)
	if err != nil {
		return domain.Problem{}, err
	}
	return domain.NewProblem(teacher, students), nil
}

// buildTeacherAndStudents derives the teacher and student population
// from this generator's RNG, independent of the current binary search
// attempt, so only the trim fraction changes between iterations. trim
// nil means "no availability at all" (the infeasible case).
func (g *KTargetGenerator) buildTeacherAndStudents(cfg TargetConfig, trim *float64) (domain.TeacherConfig, []domain.StudentConfig, error) {
	teacherRNG := g.rng.Child("teacher", 0)

	constraintGen := NewConstraintGenerator(teacherRNG.Child("constraints", 0))
	constraints, err := constraintGen.Generate(ConstraintParams{Strictness: cfg.Strictness})
	if err != nil {
		return domain.TeacherConfig{}, nil, err
	}

	var availability domain.WeekSchedule
	if trim == nil {
		availability, err = domain.NewEmptyWeekSchedule("UTC")
		if err != nil {
			return domain.TeacherConfig{}, nil, err
		}
	} else {
		windowFraction := 1.0 - *trim
		if windowFraction < 0.05 {
			windowFraction = 0.05
		}
		availGen := NewAvailabilityGenerator(teacherRNG.Child("availability", 0))
		availability, err = availGen.Generate(AvailabilityParams{
			Pattern:            PatternFullTime,
			MinBlock:           constraints.MinLessonDuration(),
			MaxBlock:           maxInt(constraints.MinLessonDuration(), int(float64(constraints.MaxLessonDuration())*windowFraction)),
			FragmentationLevel: 0.2,
		})
		if err != nil {
			return domain.TeacherConfig{}, nil, err
		}
	}

	person, err := domain.NewPerson("teacher-1", "Generated Teacher", "teacher@example.test")
	if err != nil {
		return domain.TeacherConfig{}, nil, err
	}
	teacher, err := domain.NewTeacherConfig(person, "studio-1", availability, constraints)
	if err != nil {
		return domain.TeacherConfig{}, nil, err
	}

	studentGen := NewStudentGenerator(teacherRNG.Child("students", 0))
	students, err := studentGen.Generate(StudentGenerationParams{
		Count:              cfg.StudentCount,
		MaxLessonsPerWeek:  1,
		FragmentationLevel: 0.2,
	})
	if err != nil {
		return domain.TeacherConfig{}, nil, err
	}

	return teacher, students, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
