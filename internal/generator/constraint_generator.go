package generator

import "github.com/lessonscheduler/solver/internal/scheduling/domain"

// StrictnessTag is a closed tagged variant controlling how tightly a
// generated SchedulingConstraints bounds the search space.
type StrictnessTag int

const (
	StrictnessLoose StrictnessTag = iota
	StrictnessModerate
	StrictnessTight
	StrictnessExtreme
)

func (s StrictnessTag) String() string {
	switch s {
	case StrictnessModerate:
		return "moderate"
	case StrictnessTight:
		return "tight"
	case StrictnessExtreme:
		return "extreme"
	default:
		return "loose"
	}
}

// ConstraintParams configures one generated SchedulingConstraints.
type ConstraintParams struct {
	Strictness StrictnessTag

	// AllowedDurations overrides the strictness-scaled default set.
	AllowedDurations []int
	BackToBack       domain.BackToBackPreference
}

// ConstraintGenerator builds SchedulingConstraints scaled by a
// StrictnessTag rather than requiring callers to hand-tune every dial.
type ConstraintGenerator struct{ rng *SeededRNG }

func NewConstraintGenerator(rng *SeededRNG) *ConstraintGenerator {
	return &ConstraintGenerator{rng: rng}
}

func (g *ConstraintGenerator) Generate(params ConstraintParams) (domain.SchedulingConstraints, error) {
	durations := params.AllowedDurations
	if len(durations) == 0 {
		durations = defaultDurationsFor(params.Strictness)
	}

	minDur, maxDur := durations[0], durations[0]
	for _, d := range durations {
		if d < minDur {
			minDur = d
		}
		if d > maxDur {
			maxDur = d
		}
	}

	maxConsecutive, breakMinutes := strictnessDials(params.Strictness, maxDur)

	return domain.NewSchedulingConstraints(maxConsecutive, breakMinutes, minDur, maxDur, durations, params.BackToBack)
}

func defaultDurationsFor(strictness StrictnessTag) []int {
	switch strictness {
	case StrictnessModerate:
		return []int{45, 60}
	case StrictnessTight:
		return []int{60}
	case StrictnessExtreme:
		return []int{90}
	default:
		return []int{30, 45, 60, 90}
	}
}

// strictnessDials scales the max-consecutive-minutes ceiling and
// required break length with strictness: looser constraints allow
// longer unbroken runs and no mandatory break.
func strictnessDials(strictness StrictnessTag, maxDur int) (maxConsecutive, breakMinutes int) {
	switch strictness {
	case StrictnessModerate:
		return maxDur * 3, 10
	case StrictnessTight:
		return maxDur * 2, 15
	case StrictnessExtreme:
		return maxDur, 20
	default:
		return maxDur * 6, 0
	}
}
