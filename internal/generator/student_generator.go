package generator

import (
	"fmt"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// StudentTypeTag is a closed tagged variant of archetypal students the
// generator can produce, each biasing both availability pattern and
// preferred lesson length.
type StudentTypeTag int

const (
	StudentFlexible StudentTypeTag = iota
	StudentMorningPerson
	StudentEveningPerson
	StudentWeekendOnly
	StudentBusy
	StudentLongLesson
	StudentShortLesson
)

func (t StudentTypeTag) String() string {
	switch t {
	case StudentMorningPerson:
		return "morning_person"
	case StudentEveningPerson:
		return "evening_person"
	case StudentWeekendOnly:
		return "weekend_only"
	case StudentBusy:
		return "busy"
	case StudentLongLesson:
		return "long_lesson"
	case StudentShortLesson:
		return "short_lesson"
	default:
		return "flexible"
	}
}

func (t StudentTypeTag) availabilityPattern() PatternTag {
	switch t {
	case StudentMorningPerson:
		return PatternMorning
	case StudentEveningPerson:
		return PatternEvening
	case StudentWeekendOnly:
		return PatternWeekendOnly
	case StudentBusy:
		return PatternSparse
	default:
		return PatternRealistic
	}
}

func (t StudentTypeTag) preferredDuration() int {
	switch t {
	case StudentLongLesson:
		return 90
	case StudentShortLesson:
		return 30
	default:
		return 60
	}
}

var allStudentTypes = []StudentTypeTag{
	StudentFlexible, StudentMorningPerson, StudentEveningPerson,
	StudentWeekendOnly, StudentBusy, StudentLongLesson, StudentShortLesson,
}

// StudentTypeWeight biases StudentGenerator's random type draw towards
// a particular archetype.
type StudentTypeWeight struct {
	Type   StudentTypeTag
	Weight float64
}

// StudentGenerationParams configures a batch of generated students.
type StudentGenerationParams struct {
	Count int

	// TypeWeights biases the archetype draw; nil means uniform over
	// every StudentTypeTag.
	TypeWeights []StudentTypeWeight

	MaxLessonsPerWeek  int
	FragmentationLevel float64
	Timezone           string
}

// StudentGenerator produces a slice of StudentConfig, each with its own
// independently-seeded availability derived from this generator's RNG,
// so adding more students never perturbs earlier students' output for
// the same seed.
type StudentGenerator struct {
	rng *SeededRNG
}

func NewStudentGenerator(rng *SeededRNG) *StudentGenerator {
	return &StudentGenerator{rng: rng}
}

func (g *StudentGenerator) Generate(params StudentGenerationParams) ([]domain.StudentConfig, error) {
	maxLessons := params.MaxLessonsPerWeek
	if maxLessons <= 0 {
		maxLessons = 1
	}

	students := make([]domain.StudentConfig, 0, params.Count)
	for i := 0; i < params.Count; i++ {
		studentRNG := g.rng.Child("student", i)
		studentType := pickStudentType(studentRNG, params.TypeWeights)

		availGen := NewAvailabilityGenerator(studentRNG.Child("availability", 0))
		availability, err := availGen.Generate(AvailabilityParams{
			Pattern:            studentType.availabilityPattern(),
			MinBlock:           studentType.preferredDuration(),
			MaxBlock:           studentType.preferredDuration() * 3,
			FragmentationLevel: params.FragmentationLevel,
			Timezone:           params.Timezone,
		})
		if err != nil {
			return nil, fmt.Errorf("generate availability for student %d: %w", i, err)
		}

		person, err := domain.NewPerson(fmt.Sprintf("student-%d", i), fmt.Sprintf("Student %d", i), fmt.Sprintf("student%d@example.test", i))
		if err != nil {
			return nil, fmt.Errorf("construct person for student %d: %w", i, err)
		}

		student, err := domain.NewStudentConfig(person, studentType.preferredDuration(), nil, nil, maxLessons, availability)
		if err != nil {
			return nil, fmt.Errorf("construct student %d: %w", i, err)
		}
		students = append(students, student)
	}
	return students, nil
}

func pickStudentType(rng *SeededRNG, weights []StudentTypeWeight) StudentTypeTag {
	if len(weights) == 0 {
		return allStudentTypes[rng.Rand().Intn(len(allStudentTypes))]
	}
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return allStudentTypes[rng.Rand().Intn(len(allStudentTypes))]
	}
	pick := rng.Rand().Float64() * total
	for _, w := range weights {
		if pick < w.Weight {
			return w.Type
		}
		pick -= w.Weight
	}
	return weights[len(weights)-1].Type
}
