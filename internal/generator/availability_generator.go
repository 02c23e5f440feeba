package generator

import (
	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// PatternTag is a closed tagged variant selecting a shape of weekly
// availability a generated teacher or student might plausibly have.
type PatternTag int

const (
	PatternWorkingHours PatternTag = iota
	PatternEvening
	PatternMorning
	PatternFragmented
	PatternPeakTime
	PatternSparse
	PatternWeekendOnly
	PatternWeekdayOnly
	PatternFullTime
	PatternRealistic
)

func (p PatternTag) String() string {
	switch p {
	case PatternEvening:
		return "evening"
	case PatternMorning:
		return "morning"
	case PatternFragmented:
		return "fragmented"
	case PatternPeakTime:
		return "peak_time"
	case PatternSparse:
		return "sparse"
	case PatternWeekendOnly:
		return "weekend_only"
	case PatternWeekdayOnly:
		return "weekday_only"
	case PatternFullTime:
		return "full_time"
	case PatternRealistic:
		return "realistic"
	default:
		return "working_hours"
	}
}

type patternWindow struct {
	days  []int
	start domain.Minute
	end   domain.Minute
}

func windowFor(pattern PatternTag) patternWindow {
	switch pattern {
	case PatternEvening:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 1080, end: 1320} // 18:00-22:00
	case PatternMorning:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 360, end: 720} // 06:00-12:00
	case PatternPeakTime:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 900, end: 1140} // 15:00-19:00
	case PatternSparse:
		return patternWindow{days: []int{1, 3}, start: 540, end: 660} // Tue/Thu 09:00-11:00
	case PatternWeekendOnly:
		return patternWindow{days: []int{5, 6}, start: 540, end: 1020} // 09:00-17:00
	case PatternWeekdayOnly:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 540, end: 1020}
	case PatternFullTime:
		return patternWindow{days: []int{0, 1, 2, 3, 4, 5, 6}, start: 480, end: 1260} // 08:00-21:00
	case PatternFragmented:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 480, end: 1200}
	case PatternRealistic:
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 540, end: 1140}
	default: // PatternWorkingHours
		return patternWindow{days: []int{0, 1, 2, 3, 4}, start: 540, end: 1020}
	}
}

// AvailabilityParams configures one generated week of availability.
type AvailabilityParams struct {
	Pattern PatternTag

	// MinBlock/MaxBlock bound generated block lengths, in minutes.
	MinBlock int
	MaxBlock int

	// FragmentationLevel in [0,1]: 0 places a single contiguous block
	// (MinBlock..MaxBlock minutes long) at the start of each day's
	// window, higher values split the window into more segments with
	// one block each, separated by gaps (feeds the constraint graph's
	// density and the difficulty score).
	FragmentationLevel float64

	Timezone string
}

// AvailabilityGenerator builds a WeekSchedule for one of the closed
// pattern tags, fragmenting the pattern's nominal window according to
// FragmentationLevel.
type AvailabilityGenerator struct {
	rng *SeededRNG
}

func NewAvailabilityGenerator(rng *SeededRNG) *AvailabilityGenerator {
	return &AvailabilityGenerator{rng: rng}
}

// Generate builds one WeekSchedule per the Pattern's nominal days and
// window, independently fragmenting each day.
func (g *AvailabilityGenerator) Generate(params AvailabilityParams) (domain.WeekSchedule, error) {
	timezone := params.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	week, err := domain.NewEmptyWeekSchedule(timezone)
	if err != nil {
		return domain.WeekSchedule{}, err
	}

	win := windowFor(params.Pattern)
	minBlock, maxBlock := params.MinBlock, params.MaxBlock
	if minBlock <= 0 {
		minBlock = 30
	}
	if maxBlock < minBlock {
		maxBlock = minBlock
	}

	for _, day := range win.days {
		blocks, err := g.dayBlocks(win.start, win.end, minBlock, maxBlock, params.FragmentationLevel)
		if err != nil {
			return domain.WeekSchedule{}, err
		}
		ds, err := domain.NewCanonicalDaySchedule(day, blocks)
		if err != nil {
			return domain.WeekSchedule{}, err
		}
		week, err = week.WithDay(ds)
		if err != nil {
			return domain.WeekSchedule{}, err
		}
	}
	return week, nil
}

// dayBlocks splits [start,end) into 1..5 segments (scaled by
// fragmentation) and places one randomly-sized, randomly-positioned
// block in each segment large enough to hold minBlock.
func (g *AvailabilityGenerator) dayBlocks(start, end domain.Minute, minBlock, maxBlock int, fragmentation float64) ([]domain.TimeBlock, error) {
	windowLen := int(end - start)
	if windowLen < minBlock {
		return nil, nil
	}

	segments := 1 + int(fragmentation*4)
	if maxSegments := windowLen / minBlock; segments > maxSegments {
		segments = maxSegments
	}
	if segments < 1 {
		segments = 1
	}

	segmentLen := windowLen / segments
	rng := g.rng.Rand()
	blocks := make([]domain.TimeBlock, 0, segments)
	cursor := int(start)

	for i := 0; i < segments; i++ {
		segStart := cursor
		segEnd := segStart + segmentLen
		if i == segments-1 {
			segEnd = int(end)
		}
		available := segEnd - segStart
		if available < minBlock {
			cursor = segEnd
			continue
		}

		upper := maxBlock
		if upper > available {
			upper = available
		}
		length := minBlock
		if upper > minBlock {
			length = minBlock + rng.Intn(upper-minBlock+1)
		}

		blockStart := segStart
		if slack := available - length; slack > 0 && segments > 1 {
			blockStart += rng.Intn(slack + 1)
		}

		block, err := domain.NewTimeBlock(domain.Minute(blockStart), length)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		cursor = segEnd
	}
	return blocks, nil
}
