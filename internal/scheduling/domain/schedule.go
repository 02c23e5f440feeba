package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDayOfWeek  = errors.New("dayOfWeek must be in [0, 6]")
	ErrDayScheduleBlocks = errors.New("day schedule blocks must be sorted, non-overlapping, and non-touching")
	ErrWeekScheduleDays  = errors.New("week schedule must index days by dayOfWeek")
	ErrInvalidTimezone   = errors.New("timezone must not be empty")
)

// DaysPerWeek is the number of DaySchedules a WeekSchedule holds.
const DaysPerWeek = 7

// DayStats is a pure function of a DaySchedule's blocks; when present on
// a serialized DaySchedule it must equal the recomputed value.
type DayStats struct {
	TotalAvailable     int
	LargestBlock       int
	FragmentationScore float64
}

// DaySchedule holds the canonical (sorted, merged) availability blocks
// for a single day of week.
type DaySchedule struct {
	dayOfWeek int
	blocks    []TimeBlock
}

// NewDaySchedule validates that blocks are already canonical (sorted,
// non-overlapping, non-touching) and constructs a DaySchedule. Callers
// that have raw, possibly-overlapping blocks should run them through
// MergeBlocks first — NewDaySchedule rejects, it does not repair.
func NewDaySchedule(dayOfWeek int, blocks []TimeBlock) (DaySchedule, error) {
	if dayOfWeek < 0 || dayOfWeek >= DaysPerWeek {
		return DaySchedule{}, ErrInvalidDayOfWeek
	}
	if !isCanonical(blocks) {
		return DaySchedule{}, ErrDayScheduleBlocks
	}
	cp := make([]TimeBlock, len(blocks))
	copy(cp, blocks)
	return DaySchedule{dayOfWeek: dayOfWeek, blocks: cp}, nil
}

// NewCanonicalDaySchedule merges raw blocks before constructing, so it
// never rejects on ordering or overlap — only on an invalid dayOfWeek.
func NewCanonicalDaySchedule(dayOfWeek int, rawBlocks []TimeBlock) (DaySchedule, error) {
	return NewDaySchedule(dayOfWeek, MergeBlocks(rawBlocks))
}

func isCanonical(blocks []TimeBlock) bool {
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		if cur.start < prev.start {
			return false
		}
		if cur.OverlapsWith(prev) || cur.Touches(prev) {
			return false
		}
	}
	return true
}

func (ds DaySchedule) DayOfWeek() int { return ds.dayOfWeek }

// Blocks returns a copy of the day's canonical blocks.
func (ds DaySchedule) Blocks() []TimeBlock {
	cp := make([]TimeBlock, len(ds.blocks))
	copy(cp, ds.blocks)
	return cp
}

// Stats recomputes the DayStats metadata from the current blocks.
func (ds DaySchedule) Stats() DayStats {
	total := 0
	largest := 0
	for _, b := range ds.blocks {
		total += b.duration
		if b.duration > largest {
			largest = b.duration
		}
	}
	return DayStats{
		TotalAvailable:     total,
		LargestBlock:       largest,
		FragmentationScore: Fragmentation(ds.blocks),
	}
}

// ContainsInterval reports whether some block on this day fully
// contains [start, start+duration).
func (ds DaySchedule) ContainsInterval(start Minute, duration int) bool {
	for _, b := range ds.blocks {
		if b.Contains(start, duration) {
			return true
		}
	}
	return false
}

// Intersect returns the canonical overlap of ds and other; both must
// share the same dayOfWeek.
func (ds DaySchedule) Intersect(other DaySchedule) (DaySchedule, error) {
	if ds.dayOfWeek != other.dayOfWeek {
		return DaySchedule{}, fmt.Errorf("cannot intersect day %d with day %d", ds.dayOfWeek, other.dayOfWeek)
	}
	return DaySchedule{
		dayOfWeek: ds.dayOfWeek,
		blocks:    IntersectBlocks(ds.blocks, other.blocks),
	}, nil
}

// WeekSchedule holds exactly seven DaySchedules indexed by dayOfWeek.
type WeekSchedule struct {
	days     [DaysPerWeek]DaySchedule
	timezone string
}

// NewWeekSchedule validates that days[i].dayOfWeek == i for all i.
func NewWeekSchedule(days [DaysPerWeek]DaySchedule, timezone string) (WeekSchedule, error) {
	if timezone == "" {
		return WeekSchedule{}, ErrInvalidTimezone
	}
	for i, d := range days {
		if d.dayOfWeek != i {
			return WeekSchedule{}, ErrWeekScheduleDays
		}
	}
	return WeekSchedule{days: days, timezone: timezone}, nil
}

// NewEmptyWeekSchedule returns a WeekSchedule with no availability on
// any day, useful as a generator starting point.
func NewEmptyWeekSchedule(timezone string) (WeekSchedule, error) {
	var days [DaysPerWeek]DaySchedule
	for i := range days {
		ds, err := NewDaySchedule(i, nil)
		if err != nil {
			return WeekSchedule{}, err
		}
		days[i] = ds
	}
	return NewWeekSchedule(days, timezone)
}

func (ws WeekSchedule) Timezone() string { return ws.timezone }

func (ws WeekSchedule) Day(dayOfWeek int) (DaySchedule, error) {
	if dayOfWeek < 0 || dayOfWeek >= DaysPerWeek {
		return DaySchedule{}, ErrInvalidDayOfWeek
	}
	return ws.days[dayOfWeek], nil
}

func (ws WeekSchedule) Days() [DaysPerWeek]DaySchedule { return ws.days }

// WithDay returns a copy of ws with the given day replaced.
func (ws WeekSchedule) WithDay(ds DaySchedule) (WeekSchedule, error) {
	days := ws.days
	days[ds.dayOfWeek] = ds
	return NewWeekSchedule(days, ws.timezone)
}

// Clone returns a deep copy; mutating the clone's days (via WithDay)
// never affects ws, since DaySchedule.Blocks already copies its slice.
func (ws WeekSchedule) Clone() WeekSchedule {
	var days [DaysPerWeek]DaySchedule
	for i, d := range ws.days {
		days[i] = DaySchedule{dayOfWeek: d.dayOfWeek, blocks: d.Blocks()}
	}
	return WeekSchedule{days: days, timezone: ws.timezone}
}

// Intersect returns the per-day intersection of ws and other. Timezones
// must match; the result keeps ws's timezone.
func (ws WeekSchedule) Intersect(other WeekSchedule) (WeekSchedule, error) {
	if ws.timezone != other.timezone {
		return WeekSchedule{}, fmt.Errorf("cannot intersect schedules in different timezones: %s vs %s", ws.timezone, other.timezone)
	}
	var days [DaysPerWeek]DaySchedule
	for i := 0; i < DaysPerWeek; i++ {
		d, err := ws.days[i].Intersect(other.days[i])
		if err != nil {
			return WeekSchedule{}, err
		}
		days[i] = d
	}
	return NewWeekSchedule(days, ws.timezone)
}
