package domain

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sort"
)

var (
	ErrInvalidMinute        = errors.New("minute must be in [0, 1440)")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrTimeBlockOutOfBounds = errors.New("time block extends past end of day")
	ErrInvalidTimeString    = errors.New("time string must be in HH:MM format")
)

// MinutesPerDay is the number of minutes in one day; a valid Minute lies
// in [0, MinutesPerDay), and Validate rejects anything outside it.
const MinutesPerDay = 24 * 60

// Minute is minutes-from-midnight, local to the teacher's declared
// timezone. It is a plain integer, never itself timezone-aware.
type Minute int

// Validate reports whether m lies in [0, 1440).
func (m Minute) Validate() error {
	if m < 0 || m >= MinutesPerDay {
		return ErrInvalidMinute
	}
	return nil
}

// ParseTimeString parses an "HH:MM" string in [00:00, 23:59] into a Minute.
func ParseTimeString(s string) (Minute, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeString
	}
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hh, &mm); err != nil {
		return 0, ErrInvalidTimeString
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, ErrInvalidTimeString
	}
	return Minute(hh*60 + mm), nil
}

// FormatTimeString renders m as "HH:MM". Callers must pass a validated
// Minute; FormatTimeString does not itself validate.
func FormatTimeString(m Minute) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// TimeBlock is a half-open minute interval [start, start+duration).
type TimeBlock struct {
	start    Minute
	duration int
}

// NewTimeBlock validates and constructs a TimeBlock.
func NewTimeBlock(start Minute, duration int) (TimeBlock, error) {
	if err := start.Validate(); err != nil {
		return TimeBlock{}, err
	}
	if duration <= 0 {
		return TimeBlock{}, ErrInvalidDuration
	}
	if int(start)+duration > MinutesPerDay {
		return TimeBlock{}, ErrTimeBlockOutOfBounds
	}
	return TimeBlock{start: start, duration: duration}, nil
}

func (tb TimeBlock) Start() Minute   { return tb.start }
func (tb TimeBlock) Duration() int   { return tb.duration }
func (tb TimeBlock) End() Minute     { return tb.start + Minute(tb.duration) }

func (tb TimeBlock) String() string {
	return fmt.Sprintf("%s-%s", FormatTimeString(tb.start), FormatTimeString(tb.End()))
}

// OverlapsWith reports whether tb and other share any minute.
func (tb TimeBlock) OverlapsWith(other TimeBlock) bool {
	return tb.start < other.End() && tb.End() > other.start
}

// Touches reports whether tb and other are adjacent (share an endpoint
// but do not overlap) — touching blocks must be merged by MergeBlocks.
func (tb TimeBlock) Touches(other TimeBlock) bool {
	return tb.End() == other.start || other.End() == tb.start
}

// ContainsMinute reports whether t falls within tb.
func (tb TimeBlock) ContainsMinute(t Minute) bool {
	return t >= tb.start && t < tb.End()
}

// Contains reports whether the interval [start, start+duration) lies
// entirely within tb.
func (tb TimeBlock) Contains(start Minute, duration int) bool {
	if duration <= 0 {
		return false
	}
	end := start + Minute(duration)
	return start >= tb.start && end <= tb.End()
}

// MergeBlocks sorts blocks by start and coalesces overlapping or
// touching blocks into a canonical, gap-maximal sequence. Blocks with
// non-positive duration are silently dropped (merge filters; it does
// not reject — validators reject).
func MergeBlocks(blocks []TimeBlock) []TimeBlock {
	filtered := make([]TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.duration > 0 {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == 0 {
		return filtered
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].start < filtered[j].start
	})

	merged := make([]TimeBlock, 0, len(filtered))
	current := filtered[0]
	for _, b := range filtered[1:] {
		if b.start <= current.End() {
			if b.End() > current.End() {
				current.duration = int(b.End() - current.start)
			}
			continue
		}
		merged = append(merged, current)
		current = b
	}
	merged = append(merged, current)
	return merged
}

// IntersectBlocks returns the set of intervals present in both a and b.
// Inputs are assumed already canonical (sorted, non-overlapping); the
// result is canonical too.
func IntersectBlocks(a, b []TimeBlock) []TimeBlock {
	result := make([]TimeBlock, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].start
		if b[j].start > start {
			start = b[j].start
		}
		end := a[i].End()
		if b[j].End() < end {
			end = b[j].End()
		}
		if start < end {
			result = append(result, TimeBlock{start: start, duration: int(end - start)})
		}
		if a[i].End() < b[j].End() {
			i++
		} else {
			j++
		}
	}
	return result
}

// EnumerateSlots yields every minute-aligned start, stepped by step,
// at which a lesson of the given duration fits entirely within block.
func EnumerateSlots(block TimeBlock, duration, step int) iter.Seq[Minute] {
	return func(yield func(Minute) bool) {
		if duration <= 0 || step <= 0 {
			return
		}
		last := int(block.End()) - duration
		for s := int(block.start); s <= last; s += step {
			if !yield(Minute(s)) {
				return
			}
		}
	}
}

// Fragmentation returns a normalized [0,1] measure of how fragmented a
// canonical block sequence is: the coefficient of variation of block
// lengths combined with a penalty for having many small blocks. The
// source formula could exceed 1; this implementation clamps.
func Fragmentation(blocks []TimeBlock) float64 {
	n := len(blocks)
	if n <= 1 {
		return 0
	}

	total := 0.0
	for _, b := range blocks {
		total += float64(b.duration)
	}
	mean := total / float64(n)
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, b := range blocks {
		d := float64(b.duration) - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)
	coeffVariation := stddev / mean

	countPenalty := float64(n-1) / float64(n+4)

	score := 0.6*coeffVariation + 0.4*countPenalty
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
