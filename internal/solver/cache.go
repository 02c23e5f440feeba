package solver

import (
	"container/list"
	"strconv"
	"strings"

	"github.com/lessonscheduler/solver/internal/scheduling/domain"
)

// ConsistencyCache memoizes ConstraintSet.Check results keyed by a
// signature of (partial assignment, candidate). It never changes which
// solution the engine returns — only how fast it gets there — so a
// disabled or evicting cache is always safe. Capped at maxSize entries
// with least-recently-used eviction.
type ConsistencyCache struct {
	maxSize int
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	hits    int
	misses  int
}

type cacheEntry struct {
	key    string
	result domain.CheckResult
}

// NewConsistencyCache returns a cache capped at maxSize entries. A
// maxSize of 0 disables caching: Get always misses, Put is a no-op.
func NewConsistencyCache(maxSize int) *ConsistencyCache {
	return &ConsistencyCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns a memoized result for the given signature, if present.
func (c *ConsistencyCache) Get(key string) (domain.CheckResult, bool) {
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return domain.CheckResult{}, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

// Put records result under key, evicting the least-recently-used entry
// if the cache is at capacity. No-op when maxSize <= 0.
func (c *ConsistencyCache) Put(key string, result domain.CheckResult) {
	if c.maxSize <= 0 {
		return
	}
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, result: result})
	c.entries[key] = el
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// HitRate returns the fraction of Get calls that were hits, for
// observability — not used for correctness.
func (c *ConsistencyCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Len reports the number of entries currently cached.
func (c *ConsistencyCache) Len() int { return c.order.Len() }

// Signature builds a stable string key from a partial assignment and a
// candidate, suitable for use with ConsistencyCache. The partial's
// assignments are already iterated in (day, start) order by All(), so
// the signature is deterministic regardless of insertion order.
func Signature(partial *domain.PartialAssignment, candidate domain.LessonAssignment) string {
	var b strings.Builder
	for _, a := range partial.All() {
		writeAssignment(&b, a)
		b.WriteByte(';')
	}
	b.WriteByte('|')
	writeAssignment(&b, candidate)
	return b.String()
}

func writeAssignment(b *strings.Builder, a domain.LessonAssignment) {
	b.WriteString(a.StudentID())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(a.DayOfWeek()))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(a.StartMinute())))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(a.DurationMinutes()))
}
