// Package collection implements the ordered, immutable event collection that
// every series operation works on.
//
// A Collection is a view over a backing slice of events sorted by key begin.
// Slicing shares the backing slice; every transform returns a new
// Collection and never writes to an existing one, so a Collection may be
// read from many goroutines without locking.
package collection

import (
	"iter"
	"sort"
	"time"

	"github.com/tejusbharadwaj/tseries/internal/models"
)

// Collection is an ordered sequence of events. For all i < j,
// At(i).Begin() is not after At(j).Begin().
type Collection struct {
	events []*models.Event
}

// New returns a Collection holding events, sorted by key begin. Events with
// equal begins keep their input order. The input slice is not retained.
func New(events []*models.Event) *Collection {
	owned := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e != nil {
			owned = append(owned, e)
		}
	}
	return sorted(owned)
}

// Empty returns a Collection with no events.
func Empty() *Collection {
	return &Collection{}
}

// sorted wraps an exclusively owned slice, sorting it in place if needed.
func sorted(events []*models.Event) *Collection {
	if !isSorted(events) {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Begin().Before(events[j].Begin())
		})
	}
	return &Collection{events: events}
}

func isSorted(events []*models.Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Begin().Before(events[i-1].Begin()) {
			return false
		}
	}
	return true
}

// Size is the number of events.
func (c *Collection) Size() int {
	return len(c.events)
}

// At returns the event at position i.
func (c *Collection) At(i int) (*models.Event, error) {
	if i < 0 || i >= len(c.events) {
		return nil, &models.IndexError{Index: i, Size: len(c.events)}
	}
	return c.events[i], nil
}

// First returns the earliest event, or nil when empty.
func (c *Collection) First() *models.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[0]
}

// Last returns the latest event, or nil when empty.
func (c *Collection) Last() *models.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

// Events returns the events as a new slice.
func (c *Collection) Events() []*models.Event {
	out := make([]*models.Event, len(c.events))
	copy(out, c.events)
	return out
}

// All iterates over position and event. Iteration may be stopped early and
// restarted any number of times.
func (c *Collection) All() iter.Seq2[int, *models.Event] {
	return func(yield func(int, *models.Event) bool) {
		for i, e := range c.events {
			if !yield(i, e) {
				return
			}
		}
	}
}

// ForEach calls fn for each event in order until fn returns false. It
// returns the number of events visited.
func (c *Collection) ForEach(fn func(i int, e *models.Event) bool) int {
	n := 0
	for i, e := range c.events {
		n++
		if !fn(i, e) {
			break
		}
	}
	return n
}

// Range returns the extent from the first begin to the latest end.
func (c *Collection) Range() (models.TimeRange, bool) {
	if len(c.events) == 0 {
		return models.TimeRange{}, false
	}
	begin := c.events[0].Begin()
	end := c.events[0].End()
	for _, e := range c.events[1:] {
		if e.End().After(end) {
			end = e.End()
		}
	}
	return models.NewTimeRange(begin, end), true
}

// Bisect returns the position of the event whose key contains t or most
// closely precedes it, searching from position from. A t before the first
// searched event gives from; a t after the end of the last event gives
// Size(). An empty collection gives -1.
func (c *Collection) Bisect(t time.Time, from int) int {
	n := len(c.events)
	if n == 0 {
		return -1
	}
	from = resolveIndex(from, n)
	if from >= n {
		return n
	}

	// first position in [from, n) whose begin is after t
	i := from + sort.Search(n-from, func(k int) bool {
		return c.events[from+k].Begin().After(t)
	})
	pos := i - 1
	if pos < from {
		return from
	}
	if pos == n-1 && t.After(c.events[pos].End()) {
		return n
	}
	return pos
}

// AtTime returns the event Bisect selects for t, or nil if there is none.
func (c *Collection) AtTime(t time.Time) *models.Event {
	pos := c.Bisect(t, 0)
	if pos >= 0 && pos < len(c.events) {
		return c.events[pos]
	}
	return nil
}

// Slice returns the half-open range [begin, end). Negative positions count
// from the end and out of range positions are clamped. Slicing the whole
// collection returns c itself.
func (c *Collection) Slice(begin, end int) *Collection {
	n := len(c.events)
	b := resolveIndex(begin, n)
	e := resolveIndex(end, n)
	if b == 0 && e == n {
		return c
	}
	if e < b {
		e = b
	}
	return &Collection{events: c.events[b:e:e]}
}

// SliceFrom returns the events from begin to the end.
func (c *Collection) SliceFrom(begin int) *Collection {
	return c.Slice(begin, len(c.events))
}

// Crop returns the events whose key begin lies within r, bounds included.
func (c *Collection) Crop(r models.TimeRange) *Collection {
	n := len(c.events)
	if n == 0 {
		return c
	}
	// first event beginning at or after r.Begin(), so equal begins all stay
	begin := sort.Search(n, func(k int) bool {
		return !c.events[k].Begin().Before(r.Begin())
	})
	end := c.Bisect(r.End(), begin)
	if end < n && c.events[end].Begin().After(r.End()) {
		end--
	}
	return c.Slice(begin, end+1)
}

// resolveIndex maps a possibly negative position onto [0, size].
func resolveIndex(i, size int) int {
	if i < 0 {
		i += size
		if i < 0 {
			return 0
		}
	}
	if i > size {
		return size
	}
	return i
}

// Filter returns the events for which keep returns true.
func (c *Collection) Filter(keep func(e *models.Event) bool) *Collection {
	out := make([]*models.Event, 0, len(c.events))
	for _, e := range c.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	if len(out) == len(c.events) {
		return c
	}
	return &Collection{events: out}
}

// Map replaces each event with fn(e), dropping nil results. The result is
// re-sorted if the mapper moved keys.
func (c *Collection) Map(fn func(e *models.Event) *models.Event) *Collection {
	out := make([]*models.Event, 0, len(c.events))
	for _, e := range c.events {
		if m := fn(e); m != nil {
			out = append(out, m)
		}
	}
	return sorted(out)
}

// FlatMap replaces each event with the events fn emits for it. Events
// emitted for one input must already be ordered among themselves; the
// result is re-sorted as a whole when inputs' outputs interleave.
func (c *Collection) FlatMap(fn func(e *models.Event) []*models.Event) *Collection {
	out := make([]*models.Event, 0, len(c.events))
	for _, e := range c.events {
		for _, m := range fn(e) {
			if m != nil {
				out = append(out, m)
			}
		}
	}
	return sorted(out)
}

// Columns returns the distinct top-level field names across all events,
// in the order first observed.
func (c *Collection) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, e := range c.events {
		for _, f := range e.Fields() {
			if !seen[f] {
				seen[f] = true
				cols = append(cols, f)
			}
		}
	}
	return cols
}

// Equal reports whether both collections hold structurally equal events in
// the same order.
func (c *Collection) Equal(other *Collection) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil || len(c.events) != len(other.events) {
		return false
	}
	for i := range c.events {
		if !c.events[i].Equal(other.events[i]) {
			return false
		}
	}
	return true
}
