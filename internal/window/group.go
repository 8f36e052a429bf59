package window

import (
	"fmt"
	"strings"

	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
)

// Trigger decides when a window's contents are emitted.
type Trigger int

const (
	// OnDiscardedWindow emits each window once, after grouping has seen
	// every event.
	OnDiscardedWindow Trigger = iota
	// OnEachEvent emits the window's contents so far after every event,
	// partial trailing windows included.
	OnEachEvent
)

var triggerNames = []string{"discard", "event"}

func (t Trigger) String() string {
	if t >= 0 && int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// ParseTrigger maps "discard" or "event" to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	for i, name := range triggerNames {
		if strings.EqualFold(s, name) {
			return Trigger(i), nil
		}
	}
	return 0, &models.ConfigError{Option: "trigger", Value: s, Allowed: triggerNames}
}

// emission is one output of a window: the first size events of the
// window's group.
type emission struct {
	key  string
	size int
}

// Grouping is the result of bucketing a collection's events by window.
type Grouping struct {
	window    Window
	keys      []string
	groups    map[string][]*models.Event
	emissions []emission
}

// Group buckets the events of c by w. Keys are kept in the order their
// first event appears, which is time order for every Window here.
func Group(c *collection.Collection, w Window, trigger Trigger) (*Grouping, error) {
	if w == nil {
		return nil, &models.ConfigError{Option: "window", Reason: "required"}
	}
	if trigger < OnDiscardedWindow || trigger > OnEachEvent {
		return nil, &models.ConfigError{Option: "trigger", Value: trigger.String(), Allowed: triggerNames}
	}

	g := &Grouping{window: w, groups: make(map[string][]*models.Event)}
	for _, e := range c.All() {
		key := w.Key(e.Begin())
		events, seen := g.groups[key]
		if !seen {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(events, e)
		if trigger == OnEachEvent {
			g.emissions = append(g.emissions, emission{key: key, size: len(g.groups[key])})
		}
	}
	if trigger == OnDiscardedWindow {
		for _, key := range g.keys {
			g.emissions = append(g.emissions, emission{key: key, size: len(g.groups[key])})
		}
	}
	return g, nil
}

// Window returns the window definition the events were grouped by.
func (g *Grouping) Window() Window { return g.window }

// Keys lists the window keys in time order.
func (g *Grouping) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Ungroup returns every window's complete collection by key.
func (g *Grouping) Ungroup() map[string]*collection.Collection {
	out := make(map[string]*collection.Collection, len(g.groups))
	for key, events := range g.groups {
		out[key] = collection.New(events)
	}
	return out
}

// Flatten concatenates the windows back into one collection.
func (g *Grouping) Flatten() *collection.Collection {
	var events []*models.Event
	for _, key := range g.keys {
		events = append(events, g.groups[key]...)
	}
	return collection.New(events)
}
