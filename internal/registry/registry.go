// Package registry holds the live story catalog and tells watchers when it
// changes.
package registry

import (
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/conneroisu/herobook/internal/stories"
)

// StoryRegistry manages the stories currently being served
type StoryRegistry struct {
	group    string
	order    []string
	stories  map[string]stories.Story
	mutex    sync.RWMutex
	watchers []chan StoryEvent
}

// StoryEvent represents a change in the story registry
type StoryEvent struct {
	Type      EventType
	Story     stories.Story
	Timestamp time.Time
}

// EventType represents the type of story event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// watcherBuffer is the per-watcher channel capacity. Events beyond it are
// dropped for that watcher.
const watcherBuffer = 100

// NewStoryRegistry creates a registry serving the given catalog
func NewStoryRegistry(catalog stories.Catalog) *StoryRegistry {
	r := &StoryRegistry{
		stories:  make(map[string]stories.Story),
		watchers: make([]chan StoryEvent, 0),
	}
	r.load(catalog)
	return r
}

func (r *StoryRegistry) load(catalog stories.Catalog) {
	r.group = catalog.Group
	r.order = make([]string, 0, len(catalog.Stories))
	r.stories = make(map[string]stories.Story, len(catalog.Stories))
	for _, s := range catalog.Stories {
		r.order = append(r.order, s.Slug)
		r.stories[s.Slug] = s
	}
}

// Replace swaps in a new catalog and notifies watchers of every story that
// was added, changed or dropped. It returns the number of events emitted.
func (r *StoryRegistry) Replace(catalog stories.Catalog) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	var events []StoryEvent

	for _, s := range catalog.Stories {
		old, exists := r.stories[s.Slug]
		switch {
		case !exists:
			events = append(events, StoryEvent{Type: EventTypeAdded, Story: s, Timestamp: now})
		case !cmp.Equal(old, s):
			events = append(events, StoryEvent{Type: EventTypeUpdated, Story: s, Timestamp: now})
		}
	}

	next := make(map[string]struct{}, len(catalog.Stories))
	for _, s := range catalog.Stories {
		next[s.Slug] = struct{}{}
	}
	for _, slug := range r.order {
		if _, kept := next[slug]; !kept {
			events = append(events, StoryEvent{Type: EventTypeRemoved, Story: r.stories[slug], Timestamp: now})
		}
	}

	r.load(catalog)

	for _, event := range events {
		r.notify(event)
	}
	return len(events)
}

// notify must be called with the write lock held.
func (r *StoryRegistry) notify(event StoryEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Get retrieves a story by slug
func (r *StoryRegistry) Get(slug string) (stories.Story, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	story, exists := r.stories[slug]
	return story, exists
}

// Lookup is Get with stories.ErrStoryNotFound for unknown slugs
func (r *StoryRegistry) Lookup(slug string) (stories.Story, error) {
	return r.Catalog().Lookup(slug)
}

// Catalog returns a copy of the current catalog in story order
func (r *StoryRegistry) Catalog() stories.Catalog {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	catalog := stories.Catalog{Group: r.group, Stories: make([]stories.Story, 0, len(r.order))}
	for _, slug := range r.order {
		catalog.Stories = append(catalog.Stories, r.stories[slug])
	}
	return catalog
}

// Slugs returns story slugs in catalog order
func (r *StoryRegistry) Slugs() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]string(nil), r.order...)
}

// Watch returns a channel that receives story events
func (r *StoryRegistry) Watch() <-chan StoryEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan StoryEvent, watcherBuffer)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *StoryRegistry) UnWatch(ch <-chan StoryEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of stories
func (r *StoryRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.stories)
}
