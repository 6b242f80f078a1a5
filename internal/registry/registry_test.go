package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/herobook/internal/stories"
)

func defaultCatalog(t *testing.T) stories.Catalog {
	t.Helper()
	f, err := stories.DefaultFixtures()
	require.NoError(t, err)
	return stories.Build(f)
}

func TestNewStoryRegistry(t *testing.T) {
	catalog := defaultCatalog(t)
	r := NewStoryRegistry(catalog)

	assert.Equal(t, len(catalog.Stories), r.Count())
	assert.Equal(t, catalog.Slugs(), r.Slugs())
	assert.Equal(t, catalog, r.Catalog())

	story, ok := r.Get("with-5-languages")
	require.True(t, ok)
	assert.Len(t, story.Props.Languages, 7)

	_, err := r.Lookup("nope")
	assert.True(t, errors.Is(err, stories.ErrStoryNotFound))
}

func TestStoryRegistry_ReplaceUnchanged(t *testing.T) {
	r := NewStoryRegistry(defaultCatalog(t))
	events := r.Watch()
	defer r.UnWatch(events)

	assert.Equal(t, 0, r.Replace(defaultCatalog(t)))
	assert.Len(t, events, 0)
}

func TestStoryRegistry_ReplaceEmitsEvents(t *testing.T) {
	r := NewStoryRegistry(defaultCatalog(t))
	events := r.Watch()
	defer r.UnWatch(events)

	next := defaultCatalog(t)
	next.Stories[0].Props.Title = "A new title"
	next.Stories = append(next.Stories[:3], next.Stories[4:]...)
	next.Stories = append(next.Stories, stories.Story{Name: "extra", Slug: "extra"})

	require.Equal(t, 3, r.Replace(next))

	got := map[EventType]string{}
	for i := 0; i < 3; i++ {
		event := <-events
		got[event.Type] = event.Story.Slug
		assert.False(t, event.Timestamp.IsZero())
	}
	assert.Equal(t, map[EventType]string{
		EventTypeUpdated: "default",
		EventTypeAdded:   "extra",
		EventTypeRemoved: "with-only-one-language",
	}, got)

	assert.Equal(t, next.Slugs(), r.Slugs())
	story, _ := r.Get("default")
	assert.Equal(t, "A new title", story.Props.Title)
}

func TestStoryRegistry_FullWatcherDoesNotBlock(t *testing.T) {
	r := NewStoryRegistry(stories.Catalog{})
	events := r.Watch()
	defer r.UnWatch(events)

	for i := 0; i < watcherBuffer+10; i++ {
		catalog := stories.Catalog{Stories: []stories.Story{{Slug: "s", Name: string(rune('a' + i%26)) + "x"}}}
		if i%2 == 1 {
			catalog = stories.Catalog{}
		}
		r.Replace(catalog)
	}
	assert.Len(t, events, watcherBuffer)
}

func TestStoryRegistry_UnWatchClosesChannel(t *testing.T) {
	r := NewStoryRegistry(stories.Catalog{})
	events := r.Watch()
	r.UnWatch(events)

	_, open := <-events
	assert.False(t, open)

	// Unknown channels are ignored.
	r.UnWatch(make(chan StoryEvent))
}

func TestStoryRegistry_ConcurrentAccess(t *testing.T) {
	catalog := defaultCatalog(t)
	r := NewStoryRegistry(catalog)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Replace(catalog)
		}()
		go func() {
			defer wg.Done()
			_ = r.Catalog()
			_, _ = r.Get("default")
			_ = r.Count()
		}()
	}
	wg.Wait()
	assert.Equal(t, len(catalog.Stories), r.Count())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "added", EventTypeAdded.String())
	assert.Equal(t, "updated", EventTypeUpdated.String())
	assert.Equal(t, "removed", EventTypeRemoved.String())
	assert.Equal(t, "unknown", EventType(9).String())
}
