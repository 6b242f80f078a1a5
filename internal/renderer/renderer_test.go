package renderer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/herobook/internal/inspect"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/testutils"
)

func newRenderer(t *testing.T, budget int) *StoryRenderer {
	t.Helper()
	return NewStoryRenderer(testutils.CreateTestRegistry(t), budget)
}

func TestRenderStory(t *testing.T) {
	r := newRenderer(t, 2)

	html, err := r.RenderStoryString(context.Background(), "with-20-languages")
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<html"))

	summary, err := inspect.ParseString(html)
	require.NoError(t, err)
	assert.Len(t, summary.Languages, 2)
	assert.Equal(t, 20, summary.Remainder)
	assert.Equal(t, "34+", summary.ContributorCount.OrElse(""))
	assert.Equal(t, "9", summary.ChapterCount.OrElse(""))
}

func TestRenderStoryHonoursBudget(t *testing.T) {
	r := newRenderer(t, 5)

	html, err := r.RenderStoryString(context.Background(), "with-10-languages")
	require.NoError(t, err)

	summary, err := inspect.ParseString(html)
	require.NoError(t, err)
	assert.Len(t, summary.Languages, 5)
	assert.Equal(t, 7, summary.Remainder)
}

func TestRenderStoryErrors(t *testing.T) {
	r := newRenderer(t, 2)

	_, err := r.RenderStoryString(context.Background(), "missing")
	assert.True(t, errors.Is(err, stories.ErrStoryNotFound))

	_, err = r.RenderStoryString(context.Background(), "../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid story name")
	assert.False(t, errors.Is(err, stories.ErrStoryNotFound))
}

func TestRenderPage(t *testing.T) {
	r := newRenderer(t, 2)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(context.Background(), &buf, "default"))

	page := buf.String()
	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "<title>Default - herobook</title>")
	assert.Contains(t, page, "new WebSocket")
	assert.Contains(t, page, ".hero-languages")

	summary, err := inspect.ParseString(page)
	require.NoError(t, err)
	assert.True(t, summary.Found)
	assert.Equal(t, 3, summary.Remainder)
}

func TestRenderIndex(t *testing.T) {
	r := newRenderer(t, 2)

	var buf bytes.Buffer
	require.NoError(t, r.RenderIndex(context.Background(), &buf))

	page := buf.String()
	for _, slug := range r.registry.Slugs() {
		assert.Contains(t, page, `href="/render/`+slug+`"`)
	}
	assert.Contains(t, page, "With +20 Languages")
	assert.Contains(t, page, "22 languages")
}
