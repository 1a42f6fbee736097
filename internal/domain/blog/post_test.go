package blog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	author := uuid.New()

	p, err := NewPost(author, "Ana", PostContent{
		Title:       "Packing for the Andes",
		ContentHTML: "<p>Layers.</p>",
		Tags:        []string{"Peru", " peru ", "Hiking", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "packing-for-the-andes", p.Slug)
	assert.Equal(t, PostStatusDraft, p.Status)
	assert.Equal(t, []string{"peru", "hiking"}, p.Tags)

	_, err = NewPost(uuid.Nil, "", PostContent{Title: "x", ContentHTML: "y"})
	assert.Error(t, err)

	_, err = NewPost(author, "", PostContent{Title: "x"})
	assert.Error(t, err)
}

func TestPost_PublishLifecycle(t *testing.T) {
	p, err := NewPost(uuid.New(), "Ana", PostContent{Title: "Hello", ContentHTML: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Error(t, p.Unpublish())
	require.NoError(t, p.Publish())
	assert.True(t, p.IsPublished())
	assert.NotNil(t, p.PublishedAt)
	assert.Error(t, p.Publish())

	require.NoError(t, p.Unpublish())
	assert.False(t, p.IsPublished())

	events := p.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypePostPublished, events[0].EventType())
}

func TestPost_SetReadingTime(t *testing.T) {
	p := &Post{}
	p.SetReadingTime("")
	assert.Equal(t, 1, p.ReadingMinutes)

	p.SetReadingTime(strings.Repeat("word ", 401))
	assert.Equal(t, 3, p.ReadingMinutes)
}
