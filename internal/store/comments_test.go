package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandCommentsOldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "nova", 0, 0)

	first, err := s.AddComment(ctx, "brand-alpha", u.ID, u.Username, "love this place", "")
	require.NoError(t, err)
	second, err := s.AddComment(ctx, "brand-alpha", u.ID, u.Username, "back again", "")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, "brand-beta", u.ID, u.Username, "different pavilion", "")
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, "brand-alpha")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)

	empty, err := s.ListComments(ctx, "brand-gamma")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCommentSnapshotsAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "nova", 0, 0)
	require.NoError(t, s.UpdateAvatar(ctx, u.ID, "https://cdn.test/old.png"))

	_, err := s.AddComment(ctx, "brand-alpha", u.ID, u.Username, "hello", "https://cdn.test/old.png")
	require.NoError(t, err)

	// Changing the avatar afterwards does not rewrite the comment.
	require.NoError(t, s.UpdateAvatar(ctx, u.ID, "https://cdn.test/new.png"))

	comments, err := s.ListComments(ctx, "brand-alpha")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "https://cdn.test/old.png", comments[0].AvatarURL)
	assert.Equal(t, "nova", comments[0].Username)
	assert.NotEmpty(t, comments[0].Timestamp)
}

func TestGlobalCommentsNewestFirstBounded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "nova", 0, 0)

	var lastID string
	for i := 0; i < 5; i++ {
		c, err := s.AddGlobalComment(ctx, u.ID, u.Username, fmt.Sprintf("shout %d", i), "")
		require.NoError(t, err)
		lastID = c.ID
	}

	comments, err := s.ListGlobalComments(ctx, 3)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, lastID, comments[0].ID)
	assert.Equal(t, "shout 4", comments[0].Text)
	assert.Equal(t, "shout 2", comments[2].Text)
}

func TestGlobalCommentsDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "nova", 0, 0)
	_, err := s.AddGlobalComment(ctx, u.ID, u.Username, "hey", "")
	require.NoError(t, err)

	comments, err := s.ListGlobalComments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
