package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_AllPostsPaginated(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	for i := 0; i < 13; i++ {
		env.post(t, alice, fmt.Sprintf("post %d", i), nil)
	}

	first, err := env.feed.List(ctx, AllPosts(), 1)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	assert.Equal(t, "post 12", first.Items[0].Text)
	assert.True(t, first.Page.HasNext)
	assert.Equal(t, 2, first.Page.NumPages)

	second, err := env.feed.List(ctx, AllPosts(), 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 3)

	clamped, err := env.feed.List(ctx, AllPosts(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, clamped.Page.Number)
	assert.Len(t, clamped.Items, 3)
}

func TestFeedService_EmptyFeed(t *testing.T) {
	env := newEnv(t)
	page, err := env.feed.List(context.Background(), AllPosts(), 3)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page.Number)
}

func TestFeedService_GroupFeedExcludesOtherGroups(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	g1 := env.group(t, "g1")
	g2 := env.group(t, "g2")
	p := env.post(t, alice, "in g1", g1)

	feed1, err := env.feed.List(ctx, ByGroup("g1"), 1)
	require.NoError(t, err)
	require.Len(t, feed1.Items, 1)
	assert.Equal(t, p.ID, feed1.Items[0].ID)
	assert.Equal(t, g1.ID, feed1.Group.ID)

	feed2, err := env.feed.List(ctx, ByGroup("g2"), 1)
	require.NoError(t, err)
	assert.Empty(t, feed2.Items)
	assert.Equal(t, g2.ID, feed2.Group.ID)

	_, err = env.feed.List(ctx, ByGroup("missing"), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedService_AuthorFeed(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.post(t, alice, "by alice", nil)
	env.post(t, bob, "by bob", nil)

	page, err := env.feed.List(ctx, ByAuthor("alice"), 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "by alice", page.Items[0].Text)
	assert.Equal(t, "alice", page.Author.Username)

	_, err = env.feed.List(ctx, ByAuthor("nobody"), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedService_FollowingFeed(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	reader := env.user(t, "reader")
	author := env.user(t, "author")
	stranger := env.user(t, "stranger")
	env.post(t, author, "by author", nil)
	env.post(t, stranger, "by stranger", nil)

	empty, err := env.feed.List(ctx, FollowingOf(reader.ID), 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	require.NoError(t, env.relations.Follow(ctx, reader.ID, "author"))

	page, err := env.feed.List(ctx, FollowingOf(reader.ID), 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "by author", page.Items[0].Text)

	other, err := env.feed.List(ctx, FollowingOf(stranger.ID), 1)
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	require.NoError(t, env.relations.Unfollow(ctx, reader.ID, "author"))
	after, err := env.feed.List(ctx, FollowingOf(reader.ID), 1)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
}
