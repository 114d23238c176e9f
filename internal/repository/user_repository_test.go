package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/model"
)

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "x"}))
	err := repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "x", got.PasswordHash)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	alicePost := seedPost(t, db, alice, nil, "by alice")
	bobPost := seedPost(t, db, bob, nil, "by bob")

	bobOnAlice := &model.Comment{Text: "bob says", AuthorID: bob.ID, PostID: ptr(alicePost.ID), Created: seedClock}
	aliceOnBob := &model.Comment{Text: "alice says", AuthorID: alice.ID, PostID: ptr(bobPost.ID), Created: seedClock}
	require.NoError(t, comments.Create(ctx, bobOnAlice))
	require.NoError(t, comments.Create(ctx, aliceOnBob))
	require.NoError(t, NewFollowRepository(db).Create(ctx, bob.ID, alice.ID))

	require.NoError(t, repo.Delete(ctx, alice.ID))

	var posts, follows int64
	require.NoError(t, db.Model(&model.Post{}).Where("author_id = ?", alice.ID).Count(&posts).Error)
	require.NoError(t, db.Model(&model.Follow{}).Count(&follows).Error)
	assert.Zero(t, posts)
	assert.Zero(t, follows)

	_, err := comments.GetByID(ctx, aliceOnBob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	orphan, err := comments.GetByID(ctx, bobOnAlice.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.PostID)

	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), ErrNotFound)
}
