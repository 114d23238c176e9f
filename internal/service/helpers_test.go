package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
)

type testEnv struct {
	db        *gorm.DB
	mediaRoot string
	users     UserService
	groups    GroupService
	posts     PostService
	comments  CommentService
	feed      FeedService
	relations RelationshipService
	clock     *fakeClock
}

type fakeClock struct{ t time.Time }

// Now 每次调用前进一秒
func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	mediaRoot := t.TempDir()

	us := NewUserService(userRepo).(*userService)
	us.cost = 4 // bcrypt.MinCost

	return &testEnv{
		db:        db,
		mediaRoot: mediaRoot,
		users:     us,
		groups:    NewGroupService(groupRepo),
		posts:     NewPostService(postRepo, groupRepo, commentRepo, storage.NewLocalMedia(mediaRoot), clock.Now),
		comments:  NewCommentService(commentRepo, postRepo, clock.Now),
		feed:      NewFeedService(postRepo, groupRepo, userRepo),
		relations: NewRelationshipService(followRepo, userRepo),
		clock:     clock,
	}
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := e.users.Signup(context.Background(), SignupInput{Username: username, Password: "password123"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g, err := e.groups.Create(context.Background(), "Group "+slug, slug, "about "+slug)
	require.NoError(t, err)
	return g
}

func (e *testEnv) post(t *testing.T, author *model.User, text string, group *model.Group) *model.Post {
	t.Helper()
	in := PostInput{Text: text}
	if group != nil {
		in.GroupID = &group.ID
	}
	p, err := e.posts.Create(context.Background(), author.ID, in)
	require.NoError(t, err)
	return p
}

func (e *testEnv) countPosts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Post{}).Count(&n).Error)
	return n
}
