package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/model"
)

func TestFollow_Idempotent(t *testing.T) {
	s := newServer(t)
	alice := s.user(t, "alice")
	s.user(t, "bob")
	as := s.cookie(t, alice)

	for i := 0; i < 2; i++ {
		w := s.get("/profile/bob/follow/", as)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/bob/", w.Header().Get("Location"))
	}
	assert.Equal(t, int64(1), s.count(t, &model.Follow{}))

	w := s.postForm("/profile/bob/unfollow/", url.Values{}, as)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/bob/", w.Header().Get("Location"))
	assert.Equal(t, int64(0), s.count(t, &model.Follow{}))

	w = s.get("/profile/bob/unfollow/", as)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestFollow_SelfIsNoop(t *testing.T) {
	s := newServer(t)
	alice := s.user(t, "alice")

	w := s.get("/profile/alice/follow/", s.cookie(t, alice))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))
	assert.Equal(t, int64(0), s.count(t, &model.Follow{}))
}

func TestFollow_RequiresLoginAndAuthor(t *testing.T) {
	s := newServer(t)
	alice := s.user(t, "alice")
	s.user(t, "bob")

	w := s.get("/profile/bob/follow/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/profile/bob/follow/", w.Header().Get("Location"))

	w = s.get("/profile/nobody/follow/", s.cookie(t, alice))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(0), s.count(t, &model.Follow{}))
}

func TestFollowIndex_ShowsOnlyFollowedAuthors(t *testing.T) {
	s := newServer(t)
	alice := s.user(t, "alice")
	bob := s.user(t, "bob")
	carol := s.user(t, "carol")

	s.get("/profile/bob/follow/", s.cookie(t, alice))
	s.post(t, bob, "from bob", nil)
	s.post(t, carol, "from carol", nil)

	var feed handler.FeedView
	decode(t, s.get("/follow/", s.cookie(t, alice)), &feed)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "from bob", feed.Posts[0].Text)

	decode(t, s.get("/follow/", s.cookie(t, carol)), &feed)
	assert.Empty(t, feed.Posts)

	s.get("/profile/bob/unfollow/", s.cookie(t, alice))
	decode(t, s.get("/follow/", s.cookie(t, alice)), &feed)
	assert.Empty(t, feed.Posts)
}

func TestFollowIndex_Anonymous(t *testing.T) {
	s := newServer(t)
	w := s.get("/follow/?page=2", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", w.Header().Get("Location"))
}

func TestFollowingAndFans(t *testing.T) {
	s := newServer(t)
	alice := s.user(t, "alice")
	carol := s.user(t, "carol")
	s.user(t, "bob")

	s.get("/profile/bob/follow/", s.cookie(t, alice))
	s.get("/profile/bob/follow/", s.cookie(t, carol))
	s.get("/profile/carol/follow/", s.cookie(t, alice))

	var out struct {
		List []string `json:"list"`
	}
	decode(t, s.get("/profile/bob/followers/", nil), &out)
	assert.ElementsMatch(t, []string{"alice", "carol"}, out.List)

	decode(t, s.get("/profile/alice/following/", nil), &out)
	assert.ElementsMatch(t, []string{"bob", "carol"}, out.List)

	decode(t, s.get("/profile/alice/following/?page_size=1", nil), &out)
	assert.Len(t, out.List, 1)

	assert.Equal(t, http.StatusNotFound, s.get("/profile/nobody/followers/", nil).Code)
}
