package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/router"
	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
)

func init() { gin.SetMode(gin.TestMode) }

const testPassword = "password123"

// 1x2 GIF
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

type server struct {
	engine   *gin.Engine
	db       *gorm.DB
	sessions *auth.SessionManager
	posts    service.PostService
	groups   service.GroupService
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type serverOption func(*config.Config, *router.Options)

func withPageCache(t *testing.T, mr *miniredis.Miniredis) serverOption {
	return func(cfg *config.Config, opts *router.Options) {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		opts.PageCache = cache.NewPageCache(client, cfg.Cache.IndexTTL, "test:page")
	}
}

func newServer(t *testing.T, options ...serverOption) *server {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{}
	cfg.Media.Root = t.TempDir()
	cfg.Cache.IndexTTL = 20 * time.Second

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	sessions := auth.NewSessionManager("test-secret", time.Hour)
	posts := service.NewPostService(postRepo, groupRepo, commentRepo, storage.NewLocalMedia(cfg.Media.Root), nil)
	groups := service.NewGroupService(groupRepo)

	opts := router.Options{Config: cfg, Sessions: sessions}
	for _, o := range options {
		o(cfg, &opts)
	}
	deps := handler.Deps{
		Users:     service.NewUserService(userRepo),
		Groups:    groups,
		Posts:     posts,
		Comments:  service.NewCommentService(commentRepo, postRepo, nil),
		Feed:      service.NewFeedService(postRepo, groupRepo, userRepo),
		Relations: service.NewRelationshipService(followRepo, userRepo),
		Sessions:  sessions,
	}
	if opts.PageCache != nil {
		deps.CacheStats = opts.PageCache
	}
	opts.Handler = handler.New(deps)
	return &server{
		engine:   router.Setup(opts),
		db:       db,
		sessions: sessions,
		posts:    posts,
		groups:   groups,
	}
}

// user 直接写库，使用最低 bcrypt 代价
func (s *server) user(t *testing.T, username string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	r := []rune(username)
	u := &model.User{Username: username, FirstName: strings.ToUpper(string(r[:1])) + string(r[1:]), PasswordHash: string(hash)}
	require.NoError(t, repository.NewUserRepository(s.db).Create(context.Background(), u))
	return u
}

func (s *server) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g, err := s.groups.Create(context.Background(), "Group "+slug, slug, "")
	require.NoError(t, err)
	return g
}

func (s *server) post(t *testing.T, author *model.User, text string, group *model.Group) *model.Post {
	t.Helper()
	in := service.PostInput{Text: text}
	if group != nil {
		in.GroupID = &group.ID
	}
	p, err := s.posts.Create(context.Background(), author.ID, in)
	require.NoError(t, err)
	return p
}

func (s *server) cookie(t *testing.T, u *model.User) *http.Cookie {
	t.Helper()
	token, err := s.sessions.Issue(auth.Principal{ID: u.ID, Username: u.Username})
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (s *server) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(m).Count(&n).Error)
	return n
}

func (s *server) do(req *http.Request, as *http.Cookie) *httptest.ResponseRecorder {
	if as != nil {
		req.AddCookie(as)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) get(path string, as *http.Cookie) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (s *server) postForm(path string, form url.Values, as *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, as)
}

func (s *server) postMultipart(t *testing.T, path string, fields map[string]string, filename string, file []byte, as *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, as)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func postPath(p *model.Post, suffix string) string {
	return fmt.Sprintf("/posts/%d/%s", p.ID, suffix)
}
