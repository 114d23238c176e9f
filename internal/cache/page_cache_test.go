package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newCachedRouter(t *testing.T, ttl time.Duration, body *string) (*gin.Engine, *miniredis.Miniredis, *PageCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	pc := NewPageCache(client, ttl, "page")
	r := gin.New()
	r.GET("/", pc.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, *body)
	})
	r.GET("/missing", pc.Middleware(), func(c *gin.Context) {
		c.String(http.StatusNotFound, *body)
	})
	return r, mr, pc
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPageCache_ServesStaleUntilExpiry(t *testing.T) {
	body := "v1"
	r, mr, pc := newCachedRouter(t, 20*time.Second, &body)

	first := get(r, "/")
	assert.Equal(t, "v1", first.Body.String())
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	body = "v2"
	second := get(r, "/")
	assert.Equal(t, "v1", second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	mr.FastForward(21 * time.Second)
	third := get(r, "/")
	assert.Equal(t, "v2", third.Body.String())

	hits, misses := pc.Counters()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestPageCache_KeyIncludesQuery(t *testing.T) {
	body := "page one"
	r, _, _ := newCachedRouter(t, time.Minute, &body)

	get(r, "/?page=1")
	body = "page two"
	w := get(r, "/?page=2")
	assert.Equal(t, "page two", w.Body.String())
}

func TestPageCache_SkipsNonOK(t *testing.T) {
	body := "nope"
	r, mr, _ := newCachedRouter(t, time.Minute, &body)

	get(r, "/missing")
	assert.Empty(t, mr.Keys())
}

func TestPageCache_NilClientPassesThrough(t *testing.T) {
	pc := NewPageCache(nil, time.Minute, "page")
	r := gin.New()
	n := 0
	r.GET("/", pc.Middleware(), func(c *gin.Context) {
		n++
		c.String(http.StatusOK, "x")
	})
	get(r, "/")
	get(r, "/")
	require.Equal(t, 2, n)
}

func TestPageCache_CountersOnNilCache(t *testing.T) {
	var pc *PageCache
	hits, misses := pc.Counters()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
