package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// cachedPage is what gets stored per URL.
type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// PageCache stores whole GET responses in Redis for a fixed TTL.
// Entries are never invalidated on write; they simply expire.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits   atomic.Int64
	misses atomic.Int64
}

// NewPageCache builds a cache on the given client. A nil client disables caching.
func NewPageCache(client *redis.Client, ttl time.Duration, prefix string) *PageCache {
	return &PageCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *PageCache) key(url string) string {
	return fmt.Sprintf("%s:%s", c.prefix, url)
}

func (c *PageCache) get(ctx context.Context, url string) (*cachedPage, bool) {
	data, err := c.client.Get(ctx, c.key(url)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("page cache get failed", zap.String("url", url), zap.Error(err))
		}
		return nil, false
	}
	var p cachedPage
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *PageCache) set(ctx context.Context, url string, p cachedPage) {
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(url), payload, c.ttl).Err(); err != nil {
		logger.Warn("page cache set failed", zap.String("url", url), zap.Error(err))
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET requests from the cache and stores 200 responses.
func (c *PageCache) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.client == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}
		url := ctx.Request.URL.RequestURI()

		if p, ok := c.get(ctx.Request.Context(), url); ok {
			c.hits.Add(1)
			ctx.Header("X-Cache", "HIT")
			ctx.Data(p.Status, p.ContentType, p.Body)
			ctx.Abort()
			return
		}
		c.misses.Add(1)

		rec := &bodyRecorder{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Header("X-Cache", "MISS")
		ctx.Next()

		if rec.Status() == http.StatusOK {
			c.set(ctx.Request.Context(), url, cachedPage{
				Status:      http.StatusOK,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.buf.Bytes(),
			})
		}
	}
}

// Counters reports cache hits and misses since start. Safe on a nil cache.
func (c *PageCache) Counters() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
