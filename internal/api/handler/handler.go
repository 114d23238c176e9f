package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/validation"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Handler 汇总各服务的 HTTP 入口
type Handler struct {
	userService    service.UserService
	groupService   service.GroupService
	postService    service.PostService
	commentService service.CommentService
	feedService    service.FeedService
	relService     service.RelationshipService
	sessions       *auth.SessionManager
	cacheStats     CacheStats
	maxUploadBytes int64
}

// CacheStats 首页缓存命中统计
type CacheStats interface {
	Counters() (hits, misses int64)
}

// Deps 构造 Handler 所需依赖
type Deps struct {
	Users          service.UserService
	Groups         service.GroupService
	Posts          service.PostService
	Comments       service.CommentService
	Feed           service.FeedService
	Relations      service.RelationshipService
	Sessions       *auth.SessionManager
	// CacheStats 可为空，此时 /healthz 不输出缓存统计
	CacheStats     CacheStats
	MaxUploadBytes int64
}

func New(d Deps) *Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 5 << 20
	}
	return &Handler{
		userService:    d.Users,
		groupService:   d.Groups,
		postService:    d.Posts,
		commentService: d.Comments,
		feedService:    d.Feed,
		relService:     d.Relations,
		sessions:       d.Sessions,
		cacheStats:     d.CacheStats,
		maxUploadBytes: d.MaxUploadBytes,
	}
}

// viewerID 当前用户 ID，匿名为 0
func viewerID(c *gin.Context) uint {
	if p, ok := middleware.CurrentUser(c); ok {
		return p.ID
	}
	return 0
}

// mustUser 仅用于 RequireLogin 之后的路由
func mustUser(c *gin.Context) *auth.Principal {
	p, _ := middleware.CurrentUser(c)
	return p
}

func postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// fail 将服务层错误映射为响应；form 在校验失败时回显
func fail(c *gin.Context, err error, form interface{}) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Invalid(c, form, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	default:
		response.InternalError(c, err)
	}
}

// NotFound 未匹配路由
func (h *Handler) NotFound(c *gin.Context) {
	response.NotFound(c)
}

// Health 存活检查
// @Summary 存活检查
// @Tags 系统
// @Success 200 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	data := gin.H{"status": "ok"}
	if h.cacheStats != nil {
		hits, misses := h.cacheStats.Counters()
		data["index_cache"] = gin.H{"hits": hits, "misses": misses}
	}
	response.Success(c, data)
}
