package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube/config"
	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/cache"
)

// Options 路由依赖
type Options struct {
	Config   *config.Config
	Handler  *handler.Handler
	Sessions *auth.SessionManager
	// PageCache 为 nil 时首页不缓存
	PageCache *cache.PageCache
}

// Setup 注册中间件与全部路由
func Setup(opts Options) *gin.Engine {
	cfg := opts.Config
	h := opts.Handler

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Sentry())
	r.Use(middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.RateLimit.RPS > 0 {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}
	r.Use(middleware.Session(opts.Sessions))

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/media", cfg.Media.Root)

	index := []gin.HandlerFunc{h.Index}
	if opts.PageCache != nil {
		index = []gin.HandlerFunc{opts.PageCache.Middleware(), h.Index}
	}
	r.GET("/", index...)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/groups/", h.ListGroups)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/profile/:username/following/", h.ListFollowing)
	r.GET("/profile/:username/followers/", h.ListFans)
	r.GET("/posts/:id/", h.PostDetail)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/signup/", h.SignupForm)
		authGroup.POST("/signup/", h.Signup)
		authGroup.GET("/login/", h.LoginForm)
		authGroup.POST("/login/", h.Login)
		authGroup.GET("/logout/", h.Logout)
		authGroup.POST("/logout/", h.Logout)
	}

	private := r.Group("/", middleware.RequireLogin())
	{
		private.GET("/create/", h.CreateForm)
		private.POST("/create/", h.CreatePost)
		private.GET("/posts/:id/edit/", h.EditForm)
		private.POST("/posts/:id/edit/", h.EditPost)
		private.POST("/posts/:id/delete/", h.DeletePost)
		private.POST("/posts/:id/comment/", h.AddComment)
		private.GET("/follow/", h.FollowIndex)
		private.GET("/profile/:username/follow/", h.Follow)
		private.POST("/profile/:username/follow/", h.Follow)
		private.GET("/profile/:username/unfollow/", h.Unfollow)
		private.POST("/profile/:username/unfollow/", h.Unfollow)
	}

	r.NoRoute(h.NotFound)
	return r
}
