package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
)

// LoginPath 未登录时跳转的登录页
const LoginPath = "/auth/login/"

const principalKey = "principal"

// Session 解析会话 cookie，合法时在上下文放入当前用户
func Session(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(auth.CookieName); err == nil && raw != "" {
			if p, err := sessions.Parse(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

// RequireLogin 未登录时 302 到登录页，携带 next=原路径
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL 构造带 next 参数的登录地址
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// CurrentUser 当前登录用户
func CurrentUser(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok && p != nil
}

// SetCurrentUser 测试与登录后使用
func SetCurrentUser(c *gin.Context, p *auth.Principal) {
	c.Set(principalKey, p)
}
