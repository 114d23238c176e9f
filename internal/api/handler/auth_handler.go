package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

type signupForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
	Password  string `form:"password" json:"password,omitempty" binding:"required,min=8"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
}

// echo 回显时去掉密码
func (f signupForm) echo() signupForm {
	f.Password = ""
	return f
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password,omitempty" binding:"required"`
	Next     string `form:"next" json:"next"`
}

func (f loginForm) echo() loginForm {
	f.Password = ""
	return f
}

// SignupForm 注册页
// @Summary 注册页
// @Tags 账户
// @Success 200 {object} response.Response
// @Router /auth/signup/ [get]
func (h *Handler) SignupForm(c *gin.Context) {
	response.Success(c, signupForm{})
}

// Signup 注册并登录，跳转首页
// @Summary 注册
// @Tags 账户
// @Accept x-www-form-urlencoded,json
// @Param username formData string true "用户名"
// @Param email formData string false "邮箱"
// @Param password formData string true "密码"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /auth/signup/ [post]
func (h *Handler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		response.Invalid(c, form.echo(), map[string]string{"form": err.Error()})
		return
	}
	ctx := c.Request.Context()
	u, err := h.userService.Signup(ctx, service.SignupInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if errors.Is(err, service.ErrUsernameTaken) {
		response.Invalid(c, form.echo(), map[string]string{"username": "a user with that username already exists"})
		return
	}
	if err != nil {
		fail(c, err, form.echo())
		return
	}
	if err := h.startSession(c, auth.Principal{ID: u.ID, Username: u.Username}); err != nil {
		response.InternalError(c, err)
		return
	}
	redirect(c, "/")
}

// LoginForm 登录页，回显 next
// @Summary 登录页
// @Tags 账户
// @Param next query string false "登录后跳转地址"
// @Success 200 {object} response.Response
// @Router /auth/login/ [get]
func (h *Handler) LoginForm(c *gin.Context) {
	response.Success(c, loginForm{Next: c.Query("next")})
}

// Login 登录，跳转到 next 或首页
// @Summary 登录
// @Tags 账户
// @Accept x-www-form-urlencoded,json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Param next formData string false "登录后跳转地址"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /auth/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		response.Invalid(c, form.echo(), map[string]string{"form": err.Error()})
		return
	}
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	p, err := h.userService.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidLogin) {
		response.Invalid(c, form.echo(), map[string]string{"form": "please enter a correct username and password"})
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.startSession(c, *p); err != nil {
		response.InternalError(c, err)
		return
	}
	redirect(c, safeNext(form.Next))
}

// Logout 清除会话
// @Summary 退出登录
// @Tags 账户
// @Success 302
// @Router /auth/logout/ [get]
// @Router /auth/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	redirect(c, "/")
}

func (h *Handler) startSession(c *gin.Context, p auth.Principal) error {
	token, err := h.sessions.Issue(p)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	return nil
}

// safeNext 只允许站内路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
