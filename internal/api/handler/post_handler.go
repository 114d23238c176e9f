package handler

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/pagination"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/validation"
	"github.com/d60-Lab/yatube/pkg/response"
)

type postForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"`
}

type commentForm struct {
	Text string `form:"text" json:"text"`
}

func pageParam(c *gin.Context) int {
	return pagination.ParseNumber(c.Query("page"))
}

// Index 全站最新帖子
// @Summary 首页帖子列表
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=FeedView}
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	fp, err := h.feedService.List(c.Request.Context(), service.AllPosts(), pageParam(c))
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, feedView(fp.Items, fp.Page))
}

// GroupPosts 分组帖子
// @Summary 分组帖子列表
// @Tags 帖子
// @Produce json
// @Param slug path string true "分组 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=GroupFeedView}
// @Failure 404 {object} response.Response
// @Router /group/{slug}/ [get]
func (h *Handler) GroupPosts(c *gin.Context) {
	fp, err := h.feedService.List(c.Request.Context(), service.ByGroup(c.Param("slug")), pageParam(c))
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, GroupFeedView{Group: *groupView(fp.Group), FeedView: feedView(fp.Items, fp.Page)})
}

// Profile 作者主页
// @Summary 作者主页
// @Tags 帖子
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=ProfileView}
// @Failure 404 {object} response.Response
// @Router /profile/{username}/ [get]
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	fp, err := h.feedService.List(ctx, service.ByAuthor(c.Param("username")), pageParam(c))
	if err != nil {
		fail(c, err, nil)
		return
	}
	following := false
	if uid := viewerID(c); uid != 0 && uid != fp.Author.ID {
		if following, err = h.relService.IsFollowing(ctx, uid, fp.Author.ID); err != nil {
			fail(c, err, nil)
			return
		}
	}
	response.Success(c, ProfileView{
		Author:     authorView(*fp.Author),
		PostsCount: fp.Page.Total,
		Following:  following,
		FeedView:   feedView(fp.Items, fp.Page),
	})
}

// PostDetail 帖子详情
// @Summary 帖子详情（含评论）
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=PostDetailView}
// @Failure 404 {object} response.Response
// @Router /posts/{id}/ [get]
func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		response.NotFound(c)
		return
	}
	d, err := h.postService.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err, nil)
		return
	}
	uid := viewerID(c)
	response.Success(c, PostDetailView{
		Post:        postView(d.Post),
		AuthorPosts: d.AuthorPosts,
		Comments:    commentViews(d.Comments),
		CanEdit:     uid != 0 && uid == d.Post.AuthorID,
	})
}

// CreateForm 新帖表单
// @Summary 新帖表单
// @Tags 帖子
// @Produce json
// @Success 200 {object} response.Response{data=PostFormView}
// @Success 302
// @Router /create/ [get]
func (h *Handler) CreateForm(c *gin.Context) {
	h.renderPostForm(c, PostFormView{})
}

// CreatePost 发帖，成功后跳转到作者主页
// @Summary 发帖
// @Tags 帖子
// @Accept x-www-form-urlencoded,multipart/form-data,json
// @Produce json
// @Param text formData string true "正文"
// @Param group formData int false "分组ID"
// @Param image formData file false "图片"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /create/ [post]
func (h *Handler) CreatePost(c *gin.Context) {
	user := mustUser(c)
	var form postForm
	in, err := h.bindPost(c, &form)
	if err != nil {
		fail(c, err, form)
		return
	}
	if _, err := h.postService.Create(c.Request.Context(), user.ID, in); err != nil {
		fail(c, err, form)
		return
	}
	redirect(c, profileURL(user.Username))
}

// EditForm 编辑表单；非作者跳回详情页
// @Summary 编辑表单
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=PostFormView}
// @Success 302
// @Failure 404 {object} response.Response
// @Router /posts/{id}/edit/ [get]
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		response.NotFound(c)
		return
	}
	post, err := h.postService.Authorize(c.Request.Context(), mustUser(c).ID, id)
	if errors.Is(err, service.ErrForbidden) {
		redirect(c, postURL(id))
		return
	}
	if err != nil {
		fail(c, err, nil)
		return
	}
	form := postForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	h.renderPostForm(c, PostFormView{Form: form, IsEdit: true, PostID: post.ID})
}

// EditPost 保存编辑，成功后跳转到详情页
// @Summary 编辑帖子
// @Tags 帖子
// @Accept x-www-form-urlencoded,multipart/form-data,json
// @Produce json
// @Param id path int true "帖子ID"
// @Param text formData string true "正文"
// @Param group formData int false "分组ID"
// @Param image formData file false "图片"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id}/edit/ [post]
func (h *Handler) EditPost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		response.NotFound(c)
		return
	}
	ctx := c.Request.Context()
	userID := mustUser(c).ID
	if _, err := h.postService.Authorize(ctx, userID, id); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			redirect(c, postURL(id))
			return
		}
		fail(c, err, nil)
		return
	}

	var form postForm
	in, err := h.bindPost(c, &form)
	if err == nil {
		_, err = h.postService.Edit(ctx, userID, id, in)
	}
	switch {
	case err == nil, errors.Is(err, service.ErrForbidden):
		redirect(c, postURL(id))
	default:
		fail(c, err, form)
	}
}

// DeletePost 删除帖子，仅作者可操作
// @Summary 删除帖子
// @Tags 帖子
// @Param id path int true "帖子ID"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /posts/{id}/delete/ [post]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		response.NotFound(c)
		return
	}
	user := mustUser(c)
	err := h.postService.Delete(c.Request.Context(), user.ID, id)
	switch {
	case err == nil:
		redirect(c, profileURL(user.Username))
	case errors.Is(err, service.ErrForbidden):
		redirect(c, postURL(id))
	default:
		fail(c, err, nil)
	}
}

// AddComment 评论，完成后跳回详情页
// @Summary 发表评论
// @Tags 帖子
// @Accept x-www-form-urlencoded,json
// @Param id path int true "帖子ID"
// @Param text formData string true "评论内容"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id}/comment/ [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		response.NotFound(c)
		return
	}
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.commentService.Create(c.Request.Context(), mustUser(c).ID, id, form.Text); err != nil {
		fail(c, err, form)
		return
	}
	redirect(c, postURL(id))
}

func (h *Handler) renderPostForm(c *gin.Context, v PostFormView) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		fail(c, err, nil)
		return
	}
	v.Groups = groupViews(groups)
	response.Success(c, v)
}

// bindPost 解析表单 / JSON / multipart，图片读入内存
func (h *Handler) bindPost(c *gin.Context, form *postForm) (service.PostInput, error) {
	var in service.PostInput
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.ShouldBind(form); err != nil {
		return in, bindError(err)
	}
	in.Text = form.Text
	if g := strings.TrimSpace(form.Group); g != "" {
		gid, err := strconv.ParseUint(g, 10, 64)
		if err != nil || gid == 0 {
			return in, &validation.ValidationError{Field: "group", Message: "select a valid group"}
		}
		id := uint(gid)
		in.GroupID = &id
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, nil
		}
		return in, bindError(err)
	}
	up, err := readUpload(fh)
	if err != nil {
		return in, err
	}
	in.Image = up
	return in, nil
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &validation.ValidationError{Field: "image", Message: "upload is too large"}
	}
	return &validation.ValidationError{Field: "form", Message: err.Error()}
}

func readUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: fh.Filename, Content: bytes.NewReader(data)}, nil
}
