package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// FollowIndex 关注作者的帖子流
// @Summary 关注流
// @Tags 关系链
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=FeedView}
// @Success 302
// @Router /follow/ [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	fp, err := h.feedService.List(c.Request.Context(), service.FollowingOf(mustUser(c).ID), pageParam(c))
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, feedView(fp.Items, fp.Page))
}

// Follow 关注作者，完成后跳回作者主页
// @Summary 关注用户
// @Tags 关系链
// @Param username path string true "作者用户名"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /profile/{username}/follow/ [get]
// @Router /profile/{username}/follow/ [post]
func (h *Handler) Follow(c *gin.Context) {
	username := c.Param("username")
	err := h.relService.Follow(c.Request.Context(), mustUser(c).ID, username)
	if err != nil && !errors.Is(err, service.ErrFollowSelf) {
		fail(c, err, nil)
		return
	}
	redirect(c, profileURL(username))
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Param username path string true "作者用户名"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /profile/{username}/unfollow/ [get]
// @Router /profile/{username}/unfollow/ [post]
func (h *Handler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.relService.Unfollow(c.Request.Context(), mustUser(c).ID, username); err != nil {
		fail(c, err, nil)
		return
	}
	redirect(c, profileURL(username))
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Router /profile/{username}/following/ [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := listParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("username"), page, pageSize)
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFans 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Router /profile/{username}/followers/ [get]
func (h *Handler) ListFans(c *gin.Context) {
	page, pageSize := listParams(c)
	list, err := h.relService.ListFans(c.Request.Context(), c.Param("username"), page, pageSize)
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

func listParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
