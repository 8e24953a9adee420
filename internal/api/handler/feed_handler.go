package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Home 首页 feed：自己 + 关注者的帖子
// @Summary 首页
// @Tags feed
// @Success 200 {object} response.Response
// @Router /api/v1/feed/home [get]
func (h *Handler) Home(c *gin.Context) {
	viewer := middleware.Viewer(c)
	cards, err := h.feedSvc.Home(c.Request.Context(), viewer)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": cards})
}

// Explore 发现页：未关注者的帖子
// @Summary 发现页
// @Tags feed
// @Success 200 {object} response.Response
// @Router /api/v1/feed/explore [get]
func (h *Handler) Explore(c *gin.Context) {
	viewer := middleware.Viewer(c)
	cards, err := h.feedSvc.Explore(c.Request.Context(), viewer)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": cards})
}

// Profile 个人主页
// @Summary 个人主页
// @Tags feed
// @Param username path string true "用户名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	viewer := middleware.Viewer(c)
	view, err := h.feedSvc.Profile(c.Request.Context(), viewer, c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, view)
}

// PostDetail 帖子详情
// @Summary 帖子详情
// @Tags feed
// @Param postid path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{postid} [get]
func (h *Handler) PostDetail(c *gin.Context) {
	postid, ok := parseID(c, "postid")
	if !ok {
		return
	}
	viewer := middleware.Viewer(c)
	view, err := h.feedSvc.PostDetail(c.Request.Context(), viewer, postid)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, view)
}
