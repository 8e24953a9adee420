package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type createPostRequest struct {
	Filename string `json:"filename" binding:"required"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// parseID 路径里的数字标识；解析失败交给上层按 NotFound 处理
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, "unknown "+name)
		return 0, false
	}
	return id, true
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body createPostRequest true "图片文件名"
// @Success 200 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.Viewer(c)
	p, err := h.contentSvc.CreatePost(c.Request.Context(), viewer, req.Filename)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 删帖，连带删除其评论与点赞
// @Summary 删帖
// @Tags 内容
// @Param postid path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/posts/{postid} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	postid, ok := parseID(c, "postid")
	if !ok {
		return
	}
	viewer := middleware.Viewer(c)
	if err := h.contentSvc.DeletePost(c.Request.Context(), viewer, postid); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddComment 发表评论
// @Summary 评论
// @Tags 内容
// @Accept json
// @Produce json
// @Param postid path int true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{postid}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	postid, ok := parseID(c, "postid")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.Viewer(c)
	cm, err := h.contentSvc.AddComment(c.Request.Context(), viewer, postid, req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 删除自己的评论
// @Summary 删评论
// @Tags 内容
// @Param commentid path int true "评论ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{commentid} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentid, ok := parseID(c, "commentid")
	if !ok {
		return
	}
	viewer := middleware.Viewer(c)
	if err := h.contentSvc.DeleteComment(c.Request.Context(), viewer, commentid); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleLike 点赞/取消点赞
// @Summary 点赞开关
// @Tags 内容
// @Param postid path int true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{postid}/likes [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	postid, ok := parseID(c, "postid")
	if !ok {
		return
	}
	viewer := middleware.Viewer(c)
	state, err := h.contentSvc.ToggleLike(c.Request.Context(), viewer, postid)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, state)
}
