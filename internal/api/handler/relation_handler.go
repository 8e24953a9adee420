package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type followRequest struct {
	Username string `json:"username" binding:"required"`
}

// Follow 关注用户
// @Summary 关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "被关注者"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.Viewer(c)
	if err := h.relSvc.Follow(c.Request.Context(), viewer, req.Username); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "被取关者"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.Viewer(c)
	if err := h.relSvc.Unfollow(c.Request.Context(), viewer, req.Username); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// Followers 某用户的粉丝列表，逐条标注 viewer 是否已关注
// @Summary 粉丝列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{username}/followers [get]
func (h *Handler) Followers(c *gin.Context) {
	viewer := middleware.Viewer(c)
	list, err := h.feedSvc.Followers(c.Request.Context(), viewer, c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"followers": list})
}

// Following 某用户的关注列表，逐条标注 viewer 是否已关注
// @Summary 关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{username}/following [get]
func (h *Handler) Following(c *gin.Context) {
	viewer := middleware.Viewer(c)
	list, err := h.feedSvc.Following(c.Request.Context(), viewer, c.Param("username"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"following": list})
}
