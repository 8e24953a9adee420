package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Filename string `json:"filename" binding:"required"`
	Password string `json:"password" binding:"required,min=1"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=1"`
}

// Register 注册新用户
// @Summary 注册
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/accounts [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Fullname, req.Email, req.Filename, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"username": u.Username})
}

// Login 登录换取 token
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/accounts/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.authSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	t, err := h.tokens.Issue(u.Username)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"token": t, "username": u.Username})
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body changePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/accounts/password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := middleware.Viewer(c)
	if err := h.authSvc.ChangePassword(c.Request.Context(), viewer, req.OldPassword, req.NewPassword); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}
