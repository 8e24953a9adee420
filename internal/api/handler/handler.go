package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
	"github.com/d60-Lab/social-graph/pkg/token"
)

// Handler 汇聚各服务，供路由注册
type Handler struct {
	authSvc    service.AuthService
	relSvc     service.RelationshipService
	contentSvc service.ContentService
	feedSvc    service.FeedService
	tokens     *token.Manager
}

func NewHandler(
	authSvc service.AuthService,
	relSvc service.RelationshipService,
	contentSvc service.ContentService,
	feedSvc service.FeedService,
	tokens *token.Manager,
) *Handler {
	return &Handler{
		authSvc:    authSvc,
		relSvc:     relSvc,
		contentSvc: contentSvc,
		feedSvc:    feedSvc,
		tokens:     tokens,
	}
}

// renderError 业务错误 → HTTP 状态码。认证失败统一 403，
// 不区分"用户不存在"和"密码错误"。
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, service.ErrUnknownPost),
		errors.Is(err, service.ErrUnknownComment):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrNotFollowing):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrConstraint):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
