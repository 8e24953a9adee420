package api

import (
	"regexp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/social-graph/config"
	_ "github.com/d60-Lab/social-graph/docs"
	"github.com/d60-Lab/social-graph/internal/api/handler"
	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/token"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{1,20}$`)

// RegisterValidators 注册自定义校验规则（binding:"username"）
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	}
}

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, tm *token.Manager) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	RegisterValidators()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
	r.Use(otelgin.Middleware(cfg.Trace.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/accounts", h.Register)
		v1.POST("/accounts/login", h.Login)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(tm))
	{
		authed.POST("/accounts/password", h.ChangePassword)

		authed.GET("/feed/home", h.Home)
		authed.GET("/feed/explore", h.Explore)

		authed.GET("/users/:username", h.Profile)
		authed.GET("/users/:username/followers", h.Followers)
		authed.GET("/users/:username/following", h.Following)

		authed.POST("/relations/follow", h.Follow)
		authed.POST("/relations/unfollow", h.Unfollow)

		authed.POST("/posts", h.CreatePost)
		authed.GET("/posts/:postid", h.PostDetail)
		authed.DELETE("/posts/:postid", h.DeletePost)
		authed.POST("/posts/:postid/comments", h.AddComment)
		authed.POST("/posts/:postid/likes", h.ToggleLike)
		authed.DELETE("/comments/:commentid", h.DeleteComment)
	}

	return r
}
