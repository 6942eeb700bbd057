package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

// UserModule wires login/session handling and profiles.
// Public: POST /login, POST /refresh, GET /users/:username, GET /users/:username/posts
// Protected: POST /logout, GET|PUT /profile, POST /profile/avatar, GET /users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Touch   middleware.TouchFunc
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, touch middleware.TouchFunc) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Touch: touch}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.LastSeen(m.Touch),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}

	public := rg.Group("/users")
	public.Use(middleware.OptionalAuth(m.JWT))
	{
		public.GET("/:username", m.Handler.PublicProfile)
		public.GET("/:username/posts", m.Handler.UserPosts)
	}
}
