package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

type SocialModule struct {
	Handler *handlers.SocialHandler
	JWT     *helpers.JWTManager
	Touch   middleware.TouchFunc
}

func NewSocialModule(h *handlers.SocialHandler, jwt *helpers.JWTManager, touch middleware.TouchFunc) *SocialModule {
	return &SocialModule{Handler: h, JWT: jwt, Touch: touch}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.LastSeen(m.Touch),
		middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/follow/:username", m.Handler.Follow)
		auth.POST("/unfollow/:username", m.Handler.Unfollow)
	}
}
