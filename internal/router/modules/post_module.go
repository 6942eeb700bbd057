package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
	Touch   middleware.TouchFunc
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager, touch middleware.TouchFunc) *PostModule {
	return &PostModule{Handler: h, JWT: jwt, Touch: touch}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	rg.GET("/explore", middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil), m.Handler.Explore)

	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.LastSeen(m.Touch),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/timeline", m.Handler.Timeline)
	}
}
