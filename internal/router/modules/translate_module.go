package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

type TranslateModule struct {
	Handler *handlers.TranslateHandler
	JWT     *helpers.JWTManager
}

func NewTranslateModule(h *handlers.TranslateHandler, jwt *helpers.JWTManager) *TranslateModule {
	return &TranslateModule{Handler: h, JWT: jwt}
}

func (m *TranslateModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// upstream API is metered per call
	rg.POST("/translate",
		middleware.Auth(rdb, m.JWT),
		middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.Translate,
	)
}
