package modules

import (
	"expvar"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
)

var (
	publishOnce sync.Once
	startedAt   = time.Now()
)

func publishRuntimeVars() {
	publishOnce.Do(func() {
		expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
	})
}

// DebugModule serves expvar at /debug/vars, reachable from private networks only.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishRuntimeVars()
	limit := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.OnlyPrivateIP(), limit, gin.WrapH(expvar.Handler()))
}
