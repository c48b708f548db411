package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-crud-starter/internal/core/auth"
	"employee-crud-starter/internal/core/config"
	"employee-crud-starter/internal/core/server"
	mdw "employee-crud-starter/internal/transport/http/middleware"
)

const (
	FlavorBlocking = "blocking"
	FlavorReactive = "reactive"
)

type EngineOpts struct {
	Flavor string
	Limits config.Limits // 零值项不启用对应中间件
	JWT    *auth.JWTer   // nil 或无 secret 时写接口不鉴权
}

func NewEngine(l *zap.Logger, o EngineOpts, reg *Registry) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(mdw.RequestID())
	if o.Limits.RPS > 0 {
		rl := mdw.RateLimit
		if o.Limits.PerIP {
			rl = mdw.RateLimitPerIP
		}
		r.Use(rl(rate.Limit(o.Limits.RPS), max(1, o.Limits.Burst)))
	}
	if o.Limits.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(o.Limits.Concurrency))
	}
	if o.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(o.Limits.MaxBodyBytes))
	}
	if o.Limits.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(o.Limits.TimeoutSec) * time.Second))
	}
	r.Use(mdw.Metrics(o.Flavor), mdw.AccessLog(l))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1, "flavor": o.Flavor}) })
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))

	api := r.Group("/api")
	api.Use(mdw.AuthWrites(o.JWT))
	reg.MountAll(api)

	return r
}
