package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterOptions struct {
	Log      *zap.Logger
	Limiter  Limiter             // nil disables rate limiting
	Gatherer prometheus.Gatherer // nil hides /metrics
	Service  string
}

func NewRouter(h *Handler, opt RouterOptions) *gin.Engine {
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	if opt.Service == "" {
		opt.Service = "task-manager"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID(), Trace(opt.Service), RequestLogger(opt.Log), Metrics())
	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, CodeNotFound, "not found", nil)
	})

	r.GET("/healthz", h.Healthz)
	r.GET("/.well-known/jwks.json", h.JWKS)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opt.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{})))
	}

	limited := []gin.HandlerFunc{}
	if opt.Limiter != nil {
		limited = append(limited, RateLimit(opt.Limiter))
	}
	auth := Authenticate(h.Tokens)

	users := r.Group("/users")
	{
		users.POST("", append(limited, h.Register)...)
		users.POST("/login", append(limited, h.Login)...)
		users.GET("/:id/avatar", h.GetAvatar)

		me := users.Group("", auth)
		me.POST("/logout", h.Logout)
		me.POST("/logoutAll", h.LogoutAll)
		me.GET("/me", h.Me)
		me.PATCH("/me", h.UpdateMe)
		me.DELETE("/me", h.DeleteMe)
		me.POST("/me/avatar", h.UploadAvatar)
		me.DELETE("/me/avatar", h.DeleteAvatar)
	}

	tasks := r.Group("/tasks", auth)
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
	return r
}
