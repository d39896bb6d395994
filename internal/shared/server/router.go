package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/routes"
	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/config"
	"progresslog-api/internal/shared/metrics"
	"progresslog-api/internal/shared/server/middleware"
	"progresslog-api/internal/shared/server/respond"
	"progresslog-api/internal/shared/telemetry"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Config  config.Config
	Logger  *telemetry.Logger
	Metrics *metrics.Metrics
	Routes  routes.Deps
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	verbose := cfg.IsDevelopment()

	r := gin.New()
	r.HandleMethodNotAllowed = false

	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Logger),
		deps.Metrics.Middleware(),
		middleware.Recovery(verbose),
		middleware.Errors(verbose),
		middleware.SecurityHeaders(cfg.Env == "production"),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.BodyLimit(cfg.BodyLimit),
	)

	if deps.Routes.Intake != nil {
		r.Static(deps.Routes.Intake.URLPrefix(), deps.Routes.Intake.Dir())
	}
	r.GET("/metrics", deps.Metrics.Handler())

	routes.Register(r, deps.Routes)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, string(apperr.KindNotFound), "Endpoint not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
