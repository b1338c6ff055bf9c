package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hireflow-backend/internal/applications"
	"hireflow-backend/internal/interview"
	"hireflow-backend/internal/jobs"
	"hireflow-backend/internal/orgs"
	"hireflow-backend/internal/shared/config"
	"hireflow-backend/internal/shared/metrics"
	"hireflow-backend/internal/shared/server/middleware"
	"hireflow-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up. Bootstrap builds them;
// tests can pass a subset.
type RouterDeps struct {
	Config             config.Config
	OrgHandler         *orgs.Handler
	JobHandler         *jobs.Handler
	ApplicationHandler *applications.Handler
	SocketHandler      *interview.SocketHandler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	// Public candidate endpoints have no auth, so throttle by client IP.
	// Apply is strict: a submission stores a CV and triggers AI analysis.
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/apply/:slug" {
				return "APPLY"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 20, Burst: 60},
			"APPLY":   {Rate: 0.5, Burst: 5},
		},
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.OrgHandler != nil {
		deps.OrgHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.SocketHandler != nil {
		deps.SocketHandler.RegisterRoutes(r.Group(""))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
