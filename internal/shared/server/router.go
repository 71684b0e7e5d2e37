package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/ingest"
	"consent-backend/internal/llm"
	"consent-backend/internal/query"
	"consent-backend/internal/sessions"
	"consent-backend/internal/shared/config"
	"consent-backend/internal/shared/metrics"
	"consent-backend/internal/shared/server/middleware"
	"consent-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers and collaborators the router needs.
type RouterDeps struct {
	Cfg      config.Config
	Sessions *sessions.Handler
	Query    *query.Handler
	Ingest   *ingest.Handler
	Auth     middleware.SessionValidator
	LLM      llm.ReasoningProvider
}

type connectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Cfg.CORSAllowOrigin),
		middleware.Auth(deps.Auth),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"LOGIN": {Rate: 0.5, Burst: 5},
				"QUERY": {Rate: 1, Burst: 10},
			},
			GroupFor: func(c *gin.Context) string {
				switch c.Request.URL.Path {
				case "/api/login":
					return "LOGIN"
				case "/api/query":
					return "QUERY"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		payload := gin.H{"ok": true}
		if checker, ok := deps.LLM.(connectionChecker); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := checker.CheckConnection(ctx); err != nil {
				payload["llm"] = "unavailable"
			} else {
				payload["llm"] = "ok"
			}
		}
		respond.JSON(c, http.StatusOK, payload)
	})
	deps.Sessions.RegisterRoutes(api)
	deps.Query.RegisterRoutes(api)
	deps.Ingest.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

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
