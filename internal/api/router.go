package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blastview/blastview/internal/middleware"
	"github.com/blastview/blastview/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Coordinator  Coordinator
	View         ViewSource
	Hub          *ws.Hub // optional; nil disables /api/ws
	CORSOrigins  []string
	Version      string
	AnalysisURL  string
	MaxBodyBytes int64
}

// Router-level limits.
const (
	defaultMaxBodySize = 1 << 20
	analyzeRateLimit   = 2 // analysis attempts per second
	analyzeRateBurst   = 4
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBody))
	// Same-origin page requests bypass CORS; origins only matter for other tools.
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}
	r.Use(middleware.PrometheusMiddleware("/api/ws", "/static/*filepath"))
}

// registerRoutes sets up the page and API routes.
func registerRoutes(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	log := deps.Log

	page := NewPageHandler(deps.Coordinator, deps.View, log, deps.Version)
	analyze := NewAnalyzeHandler(deps.Coordinator, deps.View, log)

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}
	health := NewHealthHandler(clients, log, deps.Version, deps.AnalysisURL)

	limit := middleware.RateLimit(analyzeRateLimit, analyzeRateBurst)

	// Page shell.
	r.GET("/", page.Index)
	r.POST("/", limit, page.Submit)
	r.StaticFS("/static", staticFS())

	api := r.Group("/api")

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Analysis and view.
	api.POST("/analyze", limit, analyze.Analyze)
	api.GET("/view", analyze.View)
	api.GET("/view/list", analyze.List)

	// Event stream.
	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(ctx, r, deps)

	return r
}
