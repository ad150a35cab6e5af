// Package api provides the HTTP surface of blastview: the page shell, the
// analysis trigger, the view endpoints and the event socket.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClientCounter reports connected socket clients. *ws.Hub implements it.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	hub         ClientCounter
	log         *logrus.Logger
	httpClient  *http.Client
	version     string
	startTime   time.Time
	analysisURL string
}

// NewHealthHandler creates a HealthHandler. hub may be nil.
func NewHealthHandler(hub ClientCounter, log *logrus.Logger, version, analysisURL string) *HealthHandler {
	return &HealthHandler{
		hub:         hub,
		log:         log,
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		version:     version,
		startTime:   time.Now(),
		analysisURL: analysisURL,
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	AnalysisURL   string  `json:"analysis_url"`
	Clients       int     `json:"websocket_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /api/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		AnalysisURL:   h.analysisURL,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.hub != nil {
		resp.Clients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/ready. Any HTTP answer from the analysis
// service counts as reachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"analysis": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if err := h.checkAnalysis(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("readiness: analysis service check failed")
		checks["analysis"] = "unreachable"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}

func (h *HealthHandler) checkAnalysis(ctx context.Context) error {
	if h.analysisURL == "" {
		return fmt.Errorf("analysis URL not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.analysisURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("analysis request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analysis unreachable: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	return nil
}
