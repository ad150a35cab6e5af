package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/middleware"
	"github.com/blastview/blastview/internal/models"
	"github.com/blastview/blastview/internal/render"
)

// AnalyzeHandler serves the analysis trigger and the displayed view.
type AnalyzeHandler struct {
	coord Coordinator
	view  ViewSource
	log   *logrus.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(coord Coordinator, view ViewSource, log *logrus.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{coord: coord, view: view, log: log}
}

// viewResponse is the JSON payload describing the displayed state.
type viewResponse struct {
	Version   uint64             `json:"version"`
	Status    coordinator.Status `json:"status"`
	Rendering *render.Rendering  `json:"rendering"`
}

// Analyze handles POST /api/analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Logger(c, h.log).WithError(err).Debug("invalid analyze payload")
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON payload")

		return
	}

	if _, err := h.coord.Trigger(c.Request.Context(), req.CodebasePath, req.ChangeIntent); err != nil {
		status, code := failureStatus(err)
		respondError(c, status, code, err.Error())

		return
	}

	h.respondView(c)
}

// View handles GET /api/view.
func (h *AnalyzeHandler) View(c *gin.Context) {
	h.respondView(c)
}

// List handles GET /api/view/list, returning the impact list markup.
func (h *AnalyzeHandler) List(c *gin.Context) {
	r, _ := h.view.Current()
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(r.ListHTML))
}

func (h *AnalyzeHandler) respondView(c *gin.Context) {
	r, version := h.view.Current()
	c.JSON(http.StatusOK, viewResponse{
		Version:   version,
		Status:    h.coord.Status(),
		Rendering: r,
	})
}

// failureStatus maps a Trigger failure to an HTTP status and error code.
func failureStatus(err error) (int, string) {
	switch coordinator.KindOf(err) {
	case coordinator.FailureValidation:
		return http.StatusBadRequest, ErrCodeValidationError
	case coordinator.FailureBusy:
		return http.StatusConflict, ErrCodeBusy
	default:
		return http.StatusBadGateway, ErrCodeUpstream
	}
}
