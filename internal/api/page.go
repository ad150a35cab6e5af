package api

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/middleware"
	"github.com/blastview/blastview/internal/render"
)

//go:embed web/index.html.tmpl web/static
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html.tmpl"))

// staticFS returns the page assets rooted at web/static.
func staticFS() http.FileSystem {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}

	return http.FS(sub)
}

// pageData feeds the page shell template.
type pageData struct {
	Version      string
	CodebasePath string
	ChangeIntent string
	Status       coordinator.Status
	Rendering    *render.Rendering
}

// PageHandler serves the page shell and its form fallback.
type PageHandler struct {
	coord   Coordinator
	view    ViewSource
	log     *logrus.Logger
	version string
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(coord Coordinator, view ViewSource, log *logrus.Logger, version string) *PageHandler {
	return &PageHandler{coord: coord, view: view, log: log, version: version}
}

// Index handles GET /.
func (h *PageHandler) Index(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "", "")
}

// Submit handles POST / from the form when scripts are unavailable. The
// outcome is shown through the same status and view as the JSON endpoint.
func (h *PageHandler) Submit(c *gin.Context) {
	path := c.PostForm("codebase_path")
	intent := c.PostForm("change_intent")

	status := http.StatusOK
	if _, err := h.coord.Trigger(c.Request.Context(), path, intent); err != nil {
		status, _ = failureStatus(err)
	}

	h.renderPage(c, status, path, intent)
}

func (h *PageHandler) renderPage(c *gin.Context, status int, path, intent string) {
	r, _ := h.view.Current()

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, pageData{
		Version:      h.version,
		CodebasePath: path,
		ChangeIntent: intent,
		Status:       h.coord.Status(),
		Rendering:    r,
	}); err != nil {
		middleware.Logger(c, h.log).WithError(err).Error("rendering page")
		respondError(c, http.StatusInternalServerError, ErrCodeUnavailable, "page unavailable")

		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
