package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blastview/blastview/client"
	"github.com/blastview/blastview/internal/api"
	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/models"
	"github.com/blastview/blastview/internal/render"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// fakeAnalyzer returns a fixed result or error.
type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ models.AnalyzeRequest) (*models.AnalysisResult, error) {
	return f.result, f.err
}

// busyCoordinator rejects every trigger as already in progress.
type busyCoordinator struct{}

func (busyCoordinator) Trigger(context.Context, string, string) (*render.Rendering, error) {
	return nil, &coordinator.Failure{Kind: coordinator.FailureBusy, Err: models.ErrBusy}
}

func (busyCoordinator) Status() coordinator.Status {
	return coordinator.Status{Busy: true}
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		StartNodes: models.NewNodeSet("a"),
		GraphData: []models.GraphElement{
			models.NewNode(models.Node{ID: "a", Label: "A", Highlighted: true}),
			models.NewNode(models.Node{ID: "b", Label: "B", Highlighted: true}),
			models.NewEdge(models.Edge{Source: "a", Target: "b"}),
		},
		Impacts: []models.ImpactRecord{
			{ID: "b", Label: "B", Category: "Logic", IsDirect: false, Explanation: "calls <a>"},
			{ID: "a", Label: "A", Category: "API", IsDirect: true, Explanation: "renamed"},
		},
	}
}

// newTestRouter wires a full router around a coordinator backed by analyzer.
func newTestRouter(analyzer coordinator.Analyzer) (http.Handler, *render.View) {
	view := render.NewView()
	coord := coordinator.New(analyzer, view, testLogger())

	return api.NewRouter(context.Background(), &api.RouterDeps{
		Log:         testLogger(),
		Coordinator: coord,
		View:        view,
		CORSOrigins: []string{"http://localhost:8080"},
		Version:     "test-v1",
		AnalysisURL: "http://127.0.0.1:5000",
	}), view
}

// upstreamError mimics a non-2xx analysis response.
func upstreamError(msg string) error {
	return &client.APIError{StatusCode: http.StatusBadRequest, Message: msg}
}

// doRequest performs an HTTP request against the handler and returns the recorder.
func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
