package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/blastview/blastview/internal/api"
	"github.com/blastview/blastview/internal/render"
)

type viewBody struct {
	Version uint64 `json:"version"`
	Status  struct {
		Busy  bool   `json:"busy"`
		Error string `json:"error"`
	} `json:"status"`
	Rendering struct {
		Elements []json.RawMessage `json:"elements"`
		Stats    struct {
			Total    int `json:"total"`
			Direct   int `json:"direct"`
			Indirect int `json:"indirect"`
		} `json:"stats"`
		ListHTML string `json:"list_html"`
	} `json:"rendering"`
}

func decodeView(t *testing.T, body []byte) viewBody {
	t.Helper()

	var v viewBody
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	return v
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()

	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	return e.Error
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeAnalyzer{result: sampleResult()})

	w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"/repo","change_intent":"rename"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	v := decodeView(t, w.Body.Bytes())
	if v.Version != 1 {
		t.Errorf("expected version 1, got %d", v.Version)
	}
	if v.Rendering.Stats.Total != 2 || v.Rendering.Stats.Direct != 1 || v.Rendering.Stats.Indirect != 1 {
		t.Errorf("unexpected stats: %+v", v.Rendering.Stats)
	}
	if len(v.Rendering.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(v.Rendering.Elements))
	}
	if strings.Index(v.Rendering.ListHTML, "renamed") > strings.Index(v.Rendering.ListHTML, "calls") {
		t.Error("direct impact should be listed first")
	}
	if !strings.Contains(v.Rendering.ListHTML, "calls &lt;a&gt;") {
		t.Errorf("explanation not escaped: %s", v.Rendering.ListHTML)
	}
	if v.Status.Busy || v.Status.Error != "" {
		t.Errorf("unexpected status: %+v", v.Status)
	}
}

func TestAnalyze_MissingInput(t *testing.T) {
	t.Parallel()

	r, view := newTestRouter(&fakeAnalyzer{result: sampleResult()})

	w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"  ","change_intent":"rename"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	if got := decodeError(t, w.Body.Bytes()); got != "Please provide both codebase path and change intent." {
		t.Errorf("unexpected error: %q", got)
	}

	if _, version := view.Current(); version != 0 {
		t.Errorf("view should be untouched, version %d", version)
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeAnalyzer{})

	w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAnalyze_UpstreamErrorKeepsView(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{result: sampleResult()}
	r, _ := newTestRouter(analyzer)

	if w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"/repo","change_intent":"x"}`); w.Code != http.StatusOK {
		t.Fatalf("seed analysis failed: %d", w.Code)
	}

	analyzer.result = nil
	analyzer.err = upstreamError("bad path")

	w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"/nope","change_intent":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decodeError(t, w.Body.Bytes()); got != "bad path" {
		t.Errorf("expected upstream message, got %q", got)
	}

	w = doRequest(r, http.MethodGet, "/api/view", "")
	v := decodeView(t, w.Body.Bytes())
	if v.Version != 1 || v.Rendering.Stats.Total != 2 {
		t.Errorf("previous rendering should stay visible, got version %d stats %+v", v.Version, v.Rendering.Stats)
	}
	if v.Status.Error != "bad path" {
		t.Errorf("error slot = %q", v.Status.Error)
	}
}

func TestAnalyze_TransportError(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeAnalyzer{err: errors.New("request failed: connection refused")})

	w := doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"/repo","change_intent":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decodeError(t, w.Body.Bytes()); !strings.Contains(got, "connection refused") {
		t.Errorf("unexpected error: %q", got)
	}
}

func TestAnalyze_Busy(t *testing.T) {
	t.Parallel()

	h := api.NewRouter(context.Background(), &api.RouterDeps{
		Log:         testLogger(),
		Coordinator: busyCoordinator{},
		View:        render.NewView(),
	})

	w := doRequest(h, http.MethodPost, "/api/analyze", `{"codebase_path":"/repo","change_intent":"x"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestView_Empty(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeAnalyzer{})

	w := doRequest(r, http.MethodGet, "/api/view", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	v := decodeView(t, w.Body.Bytes())
	if v.Version != 0 || v.Rendering.Stats.Total != 0 || len(v.Rendering.Elements) != 0 {
		t.Errorf("expected empty view, got %+v", v)
	}
	if !strings.Contains(v.Rendering.ListHTML, "No impacts detected.") {
		t.Errorf("expected placeholder, got %q", v.Rendering.ListHTML)
	}
}

func TestViewList_ReturnsFragment(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeAnalyzer{result: sampleResult()})
	doRequest(r, http.MethodPost, "/api/analyze", `{"codebase_path":"/repo","change_intent":"x"}`)

	w := doRequest(r, http.MethodGet, "/api/view/list", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	if strings.Count(w.Body.String(), `class="impact-item"`) != 2 {
		t.Errorf("expected two impact items, got %s", w.Body.String())
	}
}
