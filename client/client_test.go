package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blastview/blastview/internal/models"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func analyzeReq() models.AnalyzeRequest {
	return models.AnalyzeRequest{CodebasePath: "/srv/demo_repo", ChangeIntent: "Modify db_connector"}
}

func TestAnalyze_Success(t *testing.T) {
	var got models.AnalyzeRequest
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/analyze": func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type: got %q", ct)
			}
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"start_nodes": ["db_connector"],
				"graph_data": [
					{"data": {"id": "db_connector", "label": "db_connector", "highlighted": true}},
					{"data": {"id": "app-db_connector-imports", "source": "app", "target": "db_connector", "label": "imports"}}
				],
				"impacts": [{"id": "db_connector", "category": "Data Handling", "is_direct": true, "explanation": "Directly modified component as per change intent."}]
			}`)) //nolint:errcheck
		},
	})

	res, err := c.Analyze(context.Background(), analyzeReq())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got != analyzeReq() {
		t.Errorf("request body: got %+v", got)
	}
	if !res.StartNodes.Has("db_connector") {
		t.Error("start_nodes not decoded")
	}
	if len(res.GraphData) != 2 || res.GraphData[0].Kind() != models.KindNode || res.GraphData[1].Kind() != models.KindEdge {
		t.Errorf("unexpected graph data: %+v", res.GraphData)
	}
	if len(res.Impacts) != 1 {
		t.Errorf("got %d impacts, want 1", len(res.Impacts))
	}
}

func TestAnalyze_MissingImpactsDecodesEmpty(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/analyze": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"start_nodes": []string{}, "graph_data": []any{}})
		},
	})

	res, err := c.Analyze(context.Background(), analyzeReq())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if res.Impacts == nil || len(res.Impacts) != 0 {
		t.Errorf("impacts: got %v, want empty slice", res.Impacts)
	}
}

func TestAnalyze_ErrorMessageFromBody(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/analyze": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 400, map[string]string{"error": "bad path"})
		},
	})

	_, err := c.Analyze(context.Background(), analyzeReq())
	if !IsAPIError(err) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if err.Error() != "bad path" {
		t.Errorf("message: got %q, want %q", err.Error(), "bad path")
	}
	if StatusCode(err) != 400 {
		t.Errorf("status: got %d, want 400", StatusCode(err))
	}
}

func TestAnalyze_GenericFailureMessage(t *testing.T) {
	bodies := map[string]string{
		"empty":      "",
		"no field":   `{"detail":"x"}`,
		"blank":      `{"error":""}`,
		"not json":   "<html>502 Bad Gateway</html>",
		"wrong type": `{"error":42}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, c := newTestServer(t, map[string]http.HandlerFunc{
				"POST /api/analyze": func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(500)
					w.Write([]byte(body)) //nolint:errcheck
				},
			})

			_, err := c.Analyze(context.Background(), analyzeReq())
			if err == nil || err.Error() != GenericFailureMessage {
				t.Errorf("got %v, want %q", err, GenericFailureMessage)
			}
		})
	}
}

func TestAnalyze_MalformedSuccessBody(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/analyze": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"graph_data": [{"data": {"id": "a", "highlighted": "maybe"}}]}`)) //nolint:errcheck
		},
	})

	_, err := c.Analyze(context.Background(), analyzeReq())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsAPIError(err) {
		t.Errorf("decode failure must not be an APIError: %v", err)
	}
	if !errors.Is(err, models.ErrInvalidHighlight) {
		t.Errorf("expected ErrInvalidHighlight in chain, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "decode response") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAnalyze_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Analyze(context.Background(), analyzeReq())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "request failed") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAuthHeader(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/analyze": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonResponse(w, 200, map[string]any{"start_nodes": []string{}, "graph_data": []any{}, "impacts": []any{}})
		},
	})

	c.Analyze(context.Background(), analyzeReq()) //nolint:errcheck
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q, want %q", gotAuth, "Bearer test-key")
	}
}

func TestWithTimeout_LeavesCallerClientAlone(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}

	c := New("http://127.0.0.1:5000", WithHTTPClient(hc), WithTimeout(30*time.Second))

	if hc.Timeout != 5*time.Second {
		t.Errorf("caller client timeout changed to %s", hc.Timeout)
	}
	if c.httpClient == hc {
		t.Fatal("timeout applied to the caller's client instead of a copy")
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout: got %s, want 30s", c.httpClient.Timeout)
	}
}

func TestWithTimeout_OrderIndependent(t *testing.T) {
	hc := &http.Client{}

	c := New("http://127.0.0.1:5000", WithTimeout(time.Second), WithHTTPClient(hc))

	if c.httpClient.Timeout != time.Second {
		t.Errorf("timeout: got %s, want 1s", c.httpClient.Timeout)
	}
	if hc.Timeout != 0 {
		t.Errorf("caller client timeout changed to %s", hc.Timeout)
	}
}

func TestWithHTTPClient_NilFallsBackToDefault(t *testing.T) {
	c := New("http://127.0.0.1:5000", WithHTTPClient(nil), WithTimeout(time.Second))

	if c.httpClient == nil {
		t.Fatal("nil HTTP client kept")
	}
	if c.httpClient.Timeout != time.Second {
		t.Errorf("timeout: got %s, want 1s", c.httpClient.Timeout)
	}
}
