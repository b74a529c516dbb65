package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taskmill/taskmill/internal/assign"
	"github.com/taskmill/taskmill/internal/config"
	"github.com/taskmill/taskmill/internal/extract"
	"github.com/taskmill/taskmill/internal/extract/llmextract"
	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/server"
)

// errExtractor always fails with the configured error.
type errExtractor struct {
	err error
}

func (e *errExtractor) Extract(ctx context.Context, transcript string, members []roster.Member) (*extract.Result, error) {
	return nil, e.err
}

func newTestServer(t *testing.T, services map[config.Mode]*extract.Service, defaultMode config.Mode) *httptest.Server {
	t.Helper()
	srv := server.New(services, defaultMode, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func heuristicService() *extract.Service {
	anchor := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	h := extract.NewHeuristicAt(func() time.Time { return anchor })
	return extract.NewService(h, assign.New())
}

func postExtract(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/extract", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestExtractEndpoint_HappyPath(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp := postExtract(t, ts, `{"transcript": "Mark: I'll implement rate limiting."}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Tasks []struct {
			Title      string `json:"title"`
			Assignment struct {
				Reason string `json:"reason"`
			} `json:"assignment"`
		} `json:"tasks"`
		Metadata struct {
			Model string `json:"model"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(body.Tasks))
	}
	if body.Tasks[0].Title != "implement rate limiting" {
		t.Errorf("unexpected title: %q", body.Tasks[0].Title)
	}
	if body.Metadata.Model != extract.HeuristicModel {
		t.Errorf("unexpected model: %q", body.Metadata.Model)
	}
}

func TestExtractEndpoint_EmptyTranscript(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp := postExtract(t, ts, `{"transcript": "   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractEndpoint_InvalidJSON(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp := postExtract(t, ts, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractEndpoint_UnknownMode(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp := postExtract(t, ts, `{"transcript": "x", "mode": "telepathy"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractEndpoint_UnconfiguredMode(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp := postExtract(t, ts, `{"transcript": "x", "mode": "model"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a mode with no service, got %d", resp.StatusCode)
	}
}

func TestExtractEndpoint_ServiceUnavailableMapsTo502(t *testing.T) {
	t.Parallel()
	failing := extract.NewService(&errExtractor{
		err: fmt.Errorf("model call: %w", llmextract.ErrServiceUnavailable),
	}, assign.New())
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeModel: failing,
	}, config.ModeModel)

	resp := postExtract(t, ts, `{"transcript": "x"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("expected code SERVICE_UNAVAILABLE, got %q", body.Code)
	}
}

func TestExtractEndpoint_MalformedResponseMapsTo502(t *testing.T) {
	t.Parallel()
	failing := extract.NewService(&errExtractor{
		err: &llmextract.MalformedResponseError{Raw: "gibberish"},
	}, assign.New())
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeModel: failing,
	}, config.ModeModel)

	resp := postExtract(t, ts, `{"transcript": "x"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "MALFORMED_RESPONSE" {
		t.Errorf("expected code MALFORMED_RESPONSE, got %q", body.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestMetricsEndpoint_WithoutRegistryIs404(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, map[config.Mode]*extract.Service{
		config.ModeHeuristic: heuristicService(),
	}, config.ModeHeuristic)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 without a registry, got %d", resp.StatusCode)
	}
}
