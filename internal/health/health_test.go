package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskmill/taskmill/internal/health"
)

func TestHealthz_AlwaysOK(t *testing.T) {
	t.Parallel()
	h := health.New()

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz_AllChecksPass(t *testing.T) {
	t.Parallel()
	h := health.New(health.Checker{
		Name:  "database",
		Check: func(ctx context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Errorf("expected database check ok, got %q", body.Checks["database"])
	}
}

func TestReadyz_FailingCheck(t *testing.T) {
	t.Parallel()
	h := health.New(
		health.Checker{Name: "database", Check: func(ctx context.Context) error { return nil }},
		health.Checker{Name: "provider", Check: func(ctx context.Context) error { return errors.New("unreachable") }},
	)

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "fail" {
		t.Errorf("expected status fail, got %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Errorf("passing check should still report ok, got %q", body.Checks["database"])
	}
}
