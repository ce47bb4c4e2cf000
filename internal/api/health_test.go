package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Ensure NewHealthHandler constructs without args and CheckHealth responds
func TestHealthHandler_CheckHealth(t *testing.T) {
	h := NewHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.CheckHealth(w, req)
	if code := w.Result().StatusCode; code != http.StatusOK && code != http.StatusInternalServerError {
		t.Fatalf("unexpected status code: %d", code)
	}
}

func TestHealthHandler_ReflectsBoundProbe(t *testing.T) {
	t.Cleanup(func() { BindServiceHealth(func() bool { return healthyFlag.Load() == 1 }) })

	BindServiceHealth(func() bool { return true })
	w := httptest.NewRecorder()
	NewHealthHandler().CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"healthy"`) {
		t.Fatalf("expected healthy status, got %s", body)
	}

	BindServiceHealth(func() bool { return false })
	w = httptest.NewRecorder()
	NewHealthHandler().CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if body := w.Body.String(); !strings.Contains(body, `"unhealthy"`) {
		t.Fatalf("expected unhealthy status, got %s", body)
	}
}
