package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrapMountsPprofOnlyWhenEnabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	disabled := httptest.NewRecorder()
	Wrap(next, Config{}).ServeHTTP(disabled, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if disabled.Code != http.StatusTeapot {
		t.Fatalf("expected pprof to stay unmounted, got %d", disabled.Code)
	}

	handler := Wrap(next, Config{EnablePprof: true})
	enabled := httptest.NewRecorder()
	handler.ServeHTTP(enabled, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if enabled.Code != http.StatusOK {
		t.Fatalf("expected the pprof index, got %d", enabled.Code)
	}
	passthrough := httptest.NewRecorder()
	handler.ServeHTTP(passthrough, httptest.NewRequest(http.MethodGet, "/health", nil))
	if passthrough.Code != http.StatusTeapot {
		t.Fatalf("expected other paths to reach next, got %d", passthrough.Code)
	}
}
