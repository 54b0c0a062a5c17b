package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodGet, "/health", "")

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "Healthy" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	ok := DependencyCheck{Name: "postgres", Ping: func(ctx context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		checks     []DependencyCheck
		wantCode   int
		wantStatus string
	}{
		{name: "all up", checks: []DependencyCheck{ok}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "one down", checks: []DependencyCheck{ok, down}, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := jsonContext(e, http.MethodGet, "/health/ready", "")

			if err := NewReadinessHandler(zerolog.Nop(), tt.checks...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantStatus || len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestReadinessHandler_DoesNotLeakPingErrors(t *testing.T) {
	cause := "dial tcp 10.0.0.7:6379: connect: connection refused"
	down := DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return errors.New(cause) }}

	var logs bytes.Buffer
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodGet, "/health/ready", "")

	if err := NewReadinessHandler(zerolog.New(&logs), down).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if strings.Contains(rec.Body.String(), "10.0.0.7") || strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("response leaks the ping error: %s", rec.Body.String())
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("expected redis unhealthy, got %+v", resp.Dependencies)
	}
	if !strings.Contains(logs.String(), cause) || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected the cause in the log, got %s", logs.String())
	}
}
