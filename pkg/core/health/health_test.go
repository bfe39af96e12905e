package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestNewChecker(t *testing.T) {
	checker := NewChecker("test-checker", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "test passed"}
	})

	if checker.Name() != "test-checker" {
		t.Errorf("Name() = %v, want test-checker", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("dashscript", "1.0.0", "v1")
			for i, s := range tt.statuses {
				s := s
				r.Register(NewChecker(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: s}
				}))
			}
			report := r.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Fatalf("Checks = %d, want %d", len(report.Checks), len(tt.statuses))
			}
			for i, c := range report.Checks {
				if c.Name != string(rune('a'+i)) {
					t.Errorf("Checks[%d].Name = %q, want sorted names", i, c.Name)
				}
			}
		})
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("store", pingerFunc(func(context.Context) error { return nil }), time.Second)
	if got := ok.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got.Status)
	}

	failing := PingCheck("store", pingerFunc(func(context.Context) error { return errors.New("disk gone") }), 0)
	got := failing.Check(context.Background())
	if got.Status != StatusUnhealthy || got.Message != "disk gone" {
		t.Errorf("got %+v, want unhealthy with message", got)
	}

	slow := PingCheck("store", pingerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), 10*time.Millisecond)
	if got := slow.Check(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy after timeout", got.Status)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry("dashscript", "1.0.0", "v1")
	rec := httptest.NewRecorder()
	r.Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != StatusHealthy || report.Version != "1.0.0" || report.Protocol != "v1" {
		t.Errorf("report = %+v", report)
	}

	r.Register(NewChecker("store", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	}))
	rec = httptest.NewRecorder()
	r.Handler(0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}
