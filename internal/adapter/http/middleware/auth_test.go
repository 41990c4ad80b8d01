package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/auth"
	"github.com/inspi-writer001/feesplit/tests/testutil"
)

type failureCounter map[string]int

func (f failureCounter) ObserveAuthFailure(reason string) { f[reason]++ }

func TestAuthMiddlewareBindsPrincipal(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	token, err := manager.Generate(testutil.Authority)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got domain.Principal
	h := AuthMiddleware(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got != testutil.Authority {
		t.Fatalf("expected principal %s, got %s", testutil.Authority, got)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	garbage, err := manager.Generate(domain.Principal("not-a-key"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "missing header", header: "", reason: "missing"},
		{name: "wrong scheme", header: "Basic abc", reason: "malformed"},
		{name: "bad token", header: "Bearer nope", reason: "invalid"},
		{name: "subject not a key", header: "Bearer " + garbage, reason: "subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := failureCounter{}
			h := AuthMiddleware(manager, failures)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if failures[tt.reason] != 1 {
				t.Fatalf("expected failure reason %q, got %v", tt.reason, failures)
			}
		})
	}
}
