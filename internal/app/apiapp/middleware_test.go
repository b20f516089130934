package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/slayerintech/Lovify/internal/services/auth"
)

func newAuthService() *authsvc.Service {
	return authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour))
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	auth := newAuthService()
	token, _, err := auth.IssueAccessToken("user-42")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	AuthMiddleware(auth, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok || identity.UserID != "user-42" || identity.SID == "" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	auth := newAuthService()
	cases := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage", header: "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(auth, zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatalf("handler must not be called")
			})).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthMiddlewareAcceptsQueryTokenOnlyForWebsocket(t *testing.T) {
	auth := newAuthService()
	token, _, err := auth.IssueAccessToken("user-7")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	plain := httptest.NewRequest(http.MethodGet, "/v1/ws?access_token="+token, nil)
	rr := httptest.NewRecorder()
	AuthMiddleware(auth, nil)(ok).ServeHTTP(rr, plain)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status without upgrade: got %d want %d", rr.Code, http.StatusUnauthorized)
	}

	upgrade := httptest.NewRequest(http.MethodGet, "/v1/ws?access_token="+token, nil)
	upgrade.Header.Set("Upgrade", "websocket")
	rr = httptest.NewRecorder()
	AuthMiddleware(auth, nil)(ok).ServeHTTP(rr, upgrade)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status with upgrade: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if token, ok := extractBearerToken("  bearer abc.def "); !ok || token != "abc.def" {
		t.Fatalf("unexpected token: %q %v", token, ok)
	}
	if _, ok := extractBearerToken("Bearer "); ok {
		t.Fatalf("empty bearer must be rejected")
	}
}
