package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomly/internal/auth/session"
	"roomly/pkg/config"
	"roomly/pkg/logger"
)

func testSessions(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(&config.Config{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		SessionCookieName: "roomly_session",
		SessionTTL:        time.Hour,
	})
}

func testGateway(t *testing.T) (*Gateway, *session.Manager) {
	t.Helper()
	sessions := testSessions(t)
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return New(sessions, log), sessions
}

func serve(g *Gateway, r *http.Request) (*httptest.ResponseRecorder, *bool, *string) {
	reached := false
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seenUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	g.Middleware()(next).ServeHTTP(rec, r)
	return rec, &reached, &seenUserID
}

func withSession(t *testing.T, sessions *session.Manager, r *http.Request, userID string) {
	t.Helper()
	token, err := sessions.Issue(userID, "user@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	r.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: token})
}

func TestPublicPathPassesWithoutSession(t *testing.T) {
	g, _ := testGateway(t)

	for _, path := range []string{"/api/v1/auth/login", "/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec, reached, _ := serve(g, req)
		if !*reached {
			t.Errorf("%s: expected pass-through, got status %d", path, rec.Code)
		}
	}
}

func TestRoomBrowsingIsPublic(t *testing.T) {
	g, _ := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	_, reached, _ := serve(g, req)
	if !*reached {
		t.Error("expected GET /api/v1/rooms to pass without a session")
	}
}

func TestProtectedPathRedirectsWithoutSession(t *testing.T) {
	g, _ := testGateway(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/bookings"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/manager/bookings"},
		{http.MethodGet, "/api/v1/admin/bookings"},
		{http.MethodPost, "/api/v1/rooms"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec, reached, _ := serve(g, req)
		if *reached {
			t.Errorf("%s %s: expected redirect, handler was reached", tt.method, tt.path)
			continue
		}
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s %s: expected 303, got %d", tt.method, tt.path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/auth/login?from=") {
			t.Errorf("%s %s: unexpected redirect target %q", tt.method, tt.path, loc)
		}
	}
}

func TestRedirectCarriesOriginalPath(t *testing.T) {
	g, _ := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec, _, _ := serve(g, req)

	want := "/auth/login?from=%2Fapi%2Fv1%2Fbookings"
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("expected redirect to %q, got %q", want, loc)
	}
}

func TestProtectedPathWithSessionReachesHandler(t *testing.T) {
	g, sessions := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	withSession(t, sessions, req, "507f1f77bcf86cd799439011")

	rec, reached, userID := serve(g, req)
	if !*reached {
		t.Fatalf("expected pass-through, got status %d", rec.Code)
	}
	if *userID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected claims in context, got user ID %q", *userID)
	}
}

func TestInvalidTokenRedirects(t *testing.T) {
	g, sessions := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: "not-a-token"})

	rec, reached, _ := serve(g, req)
	if *reached {
		t.Error("expected redirect for garbage token")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
}

func TestLoggedInLoginPageRedirectsHome(t *testing.T) {
	g, sessions := testGateway(t)

	for _, path := range []string{"/auth/login", "/auth/register"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		withSession(t, sessions, req, "507f1f77bcf86cd799439011")

		rec, reached, _ := serve(g, req)
		if *reached {
			t.Errorf("%s: expected redirect home for logged-in user", path)
			continue
		}
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("%s: expected redirect to /, got %q", path, loc)
		}
	}
}

func TestAnonymousLoginPagePasses(t *testing.T) {
	g, _ := testGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	_, reached, _ := serve(g, req)
	if !*reached {
		t.Error("expected anonymous access to the login page to pass")
	}
}
