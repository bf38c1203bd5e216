package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/news-api/internal/api/middleware"
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    time.Hour,
	}
}

// echoIdentity writes the bound identity back so tests can inspect it.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	json.NewEncoder(w).Encode(identity)
})

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	cfg := testConfig()
	tokens := auth.NewTokenManager(cfg)
	transport := auth.NewTransport(cfg)
	gate := middleware.Authenticate(tokens, transport, logging.Discard())(echoIdentity)

	identity := auth.Identity{UserID: uuid.New(), Role: domain.RoleEditor}
	access, err := tokens.IssueAccess(identity)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefresh(identity)
	require.NoError(t, err)

	expired, err := auth.NewTokenManager(cfg).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		IssueAccess(identity)
	require.NoError(t, err)

	tests := []struct {
		name        string
		prepare     func(r *http.Request)
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no credentials",
			prepare:     func(r *http.Request) {},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Access token missing",
		},
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+access)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "access cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: access})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "header wins over a bad cookie",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+access)
				r.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: "garbage"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "garbage token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not-a-jwt")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired access token",
		},
		{
			name: "expired token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+expired)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired access token",
		},
		{
			name: "refresh token presented as access",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+refresh)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired access token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, message(t, rec))
				return
			}

			var got auth.Identity
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, identity, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	gate := middleware.Authorize(domain.Roles(domain.RoleAdmin, domain.RoleEditor))(echoIdentity)

	tests := []struct {
		name        string
		identity    *auth.Identity
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no identity bound",
			wantStatus:  http.StatusForbidden,
			wantMessage: "Access denied",
		},
		{
			name:        "unknown role",
			identity:    &auth.Identity{UserID: uuid.New(), Role: "root"},
			wantStatus:  http.StatusForbidden,
			wantMessage: "Access denied",
		},
		{
			name:        "role outside allow-list",
			identity:    &auth.Identity{UserID: uuid.New(), Role: domain.RoleUser},
			wantStatus:  http.StatusForbidden,
			wantMessage: "You do not have permission to perform this action",
		},
		{
			name:       "editor admitted",
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleEditor},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin admitted",
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleAdmin},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
			if tt.identity != nil {
				req = req.WithContext(middleware.WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, message(t, rec))
			}
		})
	}
}

func TestCORS_AllowsCredentialedOrigin(t *testing.T) {
	handler := middleware.CORS("http://localhost:5713")(echoIdentity)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5713")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5713", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectsOtherOrigins(t *testing.T) {
	handler := middleware.CORS("http://localhost:5713")(echoIdentity)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
