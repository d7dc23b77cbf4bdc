package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secangkircinta/scug/internal/adapters/repository/memory"
	"github.com/secangkircinta/scug/internal/adapters/storage"
	"github.com/secangkircinta/scug/internal/application/services"
	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

type testServer struct {
	server  *Server
	auth    *services.AuthService
	storage *storage.FileStorage
}

func newTestServer(t *testing.T, checks map[string]ReadinessCheck) *testServer {
	t.Helper()
	return newTestServerWith(t, logger.NewNop(), func(deps *Dependencies) {
		deps.Checks = checks
	})
}

func newTestServerWith(t *testing.T, log *logger.Logger, configure func(*Dependencies)) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:      config.AppConfig{Version: "test"},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:  config.MetricsConfig{Enabled: true},
		Storage:  config.StorageConfig{MaxUploadBytes: 1 << 20},
		JWT:      config.JWTConfig{Secret: "server-secret", ExpiresIn: time.Hour, Issuer: "scug-test"},
	}

	repos := memory.NewRepositories()
	store := storage.NewMemoryStorage("/files")
	m := metrics.New()
	auth := services.NewAuthService(repos.Admins, cfg.JWT, log)

	deps := Dependencies{
		Projects: services.NewProjectService(repos, nil, log),
		Tasks:    services.NewTaskService(repos.Tasks, repos.Projects, repos.Members, m, log),
		Members:  services.NewMemberService(repos.Members, log),
		Rosters:  services.NewProjectMemberService(repos, log),
		Media:    services.NewMediaService(repos.Media, repos.Projects, store, nil, cfg.Storage.MaxUploadBytes, m, log),
		Covers:   services.NewCoverService(repos.Covers, repos.Projects, store, nil, cfg.Storage.MaxUploadBytes, m, log),
		Reports:  services.NewReportService(repos.Reports, repos.Projects, store, cfg.Storage.MaxUploadBytes, m, log),
		Auth:     auth,
		Files:    store.HTTPHandler(),
		Metrics:  m,
	}
	if configure != nil {
		configure(&deps)
	}

	return &testServer{server: New(cfg, deps, log), auth: auth, storage: store}
}

func (ts *testServer) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	_, err := ts.auth.CreateAdmin(ctx, ports.CreateAdminRequest{Email: "admin@scug.id", Password: "rahasia123"})
	require.NoError(t, err)
	resp, err := ts.auth.Login(ctx, ports.LoginRequest{Email: "admin@scug.id", Password: "rahasia123"})
	require.NoError(t, err)
	return resp.AccessToken
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer abc", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			ts.server.Echo().ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestPublicRoutesAreOpen(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/api/v1/projects", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/projects/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t, map[string]ReadinessCheck{
		"database": func(ctx context.Context) error { return nil },
	})

	rec := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = ts.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := newTestServer(t, map[string]ReadinessCheck{
		"database": func(ctx context.Context) error { return nil },
		"cache":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	rec = failing.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache":"error"`)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestReadinessReportsDatabaseStats(t *testing.T) {
	ts := newTestServerWith(t, logger.NewNop(), func(deps *Dependencies) {
		deps.Checks = map[string]ReadinessCheck{
			"database": func(ctx context.Context) error { return nil },
		}
		deps.DatabaseStats = func() map[string]interface{} {
			return map[string]interface{}{"driver": "sqlite3", "open_connections": 1}
		}
	})

	rec := ts.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string                 `json:"status"`
		Database map[string]interface{} `json:"database"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "sqlite3", body.Database["driver"])
	assert.Equal(t, float64(1), body.Database["open_connections"])
}

func TestRequestLogCarriesRequestAndAdmin(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ts := newTestServerWith(t, logger.NewWithCore(core), nil)
	token := ts.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	ts.server.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.NotEmpty(t, fields["admin_id"])
	assert.Equal(t, "/api/v1/admin/projects", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status_code"])

	rec = ts.do(http.MethodGet, "/api/v1/projects/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	failed := logs.FilterMessage("HTTP request failed").All()
	require.Len(t, failed, 1)
	assert.NotContains(t, failed[0].ContextMap(), "admin_id")
	assert.NotEmpty(t, failed[0].ContextMap()["request_id"])
}

func TestFilesAreServed(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, ts.storage.Put(context.Background(), "reports/p/laporan.txt", bytes.NewReader([]byte("isi laporan")), "text/plain"))

	rec := ts.do(http.MethodGet, "/files/reports/p/laporan.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "isi laporan", string(body))

	rec = ts.do(http.MethodGet, "/files/reports/p/missing.txt", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.do(http.MethodGet, "/api/v1/projects", "")

	rec := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestSwaggerDocument(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/projects/{id}/tasks/{taskId}/claim")
	assert.Contains(t, rec.Body.String(), "/admin/projects/{id}/members/{memberId}")
}
