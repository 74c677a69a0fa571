package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(ctx context.Context) string {
	return m.version
}

func TestNewHandler_ReturnsNonNil(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop())

	require.NotNil(t, h)
}

func TestNewHandler_StoresServices(t *testing.T) {
	svc := &service.Services{}
	h := NewHandler(svc, logger.Nop())

	assert.Equal(t, svc, h.services)
}

func TestNewHandler_CreatesValidator(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop())

	assert.NotNil(t, h.validator)
}

func newTestRouterHandler() *Handler {
	svcs := &service.Services{
		AppInfoService: &mockAppInfoService{version: "test-version"},
	}
	return NewHandler(svcs, logger.Nop())
}

func TestInit_RegistersSyncRoutes(t *testing.T) {
	router := newTestRouterHandler().Init()

	patterns := make(map[string]bool)
	for _, route := range router.Routes() {
		patterns[route.Pattern] = true
	}

	for _, want := range []string{
		"/api/user/register",
		"/api/user/login",
		"/api/sync/batch",
		"/api/sync/delta/{since}",
		"/api/sync/status",
		"/api/sync/resolve-conflict/{id}",
		"/api/version",
	} {
		assert.Truef(t, patterns[want], "route %s is not registered", want)
	}
}

func TestInit_SyncRoutesRequireAuth(t *testing.T) {
	h := &Handler{
		services: &service.Services{
			SyncService: &mockSyncService{},
			AuthService: &mockAuthService{},
		},
		logger: logger.Nop(),
	}
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestInit_UnknownMethodHiddenAsNotFound(t *testing.T) {
	router := newTestRouterHandler().Init()

	req := httptest.NewRequest(http.MethodDelete, "/api/user/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
