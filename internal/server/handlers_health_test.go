package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLiveness_ReportsUptime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	srv := newTestServerWithClock(t, &mockUserRepo{}, &mockOAuthClient{}, clock)

	clock.Advance(90 * time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"uptime":90`)
}

func TestHandleReadiness_Ready(t *testing.T) {
	srv := newTestServer(t, &mockUserRepo{}, &mockOAuthClient{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestHandleReadiness_DatabaseDown(t *testing.T) {
	srv := NewServer(testConfig(), &mockUserRepo{}, &mockOAuthClient{},
		&mockPinger{pingFn: func(_ context.Context) error { return fmt.Errorf("connection refused") }},
		clockwork.NewFakeClock())

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres")
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockUserRepo{}, &mockOAuthClient{})

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
	assert.Contains(t, rec.Body.String(), `"go_version"`)
}
