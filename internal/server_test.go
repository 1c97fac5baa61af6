package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/config"
	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/middleware"
	"github.com/2beens/bodymeasures/internal/telemetry/metrics"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, redismock.ClientMock) {
	t.Helper()

	rdb, redisMock := redismock.NewClientMock()
	memStore := measurements.NewMemoryStore()
	memStore.Put("patient-1", measurements.PatientDocument{
		Sexo:         "Mujer",
		Measurements: measurements.History{{Date: "1/1/2024", Cintura: 70}},
	})

	return &Server{
		config: &config.Config{
			Store:                config.StoreMemory,
			WriteRateLimitPerMin: 0,
		},
		store:          memStore,
		redisClient:    rdb,
		authService:    auth.NewService(auth.DefaultTTL, rdb),
		metricsManager: metrics.NewTestManager(),
	}, redisMock
}

func TestServer_RouterSetup_PublicRoutes(t *testing.T) {
	server, redisMock := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/reference?sex=mujer", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sex":"mujer"`)

	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestServer_RouterSetup_ProtectedRoutes(t *testing.T) {
	server, redisMock := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	// no token: rejected before any redis call
	req := httptest.NewRequest("GET", "/measurements", nil)
	req.Header.Set("User-Agent", "test-agent")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// disallowed origin
	req = httptest.NewRequest("GET", "/measurements", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// token resolved through redis to a patient session
	redisMock.ExpectHGetAll("bodymeasures-session||tok-1").SetVal(map[string]string{
		"user_id":    "patient-1",
		"role":       "patient",
		"created_at": "4102444800", // far in the future, never stale
	})
	req = httptest.NewRequest("GET", "/measurements", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.TokenHeader, "tok-1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sex":"mujer"`)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestServer_GracefulShutdown(t *testing.T) {
	server, _ := newTestServer(t)
	server.otelShutdown = func() {}

	server.metricsManager.GaugeLifeSignal.Set(1)
	assert.NoError(t, server.GracefulShutdown())
	assert.Equal(t, float64(0), testutil.ToFloat64(server.metricsManager.GaugeLifeSignal))
}

func TestServer_connStateMetrics(t *testing.T) {
	server, _ := newTestServer(t)

	server.connStateMetrics(nil, http.StateNew)
	server.connStateMetrics(nil, http.StateNew)
	server.connStateMetrics(nil, http.StateActive)
	server.connStateMetrics(nil, http.StateClosed)

	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.GaugeRequests))
}
