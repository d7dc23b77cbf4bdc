package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveClaim(t *testing.T) {
	m := New()

	m.ObserveClaim(ClaimClaimed)
	m.ObserveClaim(ClaimConflict)
	m.ObserveClaim(ClaimConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.taskClaims.WithLabelValues(ClaimClaimed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.taskClaims.WithLabelValues(ClaimConflict)))
}

func TestObserveUploadAndOrphans(t *testing.T) {
	m := New()

	m.ObserveUpload("media", nil)
	m.ObserveUpload("media", errors.New("disk full"))
	m.AddOrphansDeleted(3)
	m.AddOrphansDeleted(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("media", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("media", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.orphansDeleted))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveClaim(ClaimClaimed)
		m.ObserveUpload("cover", nil)
		m.AddOrphansDeleted(2)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
