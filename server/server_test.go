package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"goflare.io/display/config"
)

type stubPromotion struct{}

func (stubPromotion) GetDisplay(c echo.Context) error { return c.String(http.StatusOK, "display") }
func (stubPromotion) MarkShown(c echo.Context) error  { return c.String(http.StatusOK, "shown:"+c.Param("id")) }
func (stubPromotion) Dismiss(c echo.Context) error    { return c.String(http.StatusOK, "dismiss:"+c.Param("id")) }

type stubAnalytics struct{}

func (stubAnalytics) TrackEvent(c echo.Context) error { return c.String(http.StatusOK, "events:"+c.Param("id")) }
func (stubAnalytics) TrackUsage(c echo.Context) error { return c.String(http.StatusOK, "usage:"+c.Param("id")) }

type stubAdmin struct{}

func (stubAdmin) GetPromotion(c echo.Context) error    { return c.String(http.StatusOK, "admin:"+c.Param("id")) }
func (stubAdmin) InvalidateCache(c echo.Context) error { return c.String(http.StatusOK, "invalidate") }

func newTestServer() *Server {
	return NewServer(stubPromotion{}, stubAnalytics{}, stubAdmin{}, &config.Config{}, zap.NewNop())
}

func TestRoutes(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/promotions/display?session_id=s", "display"},
		{http.MethodPost, "/promotions/p1/shown", "shown:p1"},
		{http.MethodPost, "/promotions/p1/dismiss", "dismiss:p1"},
		{http.MethodPost, "/promotions/p1/events", "events:p1"},
		{http.MethodPost, "/promotions/p1/usage", "usage:p1"},
		{http.MethodGet, "/admin/promotions/p1", "admin:p1"},
		{http.MethodDelete, "/admin/promotions/cache", "invalidate"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.Equal(t, tc.want, rec.Body.String(), tc.path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
