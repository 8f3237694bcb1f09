package http

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "FlowShift/pkg/logger"
)

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/ok", func(c echo.Context) error { return SuccessResponse(c, map[string]string{"status": "ok"}) })
	e.GET("/boom", func(echo.Context) error { panic("boom") })
	e.GET("/missing", func(c echo.Context) error { return AppErrorResponse(c, NotFoundError("session not found")) })
	e.GET("/busy", func(c echo.Context) error { return AppErrorResponse(c, ConflictError("request in flight")) })
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServerRoutes(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(routes{}, WithLogger(applogger.NewWriter(&buf)))

	rec := serve(s, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"status":"ok"}}`, rec.Body.String())

	rec = serve(s, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")

	rec = serve(s, http.MethodGet, "/busy")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_CONFLICT")
}

func TestServerRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(routes{}, WithLogger(applogger.NewWriter(&buf)))

	rec := serve(s, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestServerMetricsEndpoint(t *testing.T) {
	s := NewServer(routes{})
	serve(s, http.MethodGet, "/ok")

	rec := serve(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",path="/ok",status="200"}`))

	off := NewServer(routes{}, WithMetricsPath(""))
	assert.Equal(t, http.StatusNotFound, serve(off, http.MethodGet, "/metrics").Code)
}

func corsRequest(s *Server, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ok", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServerCORSWildcard(t *testing.T) {
	s := NewServer(routes{})

	rec := corsRequest(s, http.MethodOptions, "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestServerCORSConfiguredOrigins(t *testing.T) {
	s := NewServer(routes{}, WithCORSOrigins([]string{"http://localhost:5173", "https://*.flowshift.app"}))

	cases := []struct {
		origin string
		code   int
		allow  string
	}{
		{"http://localhost:5173", http.StatusNoContent, "http://localhost:5173"},
		{"https://desk.flowshift.app", http.StatusNoContent, "https://desk.flowshift.app"},
		{"https://flowshift.app.evil.com", http.StatusForbidden, ""},
		{"http://localhost:3000", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		rec := corsRequest(s, http.MethodOptions, tc.origin)
		assert.Equal(t, tc.code, rec.Code, tc.origin)
		assert.Equal(t, tc.allow, rec.Header().Get("Access-Control-Allow-Origin"), tc.origin)
	}

	rec := corsRequest(s, http.MethodGet, "http://localhost:3000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest(s, http.MethodGet, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerStartReportsBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	s := NewServer(routes{}, WithHost("127.0.0.1"), WithPort(port))
	err = s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
	assert.Nil(t, s.Addr())
}

func TestServerStartServes(t *testing.T) {
	s := NewServer(routes{}, WithHost("127.0.0.1"), WithPort(0))
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.NotNil(t, s.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + s.Addr().String() + "/ok")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}
