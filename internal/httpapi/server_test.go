package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/georoute/georoute/internal/engine"
	"github.com/georoute/georoute/internal/httpapi"
	"github.com/georoute/georoute/internal/router"
)

func buildAPI(t *testing.T) http.Handler {
	t.Helper()

	desc := router.GraphDescription{
		Nodes: 3,
		Edges: []router.EdgeDescription{
			{From: 0, To: 1, BaseTravelTime: 1.0},
			{From: 1, To: 2, BaseTravelTime: 1.0},
		},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	eng := engine.New(r, zaptest.NewLogger(t))
	return httpapi.New(eng, zaptest.NewLogger(t)).Handler()
}

func TestHealth(t *testing.T) {
	h := buildAPI(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "ok", body["status"])
	}
}

func TestRouteFromQuery(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/route?src=0&dst=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Reachable bool     `json:"reachable"`
		Distance  float32  `json:"distance"`
		Path      []uint32 `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Reachable)
	require.InDelta(t, float32(2.0), body.Distance, 1e-5)
	require.Equal(t, []uint32{0, 1, 2}, body.Path)
}

func TestRouteFromBody(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", strings.NewReader(`{"source":0,"target":2}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouteFromQuery_MissingParam(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/route?src=0", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCongestionUpdate(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/congestion/update",
		strings.NewReader(`{"edge_start":0,"edge_end":0,"factor":2.0}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCongestionUpdate_OutOfRangeIs400(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/congestion/update",
		strings.NewReader(`{"edge_start":0,"edge_end":99,"factor":2.0}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCongestionUpdate_ZeroFactorFailsValidation(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/congestion/update",
		strings.NewReader(`{"edge_start":0,"edge_end":0,"factor":0}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit_RejectsBurstAboveLimit(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 2,
		Edges: []router.EdgeDescription{{From: 0, To: 1, BaseTravelTime: 1.0}},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	eng := engine.New(r, zaptest.NewLogger(t))
	api := httpapi.New(eng, zaptest.NewLogger(t))
	h := api.Handler()

	var sawLimited bool
	for i := 0; i < 2000; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			sawLimited = true
			break
		}
	}
	require.True(t, sawLimited, "expected the default rate limit to eventually reject a request under sustained burst")
}

func TestMetrics(t *testing.T) {
	h := buildAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/route?src=0&dst=2", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	h.ServeHTTP(mrec, mreq)

	require.Equal(t, http.StatusOK, mrec.Code)

	var body struct {
		QueriesTotal uint64 `json:"queries_total"`
	}
	require.NoError(t, json.Unmarshal(mrec.Body.Bytes(), &body))
	require.Equal(t, uint64(1), body.QueriesTotal)
}
