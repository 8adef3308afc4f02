package scope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sweepscope/internal/render"
	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

func newTestServer(t *testing.T) (*WebServer, *sweep.State) {
	t.Helper()
	state, err := sweep.NewState(4, 400)
	require.NoError(t, err)

	ws := NewWebServer(WebServerConfig{
		Address: ":0",
		State:   state,
		Scene:   render.BuildScene(400),
	})
	return ws, state
}

func publishFrame(ws *WebServer, state *sweep.State) render.Frame {
	r := render.NewRenderer(state, timeutil.RealClock{})
	f := r.Render(time.Now())
	ws.Publish(f)
	return f
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	ws, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	ws, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, float64(90), status["num_steps"])
	assert.Equal(t, float64(4), status["step_degrees"])
	assert.Equal(t, true, status["running"])
}

func TestHandleScene(t *testing.T) {
	t.Parallel()

	ws, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var scene render.Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scene))
	assert.Equal(t, 400.0, scene.MaxRange)
	assert.Len(t, scene.Rings, 5)
	assert.Len(t, scene.Spokes, 8)
}

func TestHandleFrameBeforeAndAfterPublish(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	mux := ws.setupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	state.RecordDistance(120)
	want := publishFrame(ws, state)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got render.Frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, want.Seq, got.Seq)
	require.Len(t, got.Points, 90)
	assert.InDelta(t, 120, got.Points[0].X, 1e-9)
}

func TestHandleStats(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	mux := ws.setupRoutes()

	// empty buffer: counts only
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(90), stats["steps"])
	assert.Equal(t, float64(0), stats["readings"])
	assert.NotContains(t, stats, "mean")

	state.RecordDistance(100)
	state.AdvanceStep()
	state.RecordDistance(300)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(2), stats["readings"])
	assert.InDelta(t, 100, stats["min"].(float64), 1e-9)
	assert.InDelta(t, 300, stats["max"].(float64), 1e-9)
	assert.InDelta(t, 200, stats["mean"].(float64), 1e-9)
}

func TestHandleSetRunning(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	mux := ws.setupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep/running", strings.NewReader(`{"running":false}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, state.Snapshot().Running)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep/running", strings.NewReader(`{"running":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, state.Snapshot().Running)
}

func TestHandleSetRunningRejectsBadRequests(t *testing.T) {
	t.Parallel()

	ws, _ := newTestServer(t)
	mux := ws.setupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sweep/running", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep/running", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep/running", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartPolarRequiresFrame(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	mux := ws.setupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/polar", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	publishFrame(ws, state)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart/polar", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestPlotPNG(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	mux := ws.setupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plot.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	state.RecordDistance(200)
	publishFrame(ws, state)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plot.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestWebSocketStreamsFrames(t *testing.T) {
	t.Parallel()

	ws, state := newTestServer(t)
	srv := httptest.NewServer(ws.setupRoutes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait for the hub to register the client before publishing
	require.Eventually(t, func() bool {
		return ws.hub.count() == 1
	}, time.Second, time.Millisecond)

	state.RecordDistance(250)
	want := publishFrame(ws, state)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got render.Frame
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want.Seq, got.Seq)
	assert.InDelta(t, 250, got.Points[0].X, 1e-9)
}

func TestIndexPageServed(t *testing.T) {
	t.Parallel()

	ws, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweepscope")
}
