// Package scope serves the radar display: a static canvas page, a websocket
// frame stream, and JSON/chart/PNG snapshot endpoints.
package scope

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/sweepscope/internal/monitoring"
	"github.com/banshee-data/sweepscope/internal/render"
	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/version"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AdminRouteAttacher mounts debug endpoints under /debug/. The serial mux
// implements it; in simulate mode there is nothing to attach.
type AdminRouteAttacher interface {
	AttachAdminRoutes(*http.ServeMux)
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	State   *sweep.State
	Scene   render.Scene
	Admin   AdminRouteAttacher
}

// WebServer handles the HTTP interface for the radar display. The renderer
// pushes frames in through Publish; clients pull them out over the websocket
// or the snapshot endpoints.
type WebServer struct {
	address string
	state   *sweep.State
	scene   render.Scene
	hub     *Hub
	admin   AdminRouteAttacher
	server  *http.Server
	started time.Time

	frameMu   sync.Mutex
	lastFrame *render.Frame
}

// NewWebServer creates a web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		state:   config.State,
		scene:   config.Scene,
		admin:   config.Admin,
		hub:     newHub(),
		started: time.Now(),
	}

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}

	return ws
}

// Publish is the renderer's frame callback: it retains the latest frame for
// the snapshot endpoints and broadcasts it to websocket clients. It never
// blocks on client I/O.
func (ws *WebServer) Publish(f render.Frame) {
	ws.frameMu.Lock()
	ws.lastFrame = &f
	ws.frameMu.Unlock()

	data, err := json.Marshal(f)
	if err != nil {
		monitoring.Logf("failed to marshal frame: %v", err)
		return
	}
	ws.hub.Broadcast(data)
}

// latest returns the most recent frame, or nil before the first render.
func (ws *WebServer) latest() *render.Frame {
	ws.frameMu.Lock()
	defer ws.frameMu.Unlock()
	return ws.lastFrame
}

// Start begins the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc("/api/status", ws.handleStatus)
	mux.HandleFunc("/api/scene", ws.handleScene)
	mux.HandleFunc("/api/frame", ws.handleFrame)
	mux.HandleFunc("/api/stats", ws.handleStats)
	mux.HandleFunc("/api/sweep/running", ws.handleSetRunning)
	mux.HandleFunc("/ws", ws.handleWS)
	mux.HandleFunc("/chart/polar", ws.handleChartPolar)
	mux.HandleFunc("/plot.png", ws.handlePlotPNG)
	mux.Handle("/", http.FileServer(http.FS(mustSub(staticFiles, "static"))))

	// mount the serial debugging routes when a hardware link exists
	if ws.admin != nil {
		ws.admin.AttachAdminRoutes(mux)
	}

	return mux
}

// mustSub roots the embedded filesystem at the static directory so files are
// served at / rather than /static/.
func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("failed to encode response: %v", err)
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := ws.state.Snapshot()
	ws.writeJSON(w, map[string]any{
		"version":        version.Version,
		"uptime_seconds": time.Since(ws.started).Seconds(),
		"num_steps":      ws.state.NumSteps(),
		"step_degrees":   ws.state.StepDegrees(),
		"max_range":      ws.state.MaxRange(),
		"current_step":   snap.Step,
		"direction":      snap.Direction,
		"running":        snap.Running,
		"ws_clients":     ws.hub.count(),
	})
}

func (ws *WebServer) handleScene(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, ws.scene)
}

func (ws *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	f := ws.latest()
	if f == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}
	ws.writeJSON(w, f)
}

// handleStats reports distance buffer statistics over the nonzero readings.
func (ws *WebServer) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := ws.state.Snapshot()

	readings := make([]float64, 0, len(snap.Distances))
	for _, d := range snap.Distances {
		if d != 0 {
			readings = append(readings, d)
		}
	}

	resp := map[string]any{
		"steps":    len(snap.Distances),
		"readings": len(readings),
	}
	if len(readings) > 0 {
		min, max := readings[0], readings[0]
		for _, v := range readings[1:] {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
		resp["min"] = min
		resp["max"] = max
		resp["mean"] = stat.Mean(readings, nil)
		resp["stddev"] = stat.StdDev(readings, nil)
	}
	ws.writeJSON(w, resp)
}

// handleSetRunning pauses or resumes the sweep.
func (ws *WebServer) handleSetRunning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Running *bool `json:"running"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Running == nil {
		ws.writeJSONError(w, http.StatusBadRequest, "expected body {\"running\": bool}")
		return
	}
	ws.state.SetRunning(*body.Running)
	ws.writeJSON(w, map[string]bool{"running": *body.Running})
}

// handleWS upgrades to a websocket and streams frames until the client goes
// away. The read loop exists only to observe the close.
func (ws *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("websocket upgrade failed: %v", err)
		return
	}

	c := ws.hub.add(conn)
	defer ws.hub.remove(c.id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
