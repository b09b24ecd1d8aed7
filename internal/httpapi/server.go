// Package httpapi exposes an internal/boundary.Boundary over HTTP and a
// tick-pushing WebSocket feed, grounded on the router/middleware layout of
// a mux-based graph server and the hub/client broadcast pattern of a
// websocket-driven simulation front end found elsewhere in this module's
// ancestry. cmd/cli's serve subcommand and cmd/server both call Serve.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/tms-sim/citytraffic/internal/boundary"
	"github.com/tms-sim/citytraffic/internal/graph"
)

// Server wires a Boundary to an HTTP router and a WebSocket broadcast hub.
type Server struct {
	b   *boundary.Boundary
	log *logrus.Logger
	hub *hub
}

// Serve builds the router and blocks serving it on addr.
func Serve(b *boundary.Boundary, addr string, log *logrus.Logger) error {
	if log == nil {
		log = logrus.New()
	}
	s := newServer(b, log)
	handler := cors.AllowAll().Handler(s.router())
	log.WithField("addr", addr).Info("serving traffic simulation boundary")
	return http.ListenAndServe(addr, handler)
}

// newServer constructs a Server with its broadcast hub running, without
// binding a listener. Exposed for tests that drive the router directly.
func newServer(b *boundary.Boundary, log *logrus.Logger) *Server {
	s := &Server{b: b, log: log, hub: newHub()}
	go s.hub.run()
	return s
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(s.log))

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	router.HandleFunc("/maps", s.listMaps).Methods(http.MethodGet)
	router.HandleFunc("/maps/current", s.getMap).Methods(http.MethodGet)
	router.HandleFunc("/maps/{name}", s.switchMap).Methods(http.MethodPost)
	router.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	router.HandleFunc("/simulation", s.simulationInfo).Methods(http.MethodGet)
	router.HandleFunc("/simulation/tick", s.tick).Methods(http.MethodPost)
	router.HandleFunc("/simulation/reset", s.reset).Methods(http.MethodPost)
	router.HandleFunc("/simulation/continuous/start", s.startContinuous).Methods(http.MethodPost)
	router.HandleFunc("/simulation/continuous/stop", s.stopContinuous).Methods(http.MethodPost)

	router.HandleFunc("/vehicles", s.listVehicles).Methods(http.MethodGet)
	router.HandleFunc("/vehicles", s.spawnVehicle).Methods(http.MethodPost)
	router.HandleFunc("/vehicles/batch", s.spawnMultiple).Methods(http.MethodPost)
	router.HandleFunc("/vehicles/{id}", s.getVehicle).Methods(http.MethodGet)
	router.HandleFunc("/vehicles/{id}", s.removeVehicle).Methods(http.MethodDelete)

	router.HandleFunc("/traffic/statistics", s.trafficStatistics).Methods(http.MethodGet)
	router.HandleFunc("/traffic/congestion", s.congestionReport).Methods(http.MethodGet)
	router.HandleFunc("/traffic/edges/{from}/{to}", s.edgeTraffic).Methods(http.MethodGet)

	router.HandleFunc("/accidents", s.listAccidents).Methods(http.MethodGet)
	router.HandleFunc("/accidents", s.createAccident).Methods(http.MethodPost)
	router.HandleFunc("/accidents/{id}", s.resolveAccident).Methods(http.MethodDelete)

	router.HandleFunc("/blockages", s.listBlockages).Methods(http.MethodGet)
	router.HandleFunc("/blockages", s.blockRoad).Methods(http.MethodPost)
	router.HandleFunc("/blockages/{from}/{to}", s.unblockRoad).Methods(http.MethodDelete)

	router.HandleFunc("/ws", s.serveWS)

	return router
}

func loggingMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("request")
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if be, ok := err.(*boundary.Error); ok {
		switch be.Kind {
		case boundary.KindNotFound:
			status = http.StatusNotFound
		case boundary.KindConflict:
			status = http.StatusConflict
		case boundary.KindInfeasible:
			status = http.StatusUnprocessableEntity
		case boundary.KindValidation:
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": s.b.Health()})
}

func (s *Server) listMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.ListMaps())
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	data, err := s.b.GetMap()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) switchMap(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.b.SwitchMap(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.b.GetState())
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.GetState())
}

func (s *Server) simulationInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.GetSimulationInfo())
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	state, err := s.b.Tick()
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.broadcast(state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.b.ResetSimulation()
	writeJSON(w, http.StatusOK, s.b.GetState())
}

func (s *Server) startContinuous(w http.ResponseWriter, r *http.Request) {
	interval := 500 * time.Millisecond
	if ms := r.URL.Query().Get("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			interval = time.Duration(v) * time.Millisecond
		}
	}
	s.b.StartContinuous(interval)
	go s.pushWhileRunning()
	writeJSON(w, http.StatusOK, s.b.GetSimulationInfo())
}

func (s *Server) stopContinuous(w http.ResponseWriter, r *http.Request) {
	s.b.StopContinuous()
	writeJSON(w, http.StatusOK, s.b.GetSimulationInfo())
}

// pushWhileRunning mirrors each continuous tick onto the websocket hub
// while the background ticker is running.
func (s *Server) pushWhileRunning() {
	last := s.b.GetSimulationInfo().TickCount
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		info := s.b.GetSimulationInfo()
		if !info.Continuous {
			return
		}
		if info.TickCount != last {
			last = info.TickCount
			s.hub.broadcast(s.b.GetState())
		}
	}
}

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.ListVehicles())
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	v, err := s.b.GetVehicle(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type spawnVehicleRequest struct {
	Type  string  `json:"type"`
	Start *string `json:"start,omitempty"`
	Goal  *string `json:"goal,omitempty"`
}

func (s *Server) spawnVehicle(w http.ResponseWriter, r *http.Request) {
	var req spawnVehicleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, err)
			return
		}
	}
	v, err := s.b.SpawnVehicle(req.Type, req.Start, req.Goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

type spawnMultipleRequest struct {
	Count        int                `json:"count"`
	Distribution map[string]float64 `json:"distribution,omitempty"`
}

func (s *Server) spawnMultiple(w http.ResponseWriter, r *http.Request) {
	var req spawnMultipleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	ids := s.b.SpawnMultiple(req.Count, req.Distribution)
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

func (s *Server) removeVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.b.RemoveVehicle(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) trafficStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.GetTrafficStatistics())
}

func (s *Server) congestionReport(w http.ResponseWriter, r *http.Request) {
	k := 0
	if ks := r.URL.Query().Get("top"); ks != "" {
		if v, err := strconv.Atoi(ks); err == nil {
			k = v
		}
	}
	writeJSON(w, http.StatusOK, s.b.GetCongestionReport(k))
}

func (s *Server) edgeTraffic(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rec, err := s.b.GetEdgeTraffic(graph.NodeID(vars["from"]), graph.NodeID(vars["to"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listAccidents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.ListAccidents())
}

type createAccidentRequest struct {
	From     *graph.NodeID `json:"from,omitempty"`
	To       *graph.NodeID `json:"to,omitempty"`
	Severity string        `json:"severity"`
}

func (s *Server) createAccident(w http.ResponseWriter, r *http.Request) {
	var req createAccidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.b.CreateAccident(req.From, req.To, req.Severity)
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.broadcast(s.b.GetState())
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) resolveAccident(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.b.ResolveAccident(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (s *Server) listBlockages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.b.ListBlockedRoads())
}

type blockRoadRequest struct {
	From   graph.NodeID `json:"from"`
	To     graph.NodeID `json:"to"`
	Reason string       `json:"reason"`
}

func (s *Server) blockRoad(w http.ResponseWriter, r *http.Request) {
	var req blockRoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	bl, err := s.b.BlockRoad(req.From, req.To, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.broadcast(s.b.GetState())
	writeJSON(w, http.StatusCreated, bl)
}

func (s *Server) unblockRoad(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.b.UnblockRoad(graph.NodeID(vars["from"]), graph.NodeID(vars["to"])); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unblocked"})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	s.hub.register <- c
	go c.writer()
	c.reader(s.hub)

	if payload, err := json.Marshal(s.b.GetState()); err == nil {
		c.send <- payload
	}
}
