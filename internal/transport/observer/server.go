// Package observer exposes a running city over HTTP and streams every new
// generation to WebSocket clients.
package observer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"urban-ca/internal/core"
	"urban-ca/internal/persistence/gridjson"
	"urban-ca/internal/sims/city"
	"urban-ca/internal/stats"
)

type Server struct {
	world *city.World
	hub   *Hub
	log   *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *city.World, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		world: w,
		hub:   hub,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/grid", s.handleGrid)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.HandleFunc("POST /v1/place", s.handlePlace)
	mux.HandleFunc("GET /v1/observe", s.handleObserve)
	return mux
}

// Frame encodes the current generation as a grid document.
func (s *Server) Frame() ([]byte, error) {
	g, gen := s.world.Snapshot()
	return json.Marshal(gridjson.FromGrid(g, gen))
}

// Broadcast publishes the current generation to all observers.
func (s *Server) Broadcast() {
	if s.hub.Len() == 0 {
		return
	}
	frame, err := s.Frame()
	if err != nil {
		s.log.Error("encode frame", "error", err)
		return
	}
	s.hub.Publish(frame)
}

func (s *Server) handleGrid(rw http.ResponseWriter, r *http.Request) {
	g, gen := s.world.Snapshot()
	writeJSON(rw, http.StatusOK, gridjson.FromGrid(g, gen))
}

type statsResponse struct {
	Generation    uint64         `json:"generation"`
	Population    int            `json:"population"`
	Energy        int            `json:"energy"`
	Buildings     int            `json:"buildings"`
	Occupancy     float64        `json:"occupancy_pct"`
	AvgPopulation float64        `json:"avg_population"`
	AvgEnergy     float64        `json:"avg_energy"`
	Counts        map[string]int `json:"counts"`
}

func (s *Server) handleStats(rw http.ResponseWriter, r *http.Request) {
	g, gen := s.world.Snapshot()
	sum := stats.Compute(g)
	resp := statsResponse{
		Generation:    gen,
		Population:    sum.Population,
		Energy:        sum.Energy,
		Buildings:     sum.Buildings,
		Occupancy:     sum.Occupancy(),
		AvgPopulation: sum.AvgPopulation(),
		AvgEnergy:     sum.AvgEnergy(),
		Counts:        make(map[string]int, city.NumBuildingTypes),
	}
	for _, t := range city.BuildingTypes() {
		resp.Counts[t.String()] = sum.Counts.Get(t)
	}
	writeJSON(rw, http.StatusOK, resp)
}

type placeRequest struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

func (s *Server) handlePlace(rw http.ResponseWriter, r *http.Request) {
	if !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	var req placeRequest
	if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, 4096)).Decode(&req); err != nil {
		http.Error(rw, "bad request body", http.StatusBadRequest)
		return
	}
	t, err := city.ParseBuildingType(req.Type)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.world.Place(req.X, req.Y, t); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrOutOfBounds) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(rw, err.Error(), status)
		return
	}
	s.log.Info("parcel placed", "x", req.X, "y", req.Y, "type", t.String())
	writeJSON(rw, http.StatusOK, gridjson.Cell(s.world.Grid().At(req.X, req.Y)))
	s.Broadcast()
}

func (s *Server) handleObserve(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, frames := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)
	s.log.Debug("observer joined", "id", id, "remote", r.RemoteAddr)

	if first, err := s.Frame(); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
			return
		}
	}

	// Reader: only watches for the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			s.log.Debug("observer left", "id", id)
			return
		case b, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
