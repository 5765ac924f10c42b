package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewHandler wires the relay's HTTP surface: the websocket endpoint, health
// and diagnostics, and the static client assets.
func NewHandler(hub *Hub, cfg Config) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		conns, playerCount := hub.DiagnosticsSnapshot()
		payload := struct {
			Status          string                  `json:"status"`
			ServerTime      int64                   `json:"serverTime"`
			Players         int                     `json:"players"`
			Connections     []diagnosticsConnection `json:"connections"`
			HeartbeatMillis int64                   `json:"heartbeatMillis"`
			IdleMillis      int64                   `json:"idleMillis"`
		}{
			Status:          "ok",
			ServerTime:      time.Now().UnixMilli(),
			Players:         playerCount,
			Connections:     conns,
			HeartbeatMillis: cfg.HeartbeatInterval.Milliseconds(),
			IdleMillis:      cfg.IdleTimeout.Milliseconds(),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			hub.log.Warnw("websocket upgrade failed", "error", err)
			return
		}
		c := hub.register(conn)
		go c.writePump()
		go c.readPump()
	})

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.ClientDir)))

	return r
}
