package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"log-anomaly-detector/internal/alert"
	"log-anomaly-detector/internal/analyzer"
	"log-anomaly-detector/internal/client"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Handlers serves the operator-facing REST and websocket surface.
type Handlers struct {
	store    *alert.Store
	analyzer *analyzer.Analyzer
	source   *client.LogSourceClient
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

// NewHandlers creates the handler set. source may be nil, in which case the
// source stats passthrough reports unavailable.
func NewHandlers(store *alert.Store, a *analyzer.Analyzer, source *client.LogSourceClient, logger *logrus.Logger) *Handlers {
	return &Handlers{
		store:    store,
		analyzer: a,
		source:   source,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// GetAlerts lists alerts, newest first.
func (h *Handlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	severity := r.URL.Query().Get("severity")
	acknowledged := r.URL.Query().Get("acknowledged")

	alerts := h.store.List(limit, severity, acknowledged)

	response := map[string]interface{}{
		"items": alerts,
		"total": len(alerts),
	}
	writeJSON(w, http.StatusOK, response)
}

// GetAlert returns one alert by id.
func (h *Handlers) GetAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	found := h.store.Get(id)
	if found == nil {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// AcknowledgeAlert marks an alert acknowledged. Repeated acknowledgment is
// a no-op that still succeeds.
func (h *Handlers) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if !h.store.Acknowledge(id) {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Alert " + id + " acknowledged",
	})
}

// GetStats reports alert store totals and analyzer state.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"alerts":           h.store.GetStats(),
		"history_size":     h.analyzer.HistoryLen(),
		"baseline_present": h.analyzer.Baseline() != nil,
		"threshold":        h.analyzer.Threshold(),
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetSourceStats proxies the log server's own statistics endpoint.
func (h *Handlers) GetSourceStats(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		writeError(w, http.StatusServiceUnavailable, "Log source not available")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	raw, err := h.source.SourceStats(ctx)
	if err != nil {
		h.logger.Errorf("Failed to fetch source stats: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch source stats")
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

// StreamAlerts pushes newly created alerts over a websocket connection.
func (h *Handlers) StreamAlerts(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sub := alert.NewSubscriber()
	h.store.Subscribe(sub)
	defer h.store.Unsubscribe(sub)

	h.logger.Infof("Alert stream subscriber %s connected from %s", sub.ID, r.RemoteAddr)

	// Send ping to keep connection alive
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case a, ok := <-sub.Channel:
			if !ok {
				return
			}
			if err := conn.WriteJSON(a); err != nil {
				h.logger.Debugf("WebSocket write error: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
