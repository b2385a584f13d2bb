package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/logger"
)

const (
	liveUpdateInterval = 30 * time.Second
	livePingInterval   = 50 * time.Second
	liveWriteTimeout   = 10 * time.Second
)

// StreamHandler pushes live market updates over a websocket. Each
// connected client gets the current snapshot summary immediately and a
// fresh one on every tick.
type StreamHandler struct {
	collector *collector.Collector
	upgrader  websocket.Upgrader
	logger    *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(col *collector.Collector, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		collector: col,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log,
	}
}

// LiveUpdate is one websocket frame: the lightweight parts of the
// snapshot that change between full refreshes.
type LiveUpdate struct {
	TakenAt     time.Time                           `json:"taken_at"`
	SymbolCount int                                 `json:"symbol_count"`
	Commodities map[string]contracts.Commodity      `json:"commodities"`
	Sentiment   contracts.SentimentEntry            `json:"sentiment"`
	Sectors     map[string]contracts.SentimentEntry `json:"sectors,omitempty"`
}

// Live upgrades the connection and streams snapshot summaries
// GET /api/market/live
func (h *StreamHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.logger.WithField("remote", r.RemoteAddr).Info("Live stream client connected")

	done := make(chan struct{})
	go h.readPump(conn, done)
	go h.writePump(conn, done, r.RemoteAddr)
}

// readPump drains client frames so close and pong frames are processed.
func (h *StreamHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, done <-chan struct{}, remote string) {
	ticker := time.NewTicker(liveUpdateInterval)
	pinger := time.NewTicker(livePingInterval)
	defer func() {
		ticker.Stop()
		pinger.Stop()
		conn.Close()
		h.logger.WithField("remote", remote).Info("Live stream client disconnected")
	}()

	// First frame straight away
	if err := h.sendUpdate(conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.sendUpdate(conn); err != nil {
				return
			}
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) sendUpdate(conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := h.collector.CachedSnapshot(ctx)
	if err != nil {
		// Nothing collected yet; keep the connection and try next tick
		return nil
	}

	update := LiveUpdate{
		TakenAt:     snap.TakenAt,
		SymbolCount: snap.SymbolCount(),
		Commodities: snap.Commodities,
		Sentiment:   snap.Sentiment.OverallMarket,
		Sectors:     snap.Sentiment.SectorSentiment,
	}

	conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return conn.WriteJSON(update)
}
