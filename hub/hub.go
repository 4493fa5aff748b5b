// hub/hub.go
package hub

import (
	"sync"

	"github.com/fablecraft/taleserver/logger"
	"github.com/fablecraft/taleserver/models"
	"github.com/fablecraft/taleserver/network"
)

// ConnMetrics receives connection-level counters. Defined here so the hub
// does not depend on the monitor package.
type ConnMetrics interface {
	IncConnectedClients()
	DecConnectedClients()
}

type nopMetrics struct{}

func (nopMetrics) IncConnectedClients() {}
func (nopMetrics) DecConnectedClients() {}

type subscriber struct {
	playerID string
	conn     network.Connection
}

// Hub 管理每局游戏的所有活跃连接
// Connections are kept in registration order per game; broadcasts walk that
// order and isolate per-connection failures.
type Hub struct {
	conns   map[string][]*subscriber
	mutex   sync.RWMutex
	metrics ConnMetrics
}

func NewHub(metrics ConnMetrics) *Hub {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Hub{
		conns:   make(map[string][]*subscriber),
		metrics: metrics,
	}
}

// Connect registers a connection under its game. No connection limit is
// enforced.
func (h *Hub) Connect(gameID, playerID string, conn network.Connection) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.conns[gameID] = append(h.conns[gameID], &subscriber{playerID: playerID, conn: conn})
	h.metrics.IncConnectedClients()
}

// Disconnect deregisters a connection and reports whether it was registered.
// Safe to call more than once for the same connection.
func (h *Hub) Disconnect(gameID string, conn network.Connection) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subs := h.conns[gameID]
	for i, sub := range subs {
		if sub.conn == conn {
			h.conns[gameID] = append(subs[:i:i], subs[i+1:]...)
			if len(h.conns[gameID]) == 0 {
				delete(h.conns, gameID)
			}
			h.metrics.DecConnectedClients()
			return true
		}
	}
	return false
}

// BroadcastToGame delivers the event to every connection of the game, in
// registration order, best effort. A failed send is logged and skipped so the
// remaining connections still get the event.
func (h *Hub) BroadcastToGame(gameID string, event models.Event) {
	h.mutex.RLock()
	subs := append([]*subscriber(nil), h.conns[gameID]...)
	h.mutex.RUnlock()

	for _, sub := range subs {
		if err := sub.conn.SendEvent(event); err != nil {
			logger.Log.Warnf("Failed to deliver %s event to player %s in game %s: %v",
				event.Type, sub.playerID, gameID, err)
			continue
		}
	}
}

// ConnectionCount returns the number of live connections for a game.
func (h *Hub) ConnectionCount(gameID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.conns[gameID])
}
