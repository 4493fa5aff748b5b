package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/fablecraft/taleserver/game"
	"github.com/fablecraft/taleserver/hub"
	"github.com/fablecraft/taleserver/logger"
	"github.com/fablecraft/taleserver/models"
	"github.com/fablecraft/taleserver/network"
)

type GameServer struct {
	addr         string
	upgrader     websocket.Upgrader
	coordinator  *game.Coordinator
	hub          *hub.Hub
	writeTimeout time.Duration
	httpServer   *http.Server
}

func NewGameServer(addr string, coordinator *game.Coordinator, h *hub.Hub, writeTimeout time.Duration) *GameServer {
	return &GameServer{
		addr:         addr,
		coordinator:  coordinator,
		hub:          h,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
}

// Router assembles the HTTP surface. Exposed so tests can drive the server
// through httptest.
func (s *GameServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealthz)
	r.Post("/game", s.handleCreateGame)
	r.Route("/game/{gameID}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/join", s.handleJoinGame)
		r.Post("/start", s.handleStartGame)
	})
	r.Get("/ws/{gameID}/{playerID}", s.handleWebSocket)

	return r
}

func (s *GameServer) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}
	logger.Log.Infof("Game server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *GameServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleWebSocket is the persistent per-player channel. Inbound frames are
// raw action text; outbound frames are the structured events fanned out by
// the hub.
func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	playerID := chi.URLParam(r, "playerID")

	if _, err := s.coordinator.Store().Get(gameID); err != nil {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := network.NewWSConnection(conn, s.writeTimeout)
	s.hub.Connect(gameID, playerID, wsConn)
	logger.Log.Infof("New connection from %s, game %s, player %s", wsConn.RemoteAddr(), gameID, playerID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, game %s, player %s", wsConn.RemoteAddr(), gameID, playerID)
		if s.hub.Disconnect(gameID, wsConn) {
			if err := s.coordinator.Leave(gameID, playerID); err != nil {
				logger.Log.Warnf("Failed to announce departure of player %s: %v", playerID, err)
			}
		}
		wsConn.Close()
	}()

	for {
		text, err := wsConn.ReadAction()
		if err != nil {
			return
		}
		if err := s.coordinator.SubmitAction(r.Context(), gameID, playerID, text); err != nil {
			// Wrong-player submissions never reach this branch; those are
			// dropped without a word. Real failures get an error ack on
			// this one connection.
			logger.Log.Warnf("Action from player %s in game %s failed: %v", playerID, gameID, err)
			if sendErr := wsConn.SendEvent(models.ErrorEvent(errorCode(err), err.Error())); sendErr != nil {
				return
			}
		}
	}
}
