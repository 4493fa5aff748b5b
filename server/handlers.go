package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fablecraft/taleserver/apperror"
	"github.com/fablecraft/taleserver/logger"
)

type createGameRequest struct {
	Scenario  string `json:"scenario"`
	HostName  string `json:"host_name"`
	HostClass string `json:"host_class"`
	Secret    string `json:"secret,omitempty"`
}

type createGameResponse struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type joinGameRequest struct {
	Name   string `json:"name"`
	Class  string `json:"class"`
	Secret string `json:"secret,omitempty"`
}

type joinGameResponse struct {
	PlayerID string `json:"player_id"`
	IsHost   bool   `json:"is_host"`
}

type startGameRequest struct {
	PlayerID string `json:"player_id"`
}

func (s *GameServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID, playerID := s.coordinator.Create(req.Scenario, req.Secret, req.HostName, req.HostClass)
	logger.Log.Infof("Created game %s hosted by %s", gameID, req.HostName)
	writeJSON(w, http.StatusCreated, createGameResponse{GameID: gameID, PlayerID: playerID})
}

func (s *GameServer) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID := chi.URLParam(r, "gameID")
	playerID, isHost, err := s.coordinator.Join(gameID, req.Name, req.Class, req.Secret)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, joinGameResponse{PlayerID: playerID, IsHost: isHost})
}

func (s *GameServer) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID := chi.URLParam(r, "gameID")
	if err := s.coordinator.Start(r.Context(), gameID, req.PlayerID); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Game started"})
}

func (s *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	snap, err := s.coordinator.Snapshot(gameID)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIncorrectSecret):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrGameAlreadyStarted),
		errors.Is(err, apperror.ErrGameNotStarted),
		errors.Is(err, apperror.ErrRoundNotComplete):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNarrativeUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return "not_found"
	case errors.Is(err, apperror.ErrGameNotStarted), errors.Is(err, apperror.ErrGameAlreadyStarted):
		return "invalid_state"
	case errors.Is(err, apperror.ErrNarrativeUnavailable):
		return "narrative_unavailable"
	default:
		return "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
