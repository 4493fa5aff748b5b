// game/interfaces.go
package game

import (
	"context"
	"time"

	"github.com/fablecraft/taleserver/models"
)

// Broadcaster fans an event out to every connection of a game.
// Defined here to break the import cycle between game and hub.
type Broadcaster interface {
	BroadcastToGame(gameID string, event models.Event)
}

// Collaborator is the narrative generation boundary. Calls may be slow and
// may fail; failures are recoverable, never fatal to the process.
type Collaborator interface {
	GenerateInitialStory(ctx context.Context, scenario string, players []models.Player) (string, error)
	ProcessTurn(ctx context.Context, contextText string, players []models.Player, actions []models.Action) (string, error)
}

// Metrics receives coordinator-level counters. The monitor package provides
// the prometheus-backed implementation.
type Metrics interface {
	SetActiveGames(count int)
	IncActionsReceived()
	IncRoundsCompleted()
	ObserveNarrativeLatency(duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) SetActiveGames(int)                    {}
func (nopMetrics) IncActionsReceived()                   {}
func (nopMetrics) IncRoundsCompleted()                   {}
func (nopMetrics) ObserveNarrativeLatency(time.Duration) {}
