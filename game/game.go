// game/game.go
package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fablecraft/taleserver/models"
)

// Game 是一局协作故事会话
// All mutation goes through the Coordinator while holding mu, so each game is
// its own sequencer: two actions for the same game can never interleave, and
// other games are never blocked.
type Game struct {
	ID       string
	Scenario string

	mu          sync.Mutex
	secret      string
	players     []*models.Player // join order; the first joiner is the host
	transcript  []models.Turn
	roundBuffer []models.Turn
	status      models.Status
	turnIndex   int
	createdAt   time.Time
}

// Snapshot is a read-only copy of a game's observable state.
type Snapshot struct {
	Status          models.Status   `json:"status"`
	Players         []models.Player `json:"players"`
	Transcript      []models.Turn   `json:"transcript"`
	CurrentPlayerID string          `json:"current_player_id,omitempty"`
}

// --- helpers; callers must hold mu ---

func (g *Game) playerByID(id string) *models.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) aliveCount() int {
	count := 0
	for _, p := range g.players {
		if p.IsAlive {
			count++
		}
	}
	return count
}

// nextAliveFrom searches forward cyclically from the given index for an alive
// player. With no alive players the pointer has no defined target; the index
// is returned unchanged so the game simply stalls.
func (g *Game) nextAliveFrom(from int) int {
	n := len(g.players)
	if n == 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if g.players[idx].IsAlive {
			return idx
		}
	}
	return from % n
}

func (g *Game) currentPlayer() *models.Player {
	if len(g.players) == 0 || g.turnIndex < 0 || g.turnIndex >= len(g.players) {
		return nil
	}
	return g.players[g.turnIndex]
}

func (g *Game) playerSnapshot() []models.Player {
	players := make([]models.Player, 0, len(g.players))
	for _, p := range g.players {
		players = append(players, *p)
	}
	return players
}

// contextString renders the whole transcript, in order, as the context fed to
// the narrative collaborator at round close.
func (g *Game) contextString() string {
	var b strings.Builder
	for i, t := range g.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if t.Actor.IsSystem() {
			b.WriteString(t.Content)
			continue
		}
		if p := g.playerByID(t.Actor.PlayerID); p != nil {
			fmt.Fprintf(&b, "%s the %s wants to: %s", p.Name, p.Class, t.Content)
		} else {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:     g.status,
		Players:    g.playerSnapshot(),
		Transcript: append([]models.Turn(nil), g.transcript...),
	}
	if g.status == models.StatusInProgress {
		if cur := g.currentPlayer(); cur != nil && cur.IsAlive {
			snap.CurrentPlayerID = cur.ID
		}
	}
	return snap
}
