// game/coordinator.go
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fablecraft/taleserver/apperror"
	"github.com/fablecraft/taleserver/models"
)

// Coordinator drives the session state machine: joins, the pending ->
// in_progress transition, round-buffer accumulation, turn-pointer advancement
// and narrative generation at round boundaries.
type Coordinator struct {
	store        *Store
	broadcaster  Broadcaster
	collaborator Collaborator
	metrics      Metrics
}

func NewCoordinator(store *Store, broadcaster Broadcaster, collaborator Collaborator, metrics Metrics) *Coordinator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Coordinator{
		store:        store,
		broadcaster:  broadcaster,
		collaborator: collaborator,
		metrics:      metrics,
	}
}

func (c *Coordinator) Store() *Store {
	return c.store
}

// Create allocates a new pending game with its host player.
func (c *Coordinator) Create(scenario, secret, hostName, hostClass string) (gameID, hostPlayerID string) {
	g, host := c.store.Create(scenario, secret, hostName, hostClass)
	c.metrics.SetActiveGames(c.store.Count())
	return g.ID, host.ID
}

// Join appends a new player. Joining is never idempotent: the same name can
// join twice and gets two identities.
func (c *Coordinator) Join(gameID, name, class, secret string) (playerID string, isHost bool, err error) {
	g, err := c.store.Get(gameID)
	if err != nil {
		return "", false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.secret != "" && g.secret != secret {
		return "", false, apperror.ErrIncorrectSecret
	}

	p := &models.Player{
		ID:      uuid.New().String(),
		Name:    name,
		Class:   class,
		IsHost:  len(g.players) == 0, // normally false, the host exists from Create
		IsAlive: true,
	}
	g.players = append(g.players, p)

	c.broadcaster.BroadcastToGame(g.ID, models.PlayerJoinedEvent(*p))
	return p.ID, p.IsHost, nil
}

// Start moves a pending game to in_progress. Only the host may start. The
// initial story is generated before the status flips, so a failed generation
// leaves the game pending and Start can simply be called again.
func (c *Coordinator) Start(ctx context.Context, gameID, playerID string) error {
	g, err := c.store.Get(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil || !p.IsHost {
		return apperror.ErrNotHost
	}
	if g.status != models.StatusPending {
		return apperror.ErrGameAlreadyStarted
	}

	roster := g.playerSnapshot()
	begin := time.Now()
	story, err := c.collaborator.GenerateInitialStory(ctx, g.Scenario, roster)
	c.metrics.ObserveNarrativeLatency(time.Since(begin))
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrNarrativeUnavailable, err)
	}

	g.status = models.StatusInProgress
	g.transcript = append(g.transcript, models.Turn{Actor: models.SystemActor(), Content: story})
	g.turnIndex = g.nextAliveFrom(0)

	c.broadcaster.BroadcastToGame(g.ID, models.GameStartEvent(story, roster, g.currentPlayer().ID))
	return nil
}

// SubmitAction handles one inbound action frame. Actions from any player
// other than the one at the turn pointer are dropped on the floor: no state
// change, no broadcast, no error returned.
func (c *Coordinator) SubmitAction(ctx context.Context, gameID, playerID, text string) error {
	g, err := c.store.Get(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != models.StatusInProgress {
		return apperror.ErrGameNotStarted
	}

	alive := g.aliveCount()
	cur := g.currentPlayer()

	if alive > 0 && len(g.roundBuffer) >= alive {
		// A previous round close failed upstream and left a full buffer.
		// The expected player's next frame retries the close; everyone
		// else still gets the silent drop.
		if cur == nil || cur.ID != playerID {
			return nil
		}
		return c.closeRoundLocked(ctx, g)
	}

	if cur == nil || cur.ID != playerID {
		return nil
	}

	turn := models.Turn{Actor: models.PlayerActor(playerID), Content: text}
	g.transcript = append(g.transcript, turn)
	g.roundBuffer = append(g.roundBuffer, turn)
	c.metrics.IncActionsReceived()

	if len(g.roundBuffer) < alive {
		g.turnIndex = g.nextAliveFrom(g.turnIndex + 1)
		c.broadcaster.BroadcastToGame(g.ID, models.ActionReceivedEvent(playerID, g.players[g.turnIndex].ID))
		return nil
	}

	return c.closeRoundLocked(ctx, g)
}

// RetryRound re-attempts a round close that previously failed upstream. The
// buffered actions are reused as-is; nothing is appended.
func (c *Coordinator) RetryRound(ctx context.Context, gameID string) error {
	g, err := c.store.Get(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != models.StatusInProgress {
		return apperror.ErrGameNotStarted
	}
	if len(g.roundBuffer) == 0 || len(g.roundBuffer) < g.aliveCount() {
		return apperror.ErrRoundNotComplete
	}
	return c.closeRoundLocked(ctx, g)
}

// closeRoundLocked folds the buffered round into a narrative update. On
// upstream failure the buffer and transcript are left untouched so a retry
// cannot duplicate anything. Caller holds g.mu.
func (c *Coordinator) closeRoundLocked(ctx context.Context, g *Game) error {
	contextText := g.contextString()
	roster := g.playerSnapshot()

	actions := make([]models.Action, 0, len(g.roundBuffer))
	for _, t := range g.roundBuffer {
		actions = append(actions, models.Action{PlayerID: t.Actor.PlayerID, Text: t.Content})
	}

	begin := time.Now()
	story, err := c.collaborator.ProcessTurn(ctx, contextText, roster, actions)
	c.metrics.ObserveNarrativeLatency(time.Since(begin))
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrNarrativeUnavailable, err)
	}

	g.transcript = append(g.transcript, models.Turn{Actor: models.SystemActor(), Content: story})
	g.roundBuffer = nil
	g.turnIndex = g.nextAliveFrom(0)
	c.metrics.IncRoundsCompleted()

	c.broadcaster.BroadcastToGame(g.ID, models.NewTurnEvent(story, g.players[g.turnIndex].ID))
	return nil
}

// Leave announces a departed connection's player to the rest of the game.
// It does not touch IsAlive: a disconnected player stays in the rotation and
// the game will wait on them if their turn comes up.
func (c *Coordinator) Leave(gameID, playerID string) error {
	g, err := c.store.Get(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	name := "A player"
	if p := g.playerByID(playerID); p != nil {
		name = p.Name
	}
	c.broadcaster.BroadcastToGame(g.ID, models.PlayerLeftEvent(name))
	return nil
}

// Snapshot returns a consistent copy of the game's observable state.
func (c *Coordinator) Snapshot(gameID string) (Snapshot, error) {
	g, err := c.store.Get(gameID)
	if err != nil {
		return Snapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(), nil
}
