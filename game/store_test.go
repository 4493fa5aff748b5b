package game

import (
	"errors"
	"testing"

	"github.com/fablecraft/taleserver/apperror"
	"github.com/fablecraft/taleserver/models"
)

func TestNewStore(t *testing.T) {
	store := NewStore()
	if store == nil {
		t.Fatal("NewStore should not return nil")
	}
	if store.games == nil {
		t.Fatal("NewStore should initialize the games map")
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()

	g, host := store.Create("a haunted keep", "", "Alice", "Warrior")
	if g == nil {
		t.Fatal("Create should not return nil")
	}
	if g.Scenario != "a haunted keep" {
		t.Errorf("Expected scenario to be kept, got %q", g.Scenario)
	}
	if g.status != models.StatusPending {
		t.Errorf("Expected new game to be pending, got %q", g.status)
	}
	if !host.IsHost || !host.IsAlive {
		t.Errorf("Host should be host and alive, got %+v", host)
	}
	if len(g.players) != 1 || g.players[0].ID != host.ID {
		t.Error("Host should be the only player on the new game")
	}

	retrieved, err := store.Get(g.ID)
	if err != nil {
		t.Fatalf("Get should find the created game, got error: %v", err)
	}
	if retrieved != g {
		t.Error("Get should return the same game instance")
	}

	if store.Count() != 1 {
		t.Errorf("Expected store count 1, got %d", store.Count())
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore()

	_, err := store.Get("missing")
	if !errors.Is(err, apperror.ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestStore_IsolatedInstances(t *testing.T) {
	a := NewStore()
	b := NewStore()

	g, _ := a.Create("scenario", "", "Alice", "Warrior")

	if _, err := b.Get(g.ID); !errors.Is(err, apperror.ErrGameNotFound) {
		t.Error("Stores must not share state")
	}
}
