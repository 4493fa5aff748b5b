// game/store.go
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fablecraft/taleserver/apperror"
	"github.com/fablecraft/taleserver/models"
)

// Store 管理所有游戏
// Games live for the lifetime of the process; there is no expiry.
type Store struct {
	games map[string]*Game
	mutex sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*Game),
	}
}

// Create allocates a pending game together with its host player.
func (s *Store) Create(scenario, secret, hostName, hostClass string) (*Game, models.Player) {
	host := models.Player{
		ID:      uuid.New().String(),
		Name:    hostName,
		Class:   hostClass,
		IsHost:  true,
		IsAlive: true,
	}

	g := &Game{
		ID:        uuid.New().String(),
		Scenario:  scenario,
		secret:    secret,
		players:   []*models.Player{&host},
		status:    models.StatusPending,
		createdAt: time.Now(),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.games[g.ID] = g
	return g, host
}

func (s *Store) Get(id string) (*Game, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	g, exists := s.games[id]
	if !exists {
		return nil, apperror.ErrGameNotFound
	}
	return g, nil
}

func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.games)
}
