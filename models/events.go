// models/events.go
package models

// EventType 广播事件类型
type EventType string

const (
	EventPlayerJoined   EventType = "player_joined"
	EventGameStart      EventType = "game_start"
	EventNewTurn        EventType = "new_turn"
	EventActionReceived EventType = "action_received"
	EventPlayerLeft     EventType = "player_left"
	// EventError is an ack sent to a single connection when its own submit
	// fails; wrong-player submissions are still dropped without one.
	EventError EventType = "error"
)

// Event is the outbound frame fanned out to every connection of a game.
// One envelope for all kinds; unused fields are omitted on the wire.
type Event struct {
	Type            EventType `json:"type"`
	Player          *Player   `json:"player,omitempty"`
	Players         []Player  `json:"players,omitempty"`
	Narrative       string    `json:"narrative,omitempty"`
	CurrentPlayerID string    `json:"current_player_id,omitempty"`
	ActingPlayerID  string    `json:"acting_player_id,omitempty"`
	NextPlayerID    string    `json:"next_player_id,omitempty"`
	PlayerName      string    `json:"player_name,omitempty"`
	Code            string    `json:"code,omitempty"`
	Message         string    `json:"message,omitempty"`
}

func PlayerJoinedEvent(p Player) Event {
	return Event{Type: EventPlayerJoined, Player: &p}
}

func GameStartEvent(narrative string, players []Player, currentPlayerID string) Event {
	return Event{
		Type:            EventGameStart,
		Narrative:       narrative,
		Players:         players,
		CurrentPlayerID: currentPlayerID,
	}
}

func NewTurnEvent(narrative, currentPlayerID string) Event {
	return Event{Type: EventNewTurn, Narrative: narrative, CurrentPlayerID: currentPlayerID}
}

func ActionReceivedEvent(actingPlayerID, nextPlayerID string) Event {
	return Event{Type: EventActionReceived, ActingPlayerID: actingPlayerID, NextPlayerID: nextPlayerID}
}

func PlayerLeftEvent(playerName string) Event {
	return Event{Type: EventPlayerLeft, PlayerName: playerName}
}

func ErrorEvent(code, message string) Event {
	return Event{Type: EventError, Code: code, Message: message}
}
