// models/models.go
package models

// Status 游戏状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	// StatusFinished is reserved; nothing transitions a game into it yet.
	StatusFinished Status = "finished"
)

// Player 玩家数据模型
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Class   string `json:"class"`
	IsHost  bool   `json:"is_host"`
	IsAlive bool   `json:"is_alive"`
}

// ActorKind distinguishes player-authored turns from narrator turns so the
// narrator never shares the player id space.
type ActorKind string

const (
	ActorKindPlayer ActorKind = "player"
	ActorKindSystem ActorKind = "system"
)

// Actor identifies the author of a transcript turn.
type Actor struct {
	Kind     ActorKind `json:"kind"`
	PlayerID string    `json:"player_id,omitempty"`
}

func PlayerActor(playerID string) Actor {
	return Actor{Kind: ActorKindPlayer, PlayerID: playerID}
}

func SystemActor() Actor {
	return Actor{Kind: ActorKindSystem}
}

func (a Actor) IsSystem() bool {
	return a.Kind == ActorKindSystem
}

// Turn 一条不可变的剧情记录
type Turn struct {
	Actor   Actor  `json:"actor"`
	Content string `json:"content"`
}

// Action pairs a player id with the text they submitted this round.
type Action struct {
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}
