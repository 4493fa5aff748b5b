// Demo client: connects a player's channel, prints every event and forwards
// stdin lines as actions.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Type            string `json:"type"`
	Narrative       string `json:"narrative,omitempty"`
	CurrentPlayerID string `json:"current_player_id,omitempty"`
	ActingPlayerID  string `json:"acting_player_id,omitempty"`
	NextPlayerID    string `json:"next_player_id,omitempty"`
	PlayerName      string `json:"player_name,omitempty"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

func main() {
	server := flag.String("server", "localhost:8080", "game server host:port")
	gameID := flag.String("game", "", "game id")
	playerID := flag.String("player", "", "player id")
	flag.Parse()

	if *gameID == "" || *playerID == "" {
		log.Fatal("both -game and -player are required")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *server, Path: "/ws/" + *gameID + "/" + *playerID}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var ev event
			if err := json.Unmarshal(message, &ev); err != nil {
				log.Printf("<- RECV (unparsed): %s", string(message))
				continue
			}
			switch ev.Type {
			case "game_start", "new_turn":
				log.Printf("<- %s: %s\n   next to act: %s", ev.Type, ev.Narrative, ev.CurrentPlayerID)
			case "action_received":
				log.Printf("<- %s acted, next to act: %s", ev.ActingPlayerID, ev.NextPlayerID)
			case "player_left":
				log.Printf("<- %s has left the game", ev.PlayerName)
			case "error":
				log.Printf("<- error [%s]: %s", ev.Code, ev.Message)
			default:
				log.Printf("<- %s: %s", ev.Type, string(message))
			}
		}
	}()

	log.Println("Client started. Type an action and press Enter when it is your turn.")

	interruptLoop := make(chan struct{})
	go func() {
		select {
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			close(interruptLoop)
		case <-done:
		}
	}()

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interruptLoop:
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", text)
		}
	}
}
