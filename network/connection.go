// network/connection.go
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fablecraft/taleserver/models"
)

// Connection abstracts one live client link. Outbound frames are structured
// JSON events, inbound frames are raw action text.
type Connection interface {
	SendEvent(event models.Event) error
	ReadAction() (string, error)
	Close() error
	RemoteAddr() net.Addr
}

type WSConnection struct {
	conn         *websocket.Conn
	sendMutex    sync.Mutex
	writeTimeout time.Duration
}

func NewWSConnection(conn *websocket.Conn, writeTimeout time.Duration) *WSConnection {
	return &WSConnection{conn: conn, writeTimeout: writeTimeout}
}

// SendEvent writes one event frame. The write deadline keeps a stalled peer
// from blocking whoever is fanning out a broadcast.
func (c *WSConnection) SendEvent(event models.Event) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteJSON(event)
}

// ReadAction blocks until the next text frame arrives and returns its
// contents. Non-text frames are skipped.
func (c *WSConnection) ReadAction() (string, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return string(data), nil
	}
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
