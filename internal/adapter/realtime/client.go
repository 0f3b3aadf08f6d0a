package realtime

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/tably/tably/internal/interfaces"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// Client is a single websocket connection subscribed to one venue's events.
type Client struct {
	hub     *Hub
	venueID string
	conn    *websocket.Conn
	send    chan interfaces.StatusEvent
}

func NewClient(hub *Hub, venueID string, conn *websocket.Conn) *Client {
	return &Client{
		hub:     hub,
		venueID: venueID,
		conn:    conn,
		send:    make(chan interfaces.StatusEvent, sendBufferSize),
	}
}

// Run registers the client and pumps events until the connection drops. Blocks until
// the read side closes.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Клиенты ничего не присылают, читаем только ради close/pong
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
