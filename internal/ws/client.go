package ws

import (
	"sort"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Client is one subscriber connection. The stream is server to client only;
// inbound frames are read just to service control messages.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// projects limits delivery to these project ids. Empty means all.
	projects map[int64]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, projectIDs ...int64) *Client {
	c := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
	if len(projectIDs) > 0 {
		c.projects = make(map[int64]struct{}, len(projectIDs))
		for _, id := range projectIDs {
			c.projects[id] = struct{}{}
		}
	}
	return c
}

func (c *Client) wants(projectID int64) bool {
	if projectID == 0 || len(c.projects) == 0 {
		return true
	}
	_, ok := c.projects[projectID]
	return ok
}

func (c *Client) projectList() []int64 {
	out := make([]int64, 0, len(c.projects))
	for id := range c.projects {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
