package arena

import (
	"time"

	"cyclesbot/game"
	"cyclesbot/transport"

	"github.com/gorilla/websocket"
)

// client is one connected player. Only the game goroutine touches it once the
// game has started.
type client struct {
	name  string
	id    int
	conn  *websocket.Conn
	pos   game.Position
	alive bool
}

func (c *client) send(msg transport.Message) error {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// finish sends a last message and closes the connection.
func (c *client) finish(msg transport.Message) {
	if c.conn == nil {
		return
	}
	_ = c.send(msg)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg.Reason),
		time.Now().Add(time.Second))
	c.conn.Close()
}

func (c *client) reject(reason string) {
	c.finish(transport.Message{Type: transport.MsgError, Reason: reason})
}
