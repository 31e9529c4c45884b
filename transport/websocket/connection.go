package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// connection serialises writes to a single client.
type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{
		conn: conn,
	}
}

func (that *connection) send(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) close() error {
	return that.conn.Close()
}

// shutdown tells the client the server is going away and closes the connection.
func (that *connection) shutdown() error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
	if err := that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		return errors.Join(fmt.Errorf("failed to send close message: %w", err), that.conn.Close())
	}

	return that.conn.Close()
}
