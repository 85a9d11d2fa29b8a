// Package transport adapts duplex byte streams to the blocking
// read/write/close contract the session core expects. A net.Conn already
// satisfies Channel; the websocket adapter maps writes to binary messages
// and buffers message remainders across reads.
package transport

import (
	"io"

	"github.com/gorilla/websocket"
)

// Channel is an ordered duplex byte stream. Reads and writes block until
// data, error or close; a failure of either direction is fatal for the
// session and is never retried.
type Channel interface {
	io.ReadWriteCloser
}

// WebSocket wraps a gorilla websocket connection as a Channel. Each Write
// emits one binary message; Read drains messages, carrying any remainder
// over to the next call.
type WebSocket struct {
	conn    *websocket.Conn
	pending []byte
}

// NewWebSocket wraps an upgraded connection.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	return &WebSocket{conn: conn}
}

// Read copies the next message bytes into p.
func (c *WebSocket) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}

		c.pending = data
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]

	return n, nil
}

// Write sends p as a single binary message.
func (c *WebSocket) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Close closes the underlying connection, unblocking any pending read.
func (c *WebSocket) Close() error {
	return c.conn.Close()
}
