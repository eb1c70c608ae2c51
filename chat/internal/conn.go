package internal

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/coder/websocket"
)

// Conn wraps websocket.Conn with timeouts.
// Inbound traffic is JSON frames, outbound traffic is plain text.
type Conn struct {
	ws           *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Dial opens a WebSocket to url. A positive handshakeTimeout bounds the dial.
func Dial(ctx context.Context, url string, handshakeTimeout, readTimeout, writeTimeout time.Duration) (*Conn, error) {
	if handshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, handshakeTimeout)
		defer cancel()
	}
	ws, resp, err := websocket.Dial(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return NewConn(ws, readTimeout, writeTimeout), nil
}

func NewConn(ws *websocket.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

// Read returns the payload of the next message. Decoding is left to the caller
// so that one malformed frame does not tear the connection down.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}
	_, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteText sends text as a single text message.
func (c *Conn) WriteText(ctx context.Context, text string) error {
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.ws.Write(ctx, websocket.MessageText, []byte(text))
}

// Close performs a normal closure handshake. Closing twice is not an error.
func (c *Conn) Close() error {
	err := c.ws.Close(websocket.StatusNormalClosure, "client close")
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
