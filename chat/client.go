package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/Irfan-Alaam/chat-app/chat/internal"
	"github.com/Irfan-Alaam/chat-app/chat/rest"
)

// Transport is the real-time connection to one room.
type Transport interface {
	// Read blocks until the next inbound frame arrives or ctx ends.
	Read(ctx context.Context) ([]byte, error)
	// WriteText sends one outbound message.
	WriteText(ctx context.Context, text string) error
	// Close releases the connection. It must be safe to call more than once.
	Close() error
}

// Dialer opens transports.
type Dialer interface {
	Dial(ctx context.Context, url string) (Transport, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, url string) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Transport, error) { return f(ctx, url) }

// RoomResolver looks up a room before connecting. *rest.Client implements it.
type RoomResolver interface {
	RoomByToken(ctx context.Context, roomToken string) (*rest.RoomInfo, error)
}

type websocketDialer struct {
	cfg Config
}

func (d websocketDialer) Dial(ctx context.Context, url string) (Transport, error) {
	conn, err := internal.Dial(ctx, url, d.cfg.HandshakeTimeout, d.cfg.ReadTimeout, d.cfg.WriteTimeout)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Client owns the chat session of a UI. At most one Session is active at a
// time: opening a room closes the previous one first.
type Client struct {
	cfg        Config
	logger     Logger
	dialer     Dialer
	resolver   RoomResolver
	dispatcher Dispatcher

	mu      sync.Mutex
	current *Session
	onState func(StateEvent)
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		logger: noopLogger{},
		dialer: websocketDialer{cfg: cfg},
	}
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

// SetDialer replaces the WebSocket dialer, e.g. with a fake in tests.
func (c *Client) SetDialer(d Dialer) {
	if d == nil {
		return
	}
	c.mu.Lock()
	c.dialer = d
	c.mu.Unlock()
}

// SetResolver makes Open look the room up before dialing. The room name is
// then used in notifications and a missing room fails fast with the
// server's detail message. Sessions read the resolver when they connect.
func (c *Client) SetResolver(r RoomResolver) {
	c.mu.Lock()
	c.resolver = r
	c.mu.Unlock()
}

// OnEvent registers the sole consumer of session events. Events are delivered
// one at a time, in arrival order, for every session this client opens.
func (c *Client) OnEvent(fn func(Event)) { c.dispatcher.SetOnEvent(fn) }

// OnError registers a callback for inbound frames that could not be decoded.
func (c *Client) OnError(fn func(error)) { c.dispatcher.SetOnError(fn) }

// OnStateChange registers a callback for session state transitions.
// It runs synchronously on the goroutine that caused the transition.
func (c *Client) OnStateChange(fn func(StateEvent)) {
	c.mu.Lock()
	c.onState = fn
	c.mu.Unlock()
}

// Open starts a session for roomToken, authenticated by authToken. Any
// session that is still open or connecting is closed first. Open returns as
// soon as the session is Connecting; the outcome is reported through events.
func (c *Client) Open(ctx context.Context, roomToken, authToken string) (*Session, error) {
	roomToken = strings.TrimSpace(roomToken)
	if roomToken == "" {
		return nil, NewError(KindInvalidInput, "room token is required")
	}
	if authToken == "" {
		return nil, NewError(KindInvalidInput, "auth token is required")
	}
	url, err := c.cfg.RoomURL(roomToken, authToken)
	if err != nil {
		return nil, err
	}

	s := newSession(c, uuid.NewString(), roomToken, authToken, url)

	c.mu.Lock()
	prev := c.current
	c.current = s
	c.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	s.start(ctx, prev)
	return s, nil
}

// Current returns the most recently opened session, or nil.
func (c *Client) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Send publishes text to the current session. See Session.Send.
func (c *Client) Send(ctx context.Context, text string) error {
	s := c.Current()
	if s == nil {
		return nil
	}
	return s.Send(ctx, text)
}

// Close closes the current session, if any.
func (c *Client) Close() error {
	s := c.Current()
	if s == nil {
		return nil
	}
	return s.Close()
}

func (c *Client) baseLogger() Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logger
}

func (c *Client) roomResolver() RoomResolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolver
}

func (c *Client) transportDialer() Dialer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialer
}

func (c *Client) notifyState(ev StateEvent) {
	c.mu.Lock()
	fn := c.onState
	c.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
