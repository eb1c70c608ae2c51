package chat

import (
	"context"
	"strings"
	"sync"
)

const writeQueueSize = 16

// Session is one attempted or active room connection. It moves through
// Idle -> Connecting -> Open -> Closed exactly once; a closed session is
// never reopened, Client.Open creates a new one instead.
type Session struct {
	id        string
	roomToken string
	authToken string
	url       string
	client    *Client
	logger    Logger
	writeCh   chan string

	mu             sync.Mutex
	state          ConnectionState
	roomName       string
	transport      Transport
	err            error
	closedByClient bool
	cancel         context.CancelFunc

	writers sync.WaitGroup

	done     chan struct{}
	doneOnce sync.Once
}

func newSession(c *Client, id, roomToken, authToken, url string) *Session {
	return &Session{
		id:        id,
		roomToken: roomToken,
		authToken: authToken,
		url:       url,
		client:    c,
		logger:    withFields(c.baseLogger(), map[string]any{"session_id": id, "room_token": roomToken}),
		writeCh:   make(chan string, writeQueueSize),
		done:      make(chan struct{}),
	}
}

// ID identifies the session in logs and state events.
func (s *Session) ID() string { return s.id }

// RoomToken returns the token of the room this session addresses.
func (s *Session) RoomToken() string { return s.roomToken }

// AuthToken returns the bearer token the session connected with.
func (s *Session) AuthToken() string { return s.authToken }

// RoomName returns the resolved room name, or the token when no resolver is set
// or resolution has not finished.
func (s *Session) RoomName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayNameLocked()
}

func (s *Session) displayNameLocked() string {
	if s.roomName != "" {
		return s.roomName
	}
	return s.roomToken
}

// State returns the current connection state.
func (s *Session) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure that closed the session, or nil if it is still
// running or was closed by the client.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the session has released its transport and delivered
// its final notification.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until Done or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send publishes text to the room. Surrounding whitespace is trimmed. Empty
// text, or a session that is not open, makes Send a silent no-op: nothing is
// queued and nothing is written. Send never waits on the network: when the
// write queue is full the message is dropped. Delivery is at most once and
// not acknowledged.
func (s *Session) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != StateOpen {
		s.logger.Debug("send dropped", map[string]any{"state": state.String()})
		return nil
	}

	select {
	case s.writeCh <- text:
	default:
		s.logger.Warn("send dropped: write queue full", map[string]any{"queued": len(s.writeCh)})
	}
	return nil
}

// Close ends the session. It is idempotent. Closing an open session results
// in one "Disconnected" notification; closing a connecting session
// suppresses the "Joined" notification altogether.
func (s *Session) Close() error {
	s.mu.Lock()
	old, ok := s.transitionLocked(StateClosed)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.closedByClient = true
	cancel := s.cancel
	s.mu.Unlock()

	s.notifyState(old, StateClosed, nil)
	if cancel != nil {
		cancel()
	}
	return nil
}

// transitionLocked moves the session to next and reports the previous state.
// It refuses, returning ok=false, any move that is not forward.
func (s *Session) transitionLocked(next ConnectionState) (old ConnectionState, ok bool) {
	old = s.state
	if !old.canTransition(next) {
		return old, false
	}
	s.state = next
	return old, true
}

func (s *Session) notifyState(old, next ConnectionState, cause error) {
	s.logger.Debug("state changed", map[string]any{"from": old.String(), "to": next.String()})
	s.client.notifyState(StateEvent{SessionID: s.id, OldState: old, NewState: next, Error: cause})
}

func (s *Session) deliver(ev Event) {
	s.client.dispatcher.Deliver(ev)
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// start moves the session to Connecting and runs it in the background.
// prev, if any, has already been told to close; the new connection is not
// dialed before prev has released its transport.
func (s *Session) start(ctx context.Context, prev *Session) {
	runCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.cancel = cancel
	old, ok := s.transitionLocked(StateConnecting)
	s.mu.Unlock()

	if !ok {
		// Closed before it ever started.
		cancel()
		s.finish()
		return
	}
	s.notifyState(old, StateConnecting, nil)
	go s.run(ctx, runCtx, prev)
}

func (s *Session) run(openCtx, runCtx context.Context, prev *Session) {
	defer s.finish()

	if prev != nil {
		select {
		case <-prev.Done():
		case <-runCtx.Done():
		}
	}
	if runCtx.Err() != nil {
		return
	}

	connectCtx, stopConnect := context.WithCancel(runCtx)
	stop := context.AfterFunc(openCtx, stopConnect)
	tr, notice, err := s.connect(connectCtx)
	stop()
	stopConnect()
	if err != nil {
		s.fail(notice, err)
		return
	}

	s.mu.Lock()
	old, ok := s.transitionLocked(StateOpen)
	if ok {
		s.transport = tr
	}
	name := s.displayNameLocked()
	s.mu.Unlock()
	if !ok {
		// Closed while dialing.
		_ = tr.Close()
		return
	}

	s.notifyState(old, StateOpen, nil)
	s.logger.Info("joined room", map[string]any{"room": name})
	s.deliver(SystemEvent{Text: "Joined " + name, Notice: NoticeJoined})

	s.writers.Add(1)
	go func() {
		defer s.writers.Done()
		s.writeLoop(runCtx, tr)
	}()
	readErr := s.readLoop(runCtx, tr)
	s.finishOpen(runCtx, tr, readErr)
}

// connect resolves the room, if a resolver is configured, and dials it.
// On failure it also returns the notice that describes the failure.
func (s *Session) connect(ctx context.Context) (Transport, SystemEvent, error) {
	if r := s.client.roomResolver(); r != nil {
		info, err := r.RoomByToken(ctx, s.roomToken)
		if err != nil {
			detail := Detail(err, "Failed to get room info")
			kind := Classify(err)
			if kind == KindUnknown {
				kind = KindRequest
			}
			notice := SystemEvent{Text: "Failed to join room: " + detail, Notice: NoticeJoinFailed}
			return nil, notice, WrapError(kind, "resolve room", err)
		}
		s.mu.Lock()
		s.roomName = info.Name
		s.mu.Unlock()
	}

	tr, err := s.client.transportDialer().Dial(ctx, s.url)
	if err != nil {
		notice := SystemEvent{Text: "Connection error", Notice: NoticeConnectionError}
		return nil, notice, WrapError(KindTransport, "dial room", err)
	}
	return tr, SystemEvent{}, nil
}

// fail closes a session that never opened. If the client already closed it,
// the failure is the cancellation itself and nothing is reported.
func (s *Session) fail(notice SystemEvent, err error) {
	s.mu.Lock()
	old, ok := s.transitionLocked(StateClosed)
	if ok {
		s.err = err
	}
	cancel := s.cancel
	s.mu.Unlock()
	if !ok {
		return
	}
	cancel()
	s.notifyState(old, StateClosed, err)
	s.logger.Warn("join failed", map[string]any{"error": err.Error()})
	s.deliver(notice)
}

// abort force-closes an open session after a transport failure. The final
// notification is left to the run goroutine.
func (s *Session) abort(err error) {
	s.mu.Lock()
	old, ok := s.transitionLocked(StateClosed)
	if ok {
		s.err = err
	}
	cancel := s.cancel
	s.mu.Unlock()
	if !ok {
		return
	}
	s.notifyState(old, StateClosed, err)
	cancel()
}

func (s *Session) readLoop(ctx context.Context, tr Transport) error {
	for {
		data, err := tr.Read(ctx)
		if err != nil {
			return err
		}
		if s.State() != StateOpen {
			return nil
		}
		if err := s.client.dispatcher.Dispatch(data); err != nil {
			s.logger.Warn("dropped inbound frame", map[string]any{"error": err.Error()})
		}
	}
}

func (s *Session) writeLoop(ctx context.Context, tr Transport) {
	for {
		select {
		case text := <-s.writeCh:
			if s.State() != StateOpen {
				return
			}
			if err := tr.WriteText(ctx, text); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
				s.abort(WrapError(KindTransport, "write", err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// finishOpen runs once the read loop of an open session has ended, whatever
// the reason, and delivers exactly one final notification.
func (s *Session) finishOpen(ctx context.Context, tr Transport, readErr error) {
	expected := readErr == nil || isExpectedDisconnect(ctx, readErr)

	s.mu.Lock()
	old, transitioned := s.transitionLocked(StateClosed)
	if transitioned && !expected {
		s.err = WrapError(KindTransport, "read", readErr)
	}
	byClient := s.closedByClient
	failed := s.err != nil
	cause := s.err
	name := s.displayNameLocked()
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	// No write may outlive the session: the next one dials only after Done.
	s.writers.Wait()
	if err := tr.Close(); err != nil {
		s.logger.Debug("transport close", map[string]any{"error": err.Error()})
	}
	if transitioned {
		s.notifyState(old, StateClosed, cause)
	}

	switch {
	case byClient || !failed:
		s.logger.Info("left room", map[string]any{"room": name})
		s.deliver(SystemEvent{Text: "Disconnected from " + name, Notice: NoticeDisconnected})
	default:
		s.logger.Warn("connection lost", map[string]any{"room": name, "error": cause.Error()})
		s.deliver(SystemEvent{Text: "Connection error", Notice: NoticeConnectionError})
	}
}
