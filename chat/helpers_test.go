package chat

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// fakeTransport is an in-memory Transport. Frames pushed to inbound are read
// in order; closing inbound ends the read loop with readErr (io.EOF by default).
type fakeTransport struct {
	inbound  chan []byte
	readErr  error
	writeErr error

	// writeGate, when set, stalls WriteText until it is closed or ctx ends.
	writeGate chan struct{}
	inflight  atomic.Int32

	mu     sync.Mutex
	writes []string

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte, 64),
		closed:  make(chan struct{}),
	}
}

func (t *fakeTransport) Read(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-t.inbound:
		if !ok {
			if t.readErr != nil {
				return nil, t.readErr
			}
			return nil, io.EOF
		}
		return data, nil
	case <-t.closed:
		return nil, net.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *fakeTransport) WriteText(ctx context.Context, text string) error {
	if t.writeGate != nil {
		t.inflight.Add(1)
		defer t.inflight.Add(-1)
		select {
		case <-t.writeGate:
		case <-ctx.Done():
			// a real socket takes a moment to unwind a cancelled write
			time.Sleep(20 * time.Millisecond)
			return ctx.Err()
		}
	}
	if t.writeErr != nil {
		return t.writeErr
	}
	t.mu.Lock()
	t.writes = append(t.writes, text)
	t.mu.Unlock()
	return nil
}

func (t *fakeTransport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

func (t *fakeTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

func (t *fakeTransport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

// fakeDialer hands out transports. With a gate, Dial blocks until the gate
// is closed or ctx ends.
type fakeDialer struct {
	gate      chan struct{}
	err       error
	writeGate chan struct{}

	mu    sync.Mutex
	urls  []string
	conns []*fakeTransport
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Transport, error) {
	d.mu.Lock()
	d.urls = append(d.urls, url)
	d.mu.Unlock()
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	tr := newFakeTransport()
	tr.writeGate = d.writeGate
	d.mu.Lock()
	d.conns = append(d.conns, tr)
	d.mu.Unlock()
	return tr, nil
}

func (d *fakeDialer) conn(t *testing.T, i int) *fakeTransport {
	t.Helper()
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return len(d.conns) > i
	}, waitTimeout, time.Millisecond)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

// recorder collects everything the client reports.
type recorder struct {
	mu     sync.Mutex
	events []Event
	states []StateEvent
	errs   []error
}

func (r *recorder) attach(c *Client) {
	c.OnEvent(func(ev Event) {
		r.mu.Lock()
		r.events = append(r.events, ev)
		r.mu.Unlock()
	})
	c.OnStateChange(func(ev StateEvent) {
		r.mu.Lock()
		r.states = append(r.states, ev)
		r.mu.Unlock()
	})
	c.OnError(func(err error) {
		r.mu.Lock()
		r.errs = append(r.errs, err)
		r.mu.Unlock()
	})
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) States() []StateEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StateEvent(nil), r.states...)
}

func (r *recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *recorder) notices(n Notice) []SystemEvent {
	var out []SystemEvent
	for _, ev := range r.Events() {
		if se, ok := ev.(SystemEvent); ok && se.Notice == n {
			out = append(out, se)
		}
	}
	return out
}

func (r *recorder) waitEvents(t *testing.T, n int) []Event {
	t.Helper()
	require.Eventually(t, func() bool { return len(r.Events()) >= n }, waitTimeout, time.Millisecond)
	return r.Events()
}

func newTestClient(t *testing.T) (*Client, *fakeDialer, *recorder) {
	t.Helper()
	c := NewClient(DefaultConfig())
	d := &fakeDialer{}
	c.SetDialer(d)
	rec := &recorder{}
	rec.attach(c)
	return c, d, rec
}

func waitState(t *testing.T, s *Session, want ConnectionState) {
	t.Helper()
	require.Eventually(t, func() bool { return s.State() == want }, waitTimeout, time.Millisecond,
		"session never reached %s", want)
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}
