package chat

import (
	"fmt"
	"sync"
)

// Dispatcher decodes inbound frames and delivers them to the registered handler.
// Deliveries are serialized: the handler never runs concurrently with itself.
type Dispatcher struct {
	mu      sync.RWMutex
	onEvent func(Event)
	onError func(error)

	deliverMu sync.Mutex
}

func (d *Dispatcher) SetOnEvent(fn func(Event)) {
	d.mu.Lock()
	d.onEvent = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnError(fn func(error)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

// Dispatch decodes one raw frame and delivers the resulting event.
// Frames that cannot be decoded or carry an unknown type are reported to the
// error callback and otherwise skipped.
func (d *Dispatcher) Dispatch(data []byte) error {
	ev, err := decodeEvent(data)
	if err != nil {
		d.fireError(err)
		return err
	}
	d.Deliver(ev)
	return nil
}

// Deliver hands an already built event to the handler.
func (d *Dispatcher) Deliver(ev Event) {
	d.mu.RLock()
	fn := d.onEvent
	d.mu.RUnlock()
	if fn == nil || ev == nil {
		return
	}
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	fn(ev)
}

func (d *Dispatcher) fireError(err error) {
	d.mu.RLock()
	fn := d.onError
	d.mu.RUnlock()
	if fn != nil && err != nil {
		fn(err)
	}
}

func decodeEvent(data []byte) (Event, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return nil, WrapError(KindSerialization, "failed to unmarshal frame", err)
	}
	switch f.Type {
	case frameSystem:
		return SystemEvent{Text: f.Content, Notice: NoticeServer, User: f.User}, nil
	case frameHistory:
		return HistoryEvent{Message: f.message()}, nil
	case frameChat:
		return ChatEvent{Message: f.message()}, nil
	case frameError:
		return ErrorEvent{Text: f.Content}, nil
	default:
		return nil, NewError(KindSerialization, fmt.Sprintf("unknown frame type %q", f.Type))
	}
}
