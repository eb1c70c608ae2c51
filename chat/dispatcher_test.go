package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "system welcome",
			frame: `{"type":"system","content":"Welcome bob to General","user":{"username":"bob","user_id":"3","role":"user"}}`,
			want: SystemEvent{
				Text:   "Welcome bob to General",
				Notice: NoticeServer,
				User:   &Identity{Username: "bob", UserID: "3", Role: "user"},
			},
		},
		{
			name:  "history",
			frame: `{"type":"history","id":12,"sender":"alice","content":"earlier","timestamp":"2024-05-01T10:00:00.250000"}`,
			want: HistoryEvent{Message: Message{
				ID:        12,
				Sender:    "alice",
				Content:   "earlier",
				Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 250000000, time.UTC),
			}},
		},
		{
			name:  "chat",
			frame: `{"type":"chat","id":13,"sender":"alice","content":"now","timestamp":"2024-05-01T10:01:00+00:00","room_id":4}`,
			want: ChatEvent{Message: Message{
				ID:        13,
				Sender:    "alice",
				Content:   "now",
				Timestamp: time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC),
				RoomID:    4,
			}},
		},
		{
			name:  "server error",
			frame: `{"type":"error","content":"Could not load message history"}`,
			want:  ErrorEvent{Text: "Could not load message history"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Event
			var d Dispatcher
			d.SetOnEvent(func(ev Event) { got = ev })
			d.SetOnError(func(err error) { t.Fatalf("unexpected error callback: %v", err) })

			require.NoError(t, d.Dispatch([]byte(tt.frame)))
			if want, ok := tt.want.(HistoryEvent); ok {
				h, ok := got.(HistoryEvent)
				require.True(t, ok)
				assert.True(t, want.Message.Timestamp.Equal(h.Message.Timestamp))
				want.Message.Timestamp, h.Message.Timestamp = time.Time{}, time.Time{}
				assert.Equal(t, want, h)
				return
			}
			if want, ok := tt.want.(ChatEvent); ok {
				c, ok := got.(ChatEvent)
				require.True(t, ok)
				assert.True(t, want.Message.Timestamp.Equal(c.Message.Timestamp))
				want.Message.Timestamp, c.Message.Timestamp = time.Time{}, time.Time{}
				assert.Equal(t, want, c)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcherRejectsBadFrames(t *testing.T) {
	for _, frame := range []string{`{"type":"typing","content":"x"}`, `[1,2`, `{"type":"chat","timestamp":"yesterday"}`} {
		var errGot error
		var d Dispatcher
		d.SetOnEvent(func(ev Event) { t.Fatalf("unexpected event %T", ev) })
		d.SetOnError(func(err error) { errGot = err })

		err := d.Dispatch([]byte(frame))
		require.Error(t, err, frame)
		assert.Equal(t, err, errGot)
		assert.Equal(t, KindSerialization, Classify(err))
	}
}

func TestDispatcherSerializesDelivery(t *testing.T) {
	var d Dispatcher
	var mu sync.Mutex
	inside := 0
	maxInside := 0
	d.SetOnEvent(func(Event) {
		mu.Lock()
		inside++
		if inside > maxInside {
			maxInside = inside
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		inside--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Deliver(SystemEvent{Text: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestTimestampFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`0`, time.UnixMilli(0).UTC()},
		{`1714557600000`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01T10:00:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01T12:00:00+02:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01T10:00:00.123456Z"`, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{`null`, time.Time{}},
		{`""`, time.Time{}},
	}
	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, ts.UnmarshalJSON([]byte(tt.raw)), tt.raw)
		assert.True(t, tt.want.Equal(ts.Time), "%s: got %v", tt.raw, ts.Time)
	}
}

func TestTimestampOutOfRange(t *testing.T) {
	for _, raw := range []string{`1e19`, `-1e19`, `9223372036854775808`} {
		var ts Timestamp
		assert.Error(t, ts.UnmarshalJSON([]byte(raw)), raw)
	}

	_, err := DecodeFrame([]byte(`{"type":"chat","sender":"bob","content":"hi","timestamp":1e300}`))
	assert.Error(t, err)
}
