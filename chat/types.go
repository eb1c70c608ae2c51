package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	frameSystem  = "system"
	frameHistory = "history"
	frameChat    = "chat"
	frameError   = "error"
)

// Frame is the JSON envelope the server sends for every inbound message.
// Outbound traffic is plain text and has no envelope.
type Frame struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
	RoomID    int64     `json:"room_id,omitempty"`
	User      *Identity `json:"user,omitempty"`
}

func (f Frame) message() Message {
	return Message{
		ID:        f.ID,
		Sender:    f.Sender,
		Content:   f.Content,
		Timestamp: f.Timestamp.Time,
		RoomID:    f.RoomID,
	}
}

// zonelessLayouts are tried when the server omits the offset; such values are UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp accepts ISO-8601 strings (with or without offset) and
// numeric milliseconds since the Unix epoch.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("timestamp %s: %w", data, err)
		}
		if ms < math.MinInt64 || ms >= math.MaxInt64 {
			return fmt.Errorf("timestamp %s: out of range", data)
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range zonelessLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized format", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// DecodeFrame parses one raw inbound frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}
