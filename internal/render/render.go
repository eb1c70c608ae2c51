// Package render turns chat events into terminal lines.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Irfan-Alaam/chat-app/chat"
)

// Content reaches the terminal as plain text only.
var policy = bluemonday.StrictPolicy()

// Clean strips markup from server-provided text.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// Renderer writes one line per event.
type Renderer struct {
	mu   sync.Mutex
	w    io.Writer
	self string
	loc  *time.Location
}

// New creates a renderer. Messages sent by self are marked as the user's own.
func New(w io.Writer, self string) *Renderer {
	return &Renderer{w: w, self: self, loc: time.Local}
}

// SetLocation changes the zone timestamps are shown in.
func (r *Renderer) SetLocation(loc *time.Location) {
	r.mu.Lock()
	r.loc = loc
	r.mu.Unlock()
}

// Event writes ev.
func (r *Renderer) Event(ev chat.Event) {
	line := r.Format(ev)
	if line == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, line)
}

// Error writes a client-side error line.
func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "! %s\n", chat.Detail(err, err.Error()))
}

// Format returns the line for ev without writing it.
func (r *Renderer) Format(ev chat.Event) string {
	switch e := ev.(type) {
	case chat.SystemEvent:
		if e.Notice == chat.NoticeConnectionError || e.Notice == chat.NoticeJoinFailed {
			return "! " + Clean(e.Text)
		}
		return "* " + Clean(e.Text)
	case chat.HistoryEvent:
		return r.message(e.Message, true)
	case chat.ChatEvent:
		return r.message(e.Message, false)
	case chat.ErrorEvent:
		return "! " + Clean(e.Text)
	default:
		return ""
	}
}

func (r *Renderer) message(m chat.Message, history bool) string {
	var b strings.Builder
	if !m.Timestamp.IsZero() {
		r.mu.Lock()
		loc := r.loc
		r.mu.Unlock()
		ts := m.Timestamp.In(loc)
		if history {
			b.WriteString(ts.Format("[Jan 2 15:04] "))
		} else {
			b.WriteString(ts.Format("[15:04] "))
		}
	}
	sender := Clean(m.Sender)
	if sender == "" {
		sender = "anonymous"
	}
	b.WriteString(sender)
	if r.self != "" && m.Sender == r.self {
		b.WriteString(" (you)")
	}
	b.WriteString(": ")
	b.WriteString(Clean(m.Content))
	return b.String()
}
