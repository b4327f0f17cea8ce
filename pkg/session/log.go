package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mementolabs/companion/pkg/audioasset"
)

// DefaultGreeting opens every fresh conversation.
const DefaultGreeting = "Hello! Show me a face or object, or ask me a question."

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry of the conversation transcript.
type Message struct {
	ID   string    `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`

	// Audio is a playable voice asset attached to the message, if any.
	Audio *audioasset.Asset `json:"-"`

	// Image is an illustrative base64 JPEG, if any.
	Image string `json:"image,omitempty"`

	// Gallery is an ordered list of base64 JPEG images, if any.
	Gallery []string `json:"gallery,omitempty"`
}

// newMessage stamps a message with an ID and timestamp.
func newMessage(role Role, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		Time: time.Now(),
	}
}

// Log is the append-only conversation transcript. Messages are never
// mutated after append; insertion order is the displayed order.
type Log struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewLog creates a transcript opened with the default greeting.
func NewLog() *Log {
	l := &Log{}
	l.Append(newMessage(RoleBot, DefaultGreeting))
	return l
}

// Append adds a message to the end of the transcript.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	l.msgs = append(l.msgs, m)
	l.mu.Unlock()
}

// Messages returns a copy of the transcript in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.msgs)
}

// Last returns the most recent message and true, or a zero Message and
// false when the transcript is empty.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// replace swaps in a restored transcript. Only used when loading a
// persisted snapshot at startup; everything after that is append-only.
func (l *Log) replace(msgs []Message) {
	l.mu.Lock()
	l.msgs = msgs
	l.mu.Unlock()
}

// Reset discards the transcript and reopens it with the default greeting.
func (l *Log) Reset() {
	l.mu.Lock()
	l.msgs = l.msgs[:0]
	l.mu.Unlock()
	l.Append(newMessage(RoleBot, DefaultGreeting))
}
