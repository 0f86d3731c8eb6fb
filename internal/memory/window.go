package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultWindowCapacity is the window size used when none is configured.
const DefaultWindowCapacity = 10

// noHistorySentinel is returned by Context when the window is empty.
const noHistorySentinel = "No recent conversation history."

// contextBodyLimit caps per-message bodies in the Context render.
const contextBodyLimit = 200

// Window is the ephemeral message store: a fixed-capacity FIFO buffer of
// the most recent conversation turns. All operations are in-memory and
// total; there are no failure modes.
type Window struct {
	mu       sync.RWMutex
	capacity int
	messages []Message
}

// NewWindow creates a window holding at most capacity messages.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &Window{
		capacity: capacity,
		messages: make([]Message, 0, capacity),
	}
}

// Add appends a message, evicting the oldest once capacity is exceeded.
func (w *Window) Add(role, content string, metadata map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.messages = append(w.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	if len(w.messages) > w.capacity {
		w.messages = w.messages[len(w.messages)-w.capacity:]
	}
}

// Recent returns the last n messages in chronological order, or all held
// messages when n <= 0.
func (w *Window) Recent(n int) []Message {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if n <= 0 || n > len(w.messages) {
		n = len(w.messages)
	}
	result := make([]Message, n)
	copy(result, w.messages[len(w.messages)-n:])
	return result
}

// Context renders the held messages as a newline-joined, timestamp-prefixed
// block for prompt injection. Bodies beyond 200 characters are truncated
// with an ellipsis. The limit counts characters, not bytes, so non-ASCII
// content is never cut early or split mid-rune.
func (w *Window) Context() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.messages) == 0 {
		return noHistorySentinel
	}

	lines := make([]string, 0, len(w.messages))
	for _, msg := range w.messages {
		body := msg.Content
		if runes := []rune(body); len(runes) > contextBodyLimit {
			body = string(runes[:contextBodyLimit]) + "..."
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			msg.Timestamp.Format("2006-01-02 15:04:05"), capitalize(msg.Role), body))
	}
	return strings.Join(lines, "\n")
}

// Clear empties the buffer.
func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = w.messages[:0]
}

// Len returns the number of buffered messages.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.messages)
}

// LastByRole scans newest-to-oldest and returns the first message with the
// given role. The second return is false when no such message is held.
func (w *Window) LastByRole(role string) (Message, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := len(w.messages) - 1; i >= 0; i-- {
		if w.messages[i].Role == role {
			return w.messages[i], true
		}
	}
	return Message{}, false
}

// WindowStats describes the buffer's current occupancy.
type WindowStats struct {
	CurrentMessages int     `json:"current_messages"`
	MaxMessages     int     `json:"max_messages"`
	UsagePercent    float64 `json:"memory_usage_percent"`
	OldestMessage   string  `json:"oldest_message_time,omitempty"`
	NewestMessage   string  `json:"newest_message_time,omitempty"`
}

// Stats reports occupancy and boundary timestamps.
func (w *Window) Stats() WindowStats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	stats := WindowStats{
		CurrentMessages: len(w.messages),
		MaxMessages:     w.capacity,
		UsagePercent:    float64(len(w.messages)) / float64(w.capacity) * 100,
	}
	if len(w.messages) > 0 {
		stats.OldestMessage = w.messages[0].Timestamp.Format(time.RFC3339)
		stats.NewestMessage = w.messages[len(w.messages)-1].Timestamp.Format(time.RFC3339)
	}
	return stats
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 32
	}
	return string(c) + s[1:]
}
