package memory

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWindow_FIFOEviction(t *testing.T) {
	for _, capacity := range []int{1, 3, 10} {
		w := NewWindow(capacity)

		total := capacity*2 + 3
		for i := 0; i < total; i++ {
			w.Add(RoleUser, fmt.Sprintf("message %d", i), nil)
		}

		msgs := w.Recent(0)
		if len(msgs) != capacity {
			t.Fatalf("capacity %d: expected %d messages, got %d", capacity, capacity, len(msgs))
		}
		// Exactly the last `capacity` messages, in order.
		for i, m := range msgs {
			want := fmt.Sprintf("message %d", total-capacity+i)
			if m.Content != want {
				t.Errorf("capacity %d: index %d: expected %q, got %q", capacity, i, want, m.Content)
			}
		}
	}
}

func TestWindow_RecentSubset(t *testing.T) {
	w := NewWindow(10)
	w.Add(RoleUser, "first", nil)
	w.Add(RoleAssistant, "second", nil)
	w.Add(RoleUser, "third", nil)

	last2 := w.Recent(2)
	if len(last2) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(last2))
	}
	if last2[0].Content != "second" || last2[1].Content != "third" {
		t.Errorf("unexpected order: %q, %q", last2[0].Content, last2[1].Content)
	}

	// Asking for more than held returns everything.
	all := w.Recent(50)
	if len(all) != 3 {
		t.Errorf("expected 3 messages, got %d", len(all))
	}
}

func TestWindow_ContextEmpty(t *testing.T) {
	w := NewWindow(5)
	if got := w.Context(); got != "No recent conversation history." {
		t.Errorf("expected sentinel, got %q", got)
	}
}

func TestWindow_ContextRender(t *testing.T) {
	w := NewWindow(5)
	w.Add(RoleUser, "hello there", nil)
	w.Add(RoleAssistant, strings.Repeat("x", 250), nil)

	ctx := w.Context()
	lines := strings.Split(ctx, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "User: hello there") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "...") {
		t.Errorf("expected truncated body with ellipsis: %q", lines[1])
	}
	if !strings.Contains(lines[1], strings.Repeat("x", 200)+"...") {
		t.Errorf("expected 200-char body before ellipsis")
	}
	if strings.Contains(lines[1], strings.Repeat("x", 201)) {
		t.Errorf("body not truncated at 200 chars")
	}
}

func TestWindow_ContextTruncatesRunes(t *testing.T) {
	w := NewWindow(5)
	w.Add(RoleUser, strings.Repeat("м", 150), nil)      // 150 chars, 300 bytes
	w.Add(RoleAssistant, strings.Repeat("日", 250), nil) // over the limit

	ctx := w.Context()
	if !utf8.ValidString(ctx) {
		t.Fatal("render produced invalid UTF-8")
	}

	lines := strings.Split(ctx, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// Under the 200-character limit regardless of byte width.
	if strings.HasSuffix(lines[0], "...") {
		t.Errorf("150-character body must not be truncated: %q", lines[0])
	}
	if !strings.Contains(lines[0], strings.Repeat("м", 150)) {
		t.Errorf("expected full body, got %q", lines[0])
	}
	if !strings.Contains(lines[1], strings.Repeat("日", 200)+"...") {
		t.Errorf("expected 200-character truncation, got %q", lines[1])
	}
	if strings.Contains(lines[1], strings.Repeat("日", 201)) {
		t.Error("body not truncated at 200 characters")
	}
}

func TestWindow_Clear(t *testing.T) {
	w := NewWindow(5)
	w.Add(RoleUser, "something", nil)
	w.Clear()

	if w.Len() != 0 {
		t.Errorf("expected empty window, got %d messages", w.Len())
	}
	if got := w.Context(); got != "No recent conversation history." {
		t.Errorf("expected sentinel after clear, got %q", got)
	}
}

func TestWindow_LastByRole(t *testing.T) {
	w := NewWindow(10)
	w.Add(RoleUser, "first question", nil)
	w.Add(RoleAssistant, "first answer", nil)
	w.Add(RoleUser, "second question", nil)

	msg, ok := w.LastByRole(RoleUser)
	if !ok || msg.Content != "second question" {
		t.Errorf("expected 'second question', got %q (ok=%v)", msg.Content, ok)
	}

	msg, ok = w.LastByRole(RoleAssistant)
	if !ok || msg.Content != "first answer" {
		t.Errorf("expected 'first answer', got %q (ok=%v)", msg.Content, ok)
	}

	if _, ok := w.LastByRole(RoleSystem); ok {
		t.Error("expected no system message")
	}
}

func TestWindow_Stats(t *testing.T) {
	w := NewWindow(4)
	w.Add(RoleUser, "a", nil)
	w.Add(RoleUser, "b", nil)

	stats := w.Stats()
	if stats.CurrentMessages != 2 || stats.MaxMessages != 4 {
		t.Errorf("unexpected occupancy: %+v", stats)
	}
	if stats.UsagePercent != 50 {
		t.Errorf("expected 50%% usage, got %v", stats.UsagePercent)
	}
	if stats.OldestMessage == "" || stats.NewestMessage == "" {
		t.Error("expected boundary timestamps to be set")
	}
}
