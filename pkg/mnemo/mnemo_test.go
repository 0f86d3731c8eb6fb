package mnemo

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mnemo-ai/mnemo/internal/config"
)

func openTestMemory(t *testing.T) *Memory {
	t.Helper()
	dir := t.TempDir()
	mem, err := OpenWithConfig(&config.Config{
		Memory: config.MemoryConfig{
			Window:  config.WindowConfig{Capacity: 10},
			Durable: config.DurableConfig{Path: filepath.Join(dir, "conversations.db")},
			Semantic: config.SemanticConfig{
				Enabled:    true,
				Path:       filepath.Join(dir, "vector_db"),
				Collection: "conversations",
				Model:      "mock",
				Dimensions: 64,
			},
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { mem.Close() })
	return mem
}

func TestOpenDefaultsWhenConfigMissing(t *testing.T) {
	// An empty directory yields defaults rather than an error; the store
	// paths are relative, so run from a scratch directory.
	t.Chdir(t.TempDir())

	mem, err := Open(".")
	if err != nil {
		t.Fatal(err)
	}
	defer mem.Close()

	if mem.CurrentSessionID() == "" {
		t.Error("expected a session id")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	mem := openTestMemory(t)
	ctx := context.Background()

	out := mem.AddMessage(ctx, RoleUser, "I live in Moscow")
	if out.DurableErr != nil || out.SemanticErr != nil {
		t.Fatalf("write failed: %+v", out)
	}
	mem.AddMessage(ctx, RoleAssistant, "Noted")

	if got := mem.History(0, "", 0); len(got) != 2 {
		t.Errorf("expected 2 messages, got %d", len(got))
	}

	results := mem.Search(ctx, "I live in Moscow", SearchBoth, 5)
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	if results[0].Content != "I live in Moscow" {
		t.Errorf("expected exact match first, got %q", results[0].Content)
	}

	if !strings.Contains(mem.Context(), "I live in Moscow") {
		t.Errorf("expected window context to include the message, got %q", mem.Context())
	}
}

func TestMemoryProfileAndFacts(t *testing.T) {
	mem := openTestMemory(t)

	if !mem.UpdateProfile("name", "Alex") {
		t.Fatal("expected profile update to succeed")
	}
	if mem.Profile()["name"] != "Alex" {
		t.Error("profile value did not round-trip")
	}

	if !mem.SaveFact("diet", "vegetarian", "conversation", 0.9) {
		t.Fatal("expected fact save to succeed")
	}
	if facts := mem.Facts("diet", 0.5); len(facts) != 1 {
		t.Errorf("expected 1 fact, got %d", len(facts))
	}
}

func TestMemorySessionRotation(t *testing.T) {
	mem := openTestMemory(t)
	ctx := context.Background()

	first := mem.CurrentSessionID()
	mem.AddMessage(ctx, RoleUser, "before rotation")

	second := mem.StartNewSession()
	if second == first {
		t.Fatal("expected a fresh session id")
	}
	if len(mem.History(0, first, 0)) != 1 {
		t.Error("expected the old session to stay queryable")
	}
	if len(mem.History(0, "", 0)) != 0 {
		t.Error("expected the new session to start empty")
	}
}

func TestMemoryStats(t *testing.T) {
	mem := openTestMemory(t)

	mem.AddMessage(context.Background(), RoleUser, "one message")

	stats := mem.Stats()
	if stats.Window.CurrentMessages != 1 || stats.Durable.Conversations != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.SemanticStatus != "ok" {
		t.Errorf("expected semantic layer available, got %q", stats.SemanticStatus)
	}
}
