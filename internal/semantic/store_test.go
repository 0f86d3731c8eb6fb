package semantic

import (
	"context"
	"testing"

	"github.com/mnemo-ai/mnemo/internal/embedder/mock"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{
		Path:       t.TempDir(),
		Collection: "conversations",
		Model:      "mock",
		Embedder:   mock.New(64),
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestStore_AddAndSearchSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Add(ctx, "user", "I live in Moscow", "s1", map[string]interface{}{"channel": "cli"})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected non-empty document id")
	}
	if _, err := store.Add(ctx, "assistant", "Got it, noted your city", "s1", nil); err != nil {
		t.Fatal(err)
	}

	results, err := store.SearchSimilar(ctx, "I live in Moscow", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	// Identical text embeds to the identical vector, so it ranks first.
	if results[0].Content != "I live in Moscow" {
		t.Errorf("expected exact text as top hit, got %q", results[0].Content)
	}
	if results[0].Similarity < 0.99 {
		t.Errorf("expected near-perfect similarity, got %v", results[0].Similarity)
	}
	if results[0].Metadata["role"] != "user" || results[0].Metadata["session_id"] != "s1" {
		t.Errorf("unexpected metadata: %v", results[0].Metadata)
	}
	if results[0].Metadata["content_length"] != "16" {
		t.Errorf("expected content_length 16, got %q", results[0].Metadata["content_length"])
	}
}

func TestStore_ContentLengthCountsCharacters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// 15 characters, 27 bytes.
	content := "Я живу в Москве"
	if _, err := store.Add(ctx, "user", content, "s1", nil); err != nil {
		t.Fatal(err)
	}

	results, err := store.SearchSimilar(ctx, content, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Metadata["content_length"] != "15" {
		t.Errorf("expected content_length 15 (characters, not bytes), got %q",
			results[0].Metadata["content_length"])
	}
}

func TestStore_EmptyQueryReturnsNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "something", "s1", nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		results, err := store.SearchSimilar(ctx, q, 5, nil)
		if err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("query %q: expected no results, got %d", q, len(results))
		}
	}
}

func TestStore_SearchOnEmptyIndex(t *testing.T) {
	store := newTestStore(t)

	results, err := store.SearchSimilar(context.Background(), "anything", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty index, got %d", len(results))
	}
}

func TestStore_SearchBySessionListing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "first in session", "s1", nil)
	store.Add(ctx, "assistant", "second in session", "s1", nil)
	store.Add(ctx, "user", "other session", "s2", nil)

	// No query: unranked listing of the partition, newest first.
	results, err := store.SearchBySession(ctx, "s1", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 documents for s1, got %d", len(results))
	}
	if results[0].Content != "second in session" {
		t.Errorf("expected newest first, got %q", results[0].Content)
	}
	for _, r := range results {
		if r.Similarity != 1.0 {
			t.Errorf("listing should report similarity 1.0, got %v", r.Similarity)
		}
	}
}

func TestStore_SearchByRole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "a question", "s1", nil)
	store.Add(ctx, "assistant", "an answer", "s1", nil)

	results, err := store.SearchByRole(ctx, "assistant", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Content != "an answer" {
		t.Errorf("unexpected role partition: %v", results)
	}

	// With a query the partition is ranked by similarity.
	ranked, err := store.SearchByRole(ctx, "assistant", "an answer", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 || ranked[0].Similarity < 0.99 {
		t.Errorf("unexpected ranked result: %v", ranked)
	}
}

func TestStore_DeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "keep me", "s1", nil)
	store.Add(ctx, "user", "purge me", "s2", nil)
	store.Add(ctx, "assistant", "purge me too", "s2", nil)

	removed, err := store.DeleteSession(ctx, "s2")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	stats := store.Stats()
	if stats.Documents != 1 {
		t.Errorf("expected 1 document left, got %d", stats.Documents)
	}

	// Deleting an absent session removes nothing.
	removed, err = store.DeleteSession(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "hello", "s1", nil)
	store.Add(ctx, "user", "world", "s1", nil)

	stats := store.Stats()
	if stats.Documents != 2 {
		t.Errorf("expected 2 documents, got %d", stats.Documents)
	}
	if stats.Dimensions != 64 {
		t.Errorf("expected dimension 64, got %d", stats.Dimensions)
	}
	if stats.Collection != "conversations" || stats.Model != "mock" {
		t.Errorf("unexpected identity fields: %+v", stats)
	}
	if stats.SizeBytes <= 0 {
		t.Errorf("expected positive storage footprint, got %d", stats.SizeBytes)
	}
}

func TestStore_ThemesFewerDocsThanClusters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Add(ctx, "user", "only one document", "s1", nil)

	themes, err := store.Themes(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(themes) != 0 {
		t.Errorf("expected no themes with fewer documents than clusters, got %d", len(themes))
	}
}

func TestStore_Themes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	contents := []string{
		"we talked about breakfast food",
		"pancakes and coffee for breakfast",
		"the deployment failed on friday",
		"rollback the production deployment",
	}
	for _, c := range contents {
		if _, err := store.Add(ctx, "user", c, "s1", nil); err != nil {
			t.Fatal(err)
		}
	}

	themes, err := store.Themes(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(themes) == 0 || len(themes) > 2 {
		t.Fatalf("expected 1-2 themes, got %d", len(themes))
	}

	total := 0
	known := make(map[string]bool)
	for _, c := range contents {
		known[c] = true
	}
	for _, th := range themes {
		total += th.DocumentCount
		if !known[th.Representative] {
			t.Errorf("representative %q is not a stored document", th.Representative)
		}
		if len(th.Samples) == 0 {
			t.Error("expected sample documents per theme")
		}
	}
	if total != len(contents) {
		t.Errorf("expected cluster sizes to sum to %d, got %d", len(contents), total)
	}
}

func TestDocumentID_ContentAddressed(t *testing.T) {
	a := documentID("same text", "2026-01-01T00:00:00Z")
	b := documentID("same text", "2026-01-01T00:00:00Z")
	c := documentID("same text", "2026-01-01T00:00:01Z")

	if a != b {
		t.Error("identical content and timestamp must collapse to one id")
	}
	if a == c {
		t.Error("different timestamps must produce different ids")
	}
}
