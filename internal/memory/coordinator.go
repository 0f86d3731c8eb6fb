package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mnemo-ai/mnemo/internal/config"
	"github.com/mnemo-ai/mnemo/internal/embedder"
	"github.com/mnemo-ai/mnemo/internal/semantic"
	"github.com/mnemo-ai/mnemo/internal/telemetry"
)

// SearchMethod selects which layers a search fans out to.
type SearchMethod string

const (
	SearchSemantic SearchMethod = "semantic"
	SearchText     SearchMethod = "text"
	SearchBoth     SearchMethod = "both"
)

// textHitSimilarity is the fixed score assigned to substring matches so
// they can be merged with vector hits. It is not a computed relevance;
// changing it re-ranks every mixed result set, so it stays as the
// original system shipped it.
const textHitSimilarity = 0.5

// semanticLayer is the tagged availability of the vector index: either an
// open store, or a reason it is disabled. Call sites check enabled()
// instead of testing a bare nil.
type semanticLayer struct {
	store  *semantic.Store
	reason string
}

func (l semanticLayer) enabled() bool { return l.store != nil }

// Coordinator composes the three memory layers behind one API. It owns
// session identity and the fan-out/merge semantics; each store stays
// unaware of the others.
//
// Writes run sequentially on the calling goroutine in fixed order
// (window, durable, semantic) with no internal queuing; AddMessage blocks
// until embedding completes.
type Coordinator struct {
	log     *telemetry.Logger
	window  *Window
	durable *DurableStore
	sem     semanticLayer
	cache   *embedder.Cached // non-nil when the semantic embedder is cached

	mu        sync.RWMutex
	sessionID string
}

// New builds a coordinator from configuration. Failure to open the durable
// store is fatal; a missing semantic layer is a logged degraded mode.
func New(cfg config.MemoryConfig, log *telemetry.Logger) (*Coordinator, error) {
	durable, err := NewDurableStore(cfg.Durable.Path)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		log:       log,
		window:    NewWindow(cfg.Window.Capacity),
		durable:   durable,
		sessionID: uuid.NewString(),
	}
	c.sem = c.openSemantic(cfg.Semantic)

	if c.sem.enabled() {
		log.Info("memory initialized", "session_id", c.sessionID, "semantic", "enabled")
	} else {
		log.Warn("semantic memory not available", "reason", c.sem.reason)
	}
	return c, nil
}

func (c *Coordinator) openSemantic(cfg config.SemanticConfig) semanticLayer {
	if !cfg.Enabled {
		return semanticLayer{reason: "disabled by configuration"}
	}

	emb, err := embedder.New(embedder.Config{
		Model:         cfg.Model,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.Tokenizer,
		Dimensions:    cfg.Dimensions,
	})
	if err != nil {
		return semanticLayer{reason: err.Error()}
	}

	cached, err := embedder.NewCached(emb, cfg.CacheSize)
	if err != nil {
		return semanticLayer{reason: err.Error()}
	}

	store, err := semantic.New(semantic.Config{
		Path:       cfg.Path,
		Collection: cfg.Collection,
		Model:      cfg.Model,
		Embedder:   cached,
	})
	if err != nil {
		cached.Close()
		return semanticLayer{reason: err.Error()}
	}

	c.cache = cached
	return semanticLayer{store: store}
}

// WriteOutcome reports where a fanned-out message landed. Per-store
// failures are captured here rather than aborting siblings: the write is
// at-least-once and best-effort, not a transaction, and a message may land
// in some stores and not others.
type WriteOutcome struct {
	DurableID       int64  // row id, 0 on failure
	DurableErr      error  // nil on success
	SemanticID      string // document id, "" on failure or skip
	SemanticErr     error  // nil on success or skip
	SemanticSkipped string // disabled reason, "" when the write was attempted
}

// AddMessage records one turn in every layer, in fixed order. The window
// write cannot fail; durable and semantic failures are logged and kept out
// of each other's way.
func (c *Coordinator) AddMessage(ctx context.Context, role, content string, metadata map[string]interface{}) WriteOutcome {
	sessionID := c.CurrentSessionID()

	c.window.Add(role, content, metadata)

	var out WriteOutcome
	out.DurableID, out.DurableErr = c.durable.SaveConversation(sessionID, role, content, metadata)
	if out.DurableErr != nil {
		c.log.Error("durable write failed", "session_id", sessionID, "error", out.DurableErr)
	}

	if !c.sem.enabled() {
		out.SemanticSkipped = c.sem.reason
		return out
	}
	out.SemanticID, out.SemanticErr = c.sem.store.Add(ctx, role, content, sessionID, metadata)
	if out.SemanticErr != nil {
		c.log.Error("semantic write failed", "session_id", sessionID, "error", out.SemanticErr)
	}
	return out
}

// Search fans a query across the enabled layers and merges the results:
// duplicates by exact content keep the higher-similarity hit, ordering is
// by similarity descending with ties stable in insertion order, and the
// merged set is truncated to limit.
func (c *Coordinator) Search(ctx context.Context, query string, method SearchMethod, limit int) []SearchResult {
	if limit <= 0 {
		limit = 5
	}

	var pooled []SearchResult

	if method == SearchSemantic || method == SearchBoth {
		if c.sem.enabled() {
			hits, err := c.sem.store.SearchSimilar(ctx, query, limit, nil)
			if err != nil {
				c.log.Error("semantic search failed", "error", err)
			}
			for _, h := range hits {
				pooled = append(pooled, SearchResult{
					Content:      h.Content,
					Metadata:     metaToAny(h.Metadata),
					Similarity:   float64(h.Similarity),
					SearchMethod: "semantic",
				})
			}
		}
	}

	if method == SearchText || method == SearchBoth {
		msgs, err := c.durable.SearchConversations(query, limit)
		if err != nil {
			c.log.Error("text search failed", "error", err)
		}
		for _, m := range msgs {
			pooled = append(pooled, SearchResult{
				Content: m.Content,
				Metadata: map[string]interface{}{
					"id":         m.ID,
					"role":       m.Role,
					"session_id": m.SessionID,
					"timestamp":  m.Timestamp,
				},
				Similarity:   textHitSimilarity,
				SearchMethod: "text",
			})
		}
	}

	return mergeResults(pooled, limit)
}

// mergeResults dedupes by exact content (higher similarity wins, first
// insertion wins ties), sorts by similarity descending, and truncates.
func mergeResults(pooled []SearchResult, limit int) []SearchResult {
	byContent := make(map[string]int, len(pooled))
	var unique []SearchResult
	for _, r := range pooled {
		if i, seen := byContent[r.Content]; seen {
			if r.Similarity > unique[i].Similarity {
				unique[i] = r
			}
			continue
		}
		byContent[r.Content] = len(unique)
		unique = append(unique, r)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Similarity > unique[j].Similarity
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// History returns durable conversation history. An empty session id means
// the current session; a store failure yields an empty list.
func (c *Coordinator) History(days int, sessionID string, limit int) []Message {
	if sessionID == "" {
		sessionID = c.CurrentSessionID()
	}

	msgs, err := c.durable.History(HistoryQuery{SessionID: sessionID, Days: days, Limit: limit})
	if err != nil {
		c.log.Error("history query failed", "session_id", sessionID, "error", err)
		return nil
	}
	return msgs
}

// Profile returns the full user profile, empty on store failure.
func (c *Coordinator) Profile() map[string]interface{} {
	profile, err := c.durable.Profile()
	if err != nil {
		c.log.Error("profile read failed", "error", err)
		return map[string]interface{}{}
	}
	return profile
}

// UpdateProfile upserts one profile key. Returns false on store failure.
func (c *Coordinator) UpdateProfile(key string, value interface{}) bool {
	if err := c.durable.UpdateProfile(key, value); err != nil {
		c.log.Error("profile update failed", "key", key, "error", err)
		return false
	}
	return true
}

// SaveFact appends a fact. Out-of-range confidence is rejected locally;
// store failure returns false.
func (c *Coordinator) SaveFact(category, fact, source string, confidence float64) bool {
	if confidence < 0 || confidence > 1 {
		c.log.Warn("rejected fact with out-of-range confidence",
			"category", category, "confidence", confidence)
		return false
	}
	if _, err := c.durable.SaveFact(category, fact, source, confidence); err != nil {
		c.log.Error("fact save failed", "category", category, "error", err)
		return false
	}
	return true
}

// Facts returns facts by category and minimum confidence, empty on failure.
func (c *Coordinator) Facts(category string, minConfidence float64) []Fact {
	facts, err := c.durable.Facts(category, minConfidence)
	if err != nil {
		c.log.Error("facts query failed", "error", err)
		return nil
	}
	return facts
}

// SaveStatistic appends one time-series point, false on store failure.
func (c *Coordinator) SaveStatistic(metric string, value float64, metadata map[string]interface{}) bool {
	if _, err := c.durable.SaveStatistic(metric, value, metadata); err != nil {
		c.log.Error("statistic save failed", "metric", metric, "error", err)
		return false
	}
	return true
}

// Statistics returns time-series points, empty on store failure.
func (c *Coordinator) Statistics(metric string, days int) []Statistic {
	stats, err := c.durable.Statistics(metric, days)
	if err != nil {
		c.log.Error("statistics query failed", "error", err)
		return nil
	}
	return stats
}

// SearchSession queries the semantic layer within one session; without a
// query it lists the session's documents newest first. Disabled layer
// yields no results.
func (c *Coordinator) SearchSession(ctx context.Context, sessionID, query string, limit int) []SearchResult {
	if !c.sem.enabled() {
		return nil
	}
	hits, err := c.sem.store.SearchBySession(ctx, sessionID, query, limit)
	if err != nil {
		c.log.Error("session search failed", "session_id", sessionID, "error", err)
		return nil
	}
	return semanticHits(hits)
}

// SearchRole is SearchSession's counterpart for a role partition.
func (c *Coordinator) SearchRole(ctx context.Context, role, query string, limit int) []SearchResult {
	if !c.sem.enabled() {
		return nil
	}
	hits, err := c.sem.store.SearchByRole(ctx, role, query, limit)
	if err != nil {
		c.log.Error("role search failed", "role", role, "error", err)
		return nil
	}
	return semanticHits(hits)
}

// Themes clusters all semantic documents into k conversation themes.
func (c *Coordinator) Themes(ctx context.Context, k int) []semantic.Theme {
	if !c.sem.enabled() {
		return nil
	}
	themes, err := c.sem.store.Themes(ctx, k)
	if err != nil {
		c.log.Error("theme clustering failed", "error", err)
		return nil
	}
	return themes
}

// PurgeSessionVectors removes a session's documents from the semantic
// layer only. The durable copies stay queryable: vector purge and durable
// retention are deliberately asymmetric, and callers must account for it.
func (c *Coordinator) PurgeSessionVectors(ctx context.Context, sessionID string) int {
	if !c.sem.enabled() {
		return 0
	}
	removed, err := c.sem.store.DeleteSession(ctx, sessionID)
	if err != nil {
		c.log.Error("session purge failed", "session_id", sessionID, "error", err)
		return 0
	}
	c.log.Info("purged session vectors", "session_id", sessionID, "removed", removed)
	return removed
}

// Stats aggregates per-layer statistics.
type Stats struct {
	SessionID      string         `json:"session_id"`
	Window         WindowStats    `json:"short_term"`
	Durable        DurableStats   `json:"long_term"`
	SemanticStatus string         `json:"semantic_status"` // "ok" or the disabled reason
	Semantic       semantic.Stats `json:"semantic,omitempty"`
}

// SemanticNotAvailable is the status prefix reported when the vector
// layer is disabled.
const SemanticNotAvailable = "not available"

// Stats reports the state of every layer. A disabled semantic layer is
// reported explicitly as not available rather than omitted.
func (c *Coordinator) Stats() Stats {
	stats := Stats{
		SessionID: c.CurrentSessionID(),
		Window:    c.window.Stats(),
	}

	durable, err := c.durable.Stats()
	if err != nil {
		c.log.Error("durable stats failed", "error", err)
	}
	stats.Durable = durable

	if c.sem.enabled() {
		stats.SemanticStatus = "ok"
		stats.Semantic = c.sem.store.Stats()
	} else {
		stats.SemanticStatus = SemanticNotAvailable + ": " + c.sem.reason
	}
	return stats
}

// StartNewSession regenerates the session id and clears the ephemeral
// window. Durable and semantic history of the superseded session stays
// queryable by its old id.
func (c *Coordinator) StartNewSession() string {
	c.mu.Lock()
	c.sessionID = uuid.NewString()
	id := c.sessionID
	c.mu.Unlock()

	c.window.Clear()
	c.log.Info("started new session", "session_id", id)
	return id
}

// CurrentSessionID returns the active session id.
func (c *Coordinator) CurrentSessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Context renders the ephemeral window for prompt injection.
func (c *Coordinator) Context() string {
	return c.window.Context()
}

// Recent returns the last n window messages in chronological order.
func (c *Coordinator) Recent(n int) []Message {
	return c.window.Recent(n)
}

// LastByRole returns the newest window message with the given role.
func (c *Coordinator) LastByRole(role string) (Message, bool) {
	return c.window.LastByRole(role)
}

// Close releases the durable store and the embedding cache.
func (c *Coordinator) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	return c.durable.Close()
}

func semanticHits(hits []semantic.Result) []SearchResult {
	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, SearchResult{
			Content:      h.Content,
			Metadata:     metaToAny(h.Metadata),
			Similarity:   float64(h.Similarity),
			SearchMethod: "semantic",
		})
	}
	return results
}

func metaToAny(meta map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
