// Package mnemo provides a public API for the layered memory subsystem.
//
// Example usage:
//
//	import "github.com/mnemo-ai/mnemo/pkg/mnemo"
//
//	mem, err := mnemo.Open(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer mem.Close()
//
//	mem.AddMessage(ctx, "user", "I live in Moscow")
//	results := mem.Search(ctx, "where do I live", mnemo.SearchBoth, 5)
package mnemo

import (
	"context"
	"fmt"

	"github.com/mnemo-ai/mnemo/internal/config"
	"github.com/mnemo-ai/mnemo/internal/memory"
	"github.com/mnemo-ai/mnemo/internal/semantic"
	"github.com/mnemo-ai/mnemo/internal/telemetry"
)

// Re-exported memory types, so callers never import internal packages.
type (
	Message      = memory.Message
	Fact         = memory.Fact
	Statistic    = memory.Statistic
	SearchResult = memory.SearchResult
	SearchMethod = memory.SearchMethod
	WriteOutcome = memory.WriteOutcome
	Stats        = memory.Stats
	Theme        = semantic.Theme
)

// Search methods and message roles.
const (
	SearchSemantic = memory.SearchSemantic
	SearchText     = memory.SearchText
	SearchBoth     = memory.SearchBoth

	RoleUser      = memory.RoleUser
	RoleAssistant = memory.RoleAssistant
	RoleSystem    = memory.RoleSystem
)

// Memory is an open handle on the layered stores. It is safe for
// concurrent use and must be released with Close.
type Memory struct {
	coord  *memory.Coordinator
	logger *telemetry.Logger
}

// Open loads mnemo.yaml from dir (falling back to defaults when absent)
// and opens every configured layer. The semantic index degrades to
// disabled when its runtime is unavailable; the durable store is required.
func Open(dir string) (*Memory, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig opens the layers from an explicit configuration.
func OpenWithConfig(cfg *config.Config) (*Memory, error) {
	logger := telemetry.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.File != "" {
		if err := logger.WithFile(cfg.Logging.File); err != nil {
			logger.Warn("log file unavailable", "path", cfg.Logging.File, "error", err)
		}
	}

	coord, err := memory.New(cfg.Memory, logger)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to open memory: %w", err)
	}
	return &Memory{coord: coord, logger: logger}, nil
}

// AddMessage records one conversation turn in every layer and reports
// where it landed.
func (m *Memory) AddMessage(ctx context.Context, role, content string) WriteOutcome {
	return m.coord.AddMessage(ctx, role, content, nil)
}

// AddMessageWithMetadata records a turn with caller metadata attached.
func (m *Memory) AddMessageWithMetadata(ctx context.Context, role, content string, metadata map[string]interface{}) WriteOutcome {
	return m.coord.AddMessage(ctx, role, content, metadata)
}

// Search queries the enabled layers and returns merged, ranked results.
func (m *Memory) Search(ctx context.Context, query string, method SearchMethod, limit int) []SearchResult {
	return m.coord.Search(ctx, query, method, limit)
}

// History returns durable history, newest first. An empty sessionID means
// the current session; days and limit of 0 mean unbounded and default.
func (m *Memory) History(days int, sessionID string, limit int) []Message {
	return m.coord.History(days, sessionID, limit)
}

// Context renders the short-term window for prompt injection.
func (m *Memory) Context() string {
	return m.coord.Context()
}

// Recent returns the last n window messages in chronological order.
func (m *Memory) Recent(n int) []Message {
	return m.coord.Recent(n)
}

// Profile returns the stored user profile.
func (m *Memory) Profile() map[string]interface{} {
	return m.coord.Profile()
}

// UpdateProfile upserts one profile key. It reports success.
func (m *Memory) UpdateProfile(key string, value interface{}) bool {
	return m.coord.UpdateProfile(key, value)
}

// SaveFact stores a fact with a confidence in [0, 1]. It reports success.
func (m *Memory) SaveFact(category, fact, source string, confidence float64) bool {
	return m.coord.SaveFact(category, fact, source, confidence)
}

// Facts returns facts filtered by category (empty for all) and minimum
// confidence.
func (m *Memory) Facts(category string, minConfidence float64) []Fact {
	return m.coord.Facts(category, minConfidence)
}

// SaveStatistic appends one time-series point for a metric.
func (m *Memory) SaveStatistic(metric string, value float64, metadata map[string]interface{}) bool {
	return m.coord.SaveStatistic(metric, value, metadata)
}

// Statistics returns a metric's points from the last days days.
func (m *Memory) Statistics(metric string, days int) []Statistic {
	return m.coord.Statistics(metric, days)
}

// Themes clusters indexed messages into k conversation themes. It returns
// nil when the semantic layer is disabled or holds fewer than k messages.
func (m *Memory) Themes(ctx context.Context, k int) []Theme {
	return m.coord.Themes(ctx, k)
}

// SearchSession queries the semantic index within one session; an empty
// query lists the session newest first.
func (m *Memory) SearchSession(ctx context.Context, sessionID, query string, limit int) []SearchResult {
	return m.coord.SearchSession(ctx, sessionID, query, limit)
}

// SearchRole queries the semantic index within one role partition.
func (m *Memory) SearchRole(ctx context.Context, role, query string, limit int) []SearchResult {
	return m.coord.SearchRole(ctx, role, query, limit)
}

// PurgeSessionVectors removes a session's documents from the semantic
// index and returns the count removed. Durable history is kept.
func (m *Memory) PurgeSessionVectors(ctx context.Context, sessionID string) int {
	return m.coord.PurgeSessionVectors(ctx, sessionID)
}

// StartNewSession rotates the session id and clears the short-term
// window. Prior sessions stay queryable by their old ids.
func (m *Memory) StartNewSession() string {
	return m.coord.StartNewSession()
}

// CurrentSessionID returns the active session id.
func (m *Memory) CurrentSessionID() string {
	return m.coord.CurrentSessionID()
}

// Stats aggregates statistics from every layer.
func (m *Memory) Stats() Stats {
	return m.coord.Stats()
}

// Close releases the underlying stores and the logger.
func (m *Memory) Close() error {
	err := m.coord.Close()
	m.logger.Close()
	return err
}
