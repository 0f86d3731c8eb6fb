package memory

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents one conversation turn. Messages are immutable once
// recorded; ephemeral copies are evicted by capacity, durable and semantic
// copies persist until explicitly deleted.
type Message struct {
	ID        int64                  `json:"id,omitempty"` // durable row id, 0 until stored
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	SessionID string                 `json:"session_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Fact is an append-only knowledge entry. Duplicates are allowed and never
// deduplicated.
type Fact struct {
	ID         int64     `json:"id"`
	Category   string    `json:"category"`
	Fact       string    `json:"fact"`
	Source     string    `json:"source,omitempty"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Statistic is one point of an append-only time series.
type Statistic struct {
	ID        int64                  `json:"id"`
	Metric    string                 `json:"metric_name"`
	Value     float64                `json:"metric_value"`
	Date      string                 `json:"date"` // YYYY-MM-DD
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// SearchResult is one hit from Search, comparable across layers.
type SearchResult struct {
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata"`
	Similarity   float64                `json:"similarity"`
	SearchMethod string                 `json:"search_method"` // semantic or text
}
