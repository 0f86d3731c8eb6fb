package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DurableStore persists conversations, profile data, facts, and statistics
// in a SQLite database. Each table is independent; the store knows nothing
// about the other memory layers.
type DurableStore struct {
	db   *sql.DB
	path string
}

// NewDurableStore opens (or creates) the SQLite database at path.
func NewDurableStore(path string) (*DurableStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}

	s := &DurableStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate memory database: %w", err)
	}

	return s, nil
}

func (s *DurableStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		metadata TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS user_profile (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS facts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		fact TEXT NOT NULL,
		source TEXT,
		confidence REAL DEFAULT 1.0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS statistics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		metric_name TEXT NOT NULL,
		metric_value REAL NOT NULL,
		date TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id);
	CREATE INDEX IF NOT EXISTS idx_conversations_timestamp ON conversations(timestamp);
	CREATE INDEX IF NOT EXISTS idx_facts_category ON facts(category);
	CREATE INDEX IF NOT EXISTS idx_statistics_date ON statistics(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveConversation inserts one message row and returns its id. The insert
// commits synchronously; there is no batching.
func (s *DurableStore) SaveConversation(sessionID, role, content string, metadata map[string]interface{}) (int64, error) {
	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO conversations (session_id, role, content, timestamp, metadata)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, role, content, time.Now(), metaJSON)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// HistoryQuery composably filters conversation history. A zero field means
// "no restriction on that axis".
type HistoryQuery struct {
	SessionID string // filter by session
	Days      int    // trailing day window (now - days)
	Limit     int    // max rows
}

// History returns conversation messages matching the query, newest first.
func (s *DurableStore) History(q HistoryQuery) ([]Message, error) {
	query := `SELECT id, session_id, role, content, timestamp, metadata FROM conversations WHERE 1=1`
	var params []interface{}

	if q.SessionID != "" {
		query += " AND session_id = ?"
		params = append(params, q.SessionID)
	}
	if q.Days > 0 {
		cutoff := time.Now().AddDate(0, 0, -q.Days)
		query += " AND timestamp >= ?"
		params = append(params, cutoff)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, q.Limit)
	}

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// SearchConversations does a case-insensitive literal substring match on
// message content, newest first, bounded by limit.
func (s *DurableStore) SearchConversations(query string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, timestamp, metadata
		FROM conversations
		WHERE content LIKE ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// UpdateProfile upserts a profile entry by key, last write wins.
func (s *DurableStore) UpdateProfile(key string, value interface{}) error {
	valJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal profile value: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO user_profile (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, string(valJSON), time.Now())
	return err
}

// Profile returns the full deserialized profile map.
func (s *DurableStore) Profile() (map[string]interface{}, error) {
	rows, err := s.db.Query("SELECT key, value FROM user_profile")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profile := make(map[string]interface{})
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var val interface{}
		if err := json.Unmarshal([]byte(raw), &val); err != nil {
			// Pre-JSON rows stay readable as plain strings.
			profile[key] = raw
			continue
		}
		profile[key] = val
	}
	return profile, rows.Err()
}

// SaveFact appends a fact to the ledger and returns its id.
func (s *DurableStore) SaveFact(category, fact, source string, confidence float64) (int64, error) {
	now := time.Now()
	var src interface{}
	if source != "" {
		src = source
	}
	res, err := s.db.Exec(`
		INSERT INTO facts (category, fact, source, confidence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, category, fact, src, confidence, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Facts returns facts filtered by category (empty = all) and minimum
// confidence, ordered by confidence descending then recency.
func (s *DurableStore) Facts(category string, minConfidence float64) ([]Fact, error) {
	query := `SELECT id, category, fact, source, confidence, created_at, updated_at
		FROM facts WHERE confidence >= ?`
	params := []interface{}{minConfidence}

	if category != "" {
		query += " AND category = ?"
		params = append(params, category)
	}

	query += " ORDER BY confidence DESC, created_at DESC, id DESC"

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		var source sql.NullString
		if err := rows.Scan(&f.ID, &f.Category, &f.Fact, &source, &f.Confidence, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Source = source.String
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// SaveStatistic appends one time-series point dated today.
func (s *DurableStore) SaveStatistic(metric string, value float64, metadata map[string]interface{}) (int64, error) {
	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata: %w", err)
	}
	res, err := s.db.Exec(`
		INSERT INTO statistics (metric_name, metric_value, date, metadata)
		VALUES (?, ?, ?, ?)
	`, metric, value, time.Now().Format("2006-01-02"), metaJSON)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Statistics returns points filtered by metric name (empty = all) and a
// trailing day window, newest first.
func (s *DurableStore) Statistics(metric string, days int) ([]Statistic, error) {
	query := `SELECT id, metric_name, metric_value, date, metadata FROM statistics WHERE 1=1`
	var params []interface{}

	if metric != "" {
		query += " AND metric_name = ?"
		params = append(params, metric)
	}
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
		query += " AND date >= ?"
		params = append(params, cutoff)
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Statistic
	for rows.Next() {
		var st Statistic
		var metaJSON sql.NullString
		if err := rows.Scan(&st.ID, &st.Metric, &st.Value, &st.Date, &metaJSON); err != nil {
			return nil, err
		}
		st.Metadata = unmarshalMetadata(metaJSON)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// DurableStats reports row counts and on-disk size.
type DurableStats struct {
	Conversations int64   `json:"conversations_count"`
	Facts         int64   `json:"facts_count"`
	Statistics    int64   `json:"statistics_count"`
	SizeBytes     int64   `json:"database_size_bytes"`
	SizeMB        float64 `json:"database_size_mb"`
}

// Stats reports per-table row counts and database file size.
func (s *DurableStore) Stats() (DurableStats, error) {
	var st DurableStats
	for _, c := range []struct {
		table string
		dst   *int64
	}{
		{"conversations", &st.Conversations},
		{"facts", &st.Facts},
		{"statistics", &st.Statistics},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return DurableStats{}, err
		}
	}

	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
		st.SizeMB = float64(info.Size()) / (1024 * 1024)
	}
	return st, nil
}

// Close closes the database connection.
func (s *DurableStore) Close() error {
	return s.db.Close()
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var msgs []Message
	for rows.Next() {
		var m Message
		var metaJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Timestamp, &metaJSON); err != nil {
			return nil, err
		}
		m.Metadata = unmarshalMetadata(metaJSON)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func marshalMetadata(metadata map[string]interface{}) (interface{}, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalMetadata(raw sql.NullString) map[string]interface{} {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(raw.String), &meta); err != nil {
		return nil
	}
	return meta
}
