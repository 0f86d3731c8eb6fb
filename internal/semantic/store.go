// Package semantic implements the vector index memory layer: embedding
// storage, nearest-neighbor retrieval, and theme clustering over recorded
// conversation text.
package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemo-ai/mnemo/internal/embedder"
)

// Config configures the vector index.
type Config struct {
	Path       string // persistent index directory
	Collection string // collection name
	Model      string // embedding model identifier, for stats reporting
	Embedder   embedder.Embedder
}

// Store is the semantic index over message text. It is optional at
// runtime: construction fails when the embedding runtime is missing, and
// the coordinator treats that as a degraded mode.
type Store struct {
	db       *chromem.DB
	col      *chromem.Collection
	embedder embedder.Embedder
	path     string
	model    string
}

// Result is one document from the index.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// New opens (or creates) the persistent index at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("semantic store requires an embedder")
	}
	if cfg.Collection == "" {
		cfg.Collection = "conversations"
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}

	col, err := db.GetOrCreateCollection(cfg.Collection,
		map[string]string{"description": "Conversation memories for semantic search"}, nil)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	return &Store{
		db:       db,
		col:      col,
		embedder: cfg.Embedder,
		path:     cfg.Path,
		model:    cfg.Model,
	}, nil
}

// Add embeds content and stores it with its metadata. The document id is
// content-addressed (a hash of content and timestamp), so identical text
// re-submitted at the same instant collapses to one document.
func (s *Store) Add(ctx context.Context, role, content, sessionID string, metadata map[string]interface{}) (string, error) {
	timestamp := time.Now().Format(time.RFC3339Nano)
	id := documentID(content, timestamp)

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return "", fmt.Errorf("embed content: %w", err)
	}

	docMeta := map[string]string{
		"role":           role,
		"session_id":     sessionID,
		"timestamp":      timestamp,
		"content_length": strconv.Itoa(utf8.RuneCountInString(content)),
	}
	for k, v := range metadata {
		docMeta[k] = stringifyMetaValue(v)
	}

	err = s.col.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   content,
		Embedding: vec,
		Metadata:  docMeta,
	})
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return id, nil
}

// SearchSimilar retrieves the n nearest neighbors of query, optionally
// restricted by a metadata equality filter. An empty or whitespace query
// returns no results without touching the index.
func (s *Store) SearchSimilar(ctx context.Context, query string, n int, where map[string]string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if n <= 0 {
		n = 5
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	raw, err := s.queryEmbedding(ctx, vec, n, where)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, Result{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return results, nil
}

// SearchBySession restricts search to one session. With a query it ranks
// by similarity; without one it lists the partition newest first.
func (s *Store) SearchBySession(ctx context.Context, sessionID, query string, n int) ([]Result, error) {
	return s.searchPartition(ctx, map[string]string{"session_id": sessionID}, query, n)
}

// SearchByRole restricts search to messages with one role.
func (s *Store) SearchByRole(ctx context.Context, role, query string, n int) ([]Result, error) {
	return s.searchPartition(ctx, map[string]string{"role": role}, query, n)
}

func (s *Store) searchPartition(ctx context.Context, where map[string]string, query string, n int) ([]Result, error) {
	if strings.TrimSpace(query) != "" {
		return s.SearchSimilar(ctx, query, n, where)
	}
	if n <= 0 {
		n = 10
	}

	raw, err := s.listDocuments(ctx, where)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, Result{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: 1.0, // unranked listing
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metadata["timestamp"] > results[j].Metadata["timestamp"]
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Theme is one cluster of related documents.
type Theme struct {
	ID             int               `json:"theme_id"`
	Representative string            `json:"representative_text"`
	Metadata       map[string]string `json:"representative_metadata"`
	DocumentCount  int               `json:"document_count"`
	Samples        []string          `json:"documents"`
}

// Themes clusters every document's embedding into k groups and reports
// each group's centroid-nearest document as its representative. Fewer
// documents than clusters yields an empty result, never an error.
func (s *Store) Themes(ctx context.Context, k int) ([]Theme, error) {
	if k <= 0 {
		return nil, nil
	}

	docs, err := s.listDocuments(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) < k {
		return nil, nil
	}

	vectors := make([][]float32, len(docs))
	for i, d := range docs {
		vectors[i] = d.Embedding
	}

	assignments, centroids := kMeans(vectors, k, 25)

	themes := make([]Theme, 0, k)
	for cluster := 0; cluster < k; cluster++ {
		var members []int
		for i, a := range assignments {
			if a == cluster {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}

		best := members[0]
		bestDist := squaredDistance(vectors[best], centroids[cluster])
		for _, i := range members[1:] {
			if d := squaredDistance(vectors[i], centroids[cluster]); d < bestDist {
				best, bestDist = i, d
			}
		}

		samples := make([]string, 0, 3)
		for _, i := range members {
			samples = append(samples, docs[i].Content)
			if len(samples) == 3 {
				break
			}
		}

		themes = append(themes, Theme{
			ID:             cluster,
			Representative: docs[best].Content,
			Metadata:       docs[best].Metadata,
			DocumentCount:  len(members),
			Samples:        samples,
		})
	}
	return themes, nil
}

// DeleteSession removes every document tagged with the session id and
// returns the count removed.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	before := s.col.Count()
	if before == 0 {
		return 0, nil
	}
	if err := s.col.Delete(ctx, map[string]string{"session_id": sessionID}, nil); err != nil {
		return 0, fmt.Errorf("delete session documents: %w", err)
	}
	return before - s.col.Count(), nil
}

// Stats describes the index contents and footprint.
type Stats struct {
	Documents  int     `json:"total_documents"`
	Dimensions int     `json:"embedding_dimension"`
	Collection string  `json:"collection_name"`
	Model      string  `json:"embedding_model"`
	SizeBytes  int64   `json:"storage_size_bytes"`
	SizeMB     float64 `json:"storage_size_mb"`
}

// Stats reports document count, embedding dimensionality, and on-disk size.
func (s *Store) Stats() Stats {
	var size int64
	filepath.WalkDir(s.path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})

	return Stats{
		Documents:  s.col.Count(),
		Dimensions: s.embedder.Dimensions(),
		Collection: s.col.Name,
		Model:      s.model,
		SizeBytes:  size,
		SizeMB:     float64(size) / (1024 * 1024),
	}
}

// queryEmbedding queries chromem, shrinking n until it fits the collection.
// chromem rejects nResults larger than the matching document count, so the
// loop converges on however many documents actually exist.
func (s *Store) queryEmbedding(ctx context.Context, vec []float32, n int, where map[string]string) ([]chromem.Result, error) {
	for limit := n; limit >= 1; limit-- {
		results, err := s.col.QueryEmbedding(ctx, vec, limit, where, nil)
		if err == nil {
			return results, nil
		}
		if isTooFewDocsError(err) {
			continue
		}
		return nil, fmt.Errorf("query vector index: %w", err)
	}
	// Collection (or the filtered partition) is empty.
	return nil, nil
}

// listDocuments retrieves every document matching the filter. chromem has
// no enumeration API, so a fixed probe vector pulls the whole partition
// through the query path; callers re-order the results themselves.
func (s *Store) listDocuments(ctx context.Context, where map[string]string) ([]chromem.Result, error) {
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, s.embedder.Dimensions())
	probe[0] = 1

	return s.queryEmbedding(ctx, probe, count, where)
}

func documentID(content, timestamp string) string {
	sum := sha256.Sum256([]byte(content + "_" + timestamp))
	return fmt.Sprintf("mem_%x", sum[:12])
}

func stringifyMetaValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func isTooFewDocsError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
