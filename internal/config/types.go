package config

// Config represents the main application configuration (mnemo.yaml).
type Config struct {
	Name    string        `yaml:"name" json:"name"`
	Memory  MemoryConfig  `yaml:"memory" json:"memory"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// MemoryConfig configures the three memory layers.
type MemoryConfig struct {
	Window   WindowConfig   `yaml:"window" json:"window"`
	Durable  DurableConfig  `yaml:"durable" json:"durable"`
	Semantic SemanticConfig `yaml:"semantic" json:"semantic"`
}

// WindowConfig configures the ephemeral message window.
type WindowConfig struct {
	Capacity int `yaml:"capacity" json:"capacity"` // max buffered messages (default 10)
}

// DurableConfig configures the SQLite-backed store.
type DurableConfig struct {
	Path string `yaml:"path" json:"path"` // database file path
}

// SemanticConfig configures the vector index layer.
type SemanticConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Path       string `yaml:"path" json:"path"`             // vector index directory
	Collection string `yaml:"collection" json:"collection"` // collection name
	Model      string `yaml:"model" json:"model"`           // embedding model identifier ("mock" for dev)
	ModelPath  string `yaml:"model_path,omitempty" json:"model_path,omitempty"`
	Tokenizer  string `yaml:"tokenizer,omitempty" json:"tokenizer,omitempty"`
	Dimensions int    `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	CacheSize  int64  `yaml:"cache_size,omitempty" json:"cache_size,omitempty"` // embedding cache entries
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text, json
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}
