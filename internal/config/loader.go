package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	merrors "github.com/mnemo-ai/mnemo/internal/errors"
)

// Load loads the application configuration from dir/mnemo.yaml.
// A missing file yields the default configuration.
func Load(dir string) (*Config, error) {
	configFile := filepath.Join(dir, "mnemo.yaml")

	content, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content = []byte(interpolateEnv(string(content)))

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, merrors.Wrap(merrors.CodeConfigInvalid, "failed to parse config", err).
			WithSuggestion("check YAML syntax in " + configFile)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// interpolateEnv replaces ${env.VAR} and ${VAR} with environment values.
func interpolateEnv(content string) string {
	envPattern := regexp.MustCompile(`\$\{env\.([^}]+)\}`)
	content = envPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // keep original if not found
	})

	varPattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	content = varPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := varPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return content
}

func defaultConfig() *Config {
	cfg := &Config{Name: "mnemo"}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "mnemo"
	}
	if cfg.Memory.Window.Capacity == 0 {
		cfg.Memory.Window.Capacity = 10
	}
	if cfg.Memory.Durable.Path == "" {
		cfg.Memory.Durable.Path = "data/conversations.db"
	}
	if cfg.Memory.Semantic.Path == "" {
		cfg.Memory.Semantic.Path = "data/vector_db"
	}
	if cfg.Memory.Semantic.Collection == "" {
		cfg.Memory.Semantic.Collection = "conversations"
	}
	if cfg.Memory.Semantic.Model == "" {
		cfg.Memory.Semantic.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Memory.Semantic.Dimensions == 0 {
		cfg.Memory.Semantic.Dimensions = 384
	}
	if cfg.Memory.Semantic.CacheSize == 0 {
		cfg.Memory.Semantic.CacheSize = 4096
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	// Zero is defaulted before validation; only negatives reach here.
	if cfg.Memory.Window.Capacity < 0 {
		return merrors.New(merrors.CodeConfigInvalid, "memory.window.capacity must not be negative")
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return merrors.New(merrors.CodeConfigInvalid,
			fmt.Sprintf("logging.format %q not supported", cfg.Logging.Format)).
			WithSuggestion(`use "text" or "json"`)
	}
	return nil
}
