// Package config loads and persists the docqa configuration from a
// TOML file. Missing files are created with defaults on first load so
// users have something concrete to edit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	Corpus    CorpusConfig    `toml:"corpus"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Context   ContextConfig   `toml:"context"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
}

// CorpusConfig describes the default document corpus.
type CorpusConfig struct {
	// Path is a file or directory ingested when none is given on the
	// command line.
	Path string `toml:"path"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	MaxChunkSize      int `toml:"max_chunk_size"`
	Overlap           int `toml:"overlap"`
	BoundaryTolerance int `toml:"boundary_tolerance"`
}

// RetrievalConfig controls hybrid retrieval.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`

	// VectorWeight is the fusion weight for vector scores (0..1);
	// keyword scores get the complement.
	VectorWeight float64 `toml:"vector_weight"`
}

// ContextConfig controls context assembly.
type ContextConfig struct {
	MaxTokens int `toml:"max_tokens"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai", "ollama", or empty for keyword-only mode.
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`

	// BatchSize is how many chunks are embedded per request.
	BatchSize int `toml:"batch_size"`

	// RatePerSecond caps embedding requests during bulk ingestion.
	// Zero disables limiting.
	RatePerSecond float64 `toml:"rate_per_second"`
}

// LLMConfig selects and configures the answer generator.
type LLMConfig struct {
	// Provider is "openai", "ollama", or empty for retrieval-only mode.
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// IndexConfig configures the hybrid index backend.
type IndexConfig struct {
	// DataDir holds the SQLite index. Empty means ~/.docqa/data.
	DataDir string `toml:"data_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			MaxChunkSize:      1000,
			Overlap:           200,
			BoundaryTolerance: 80,
		},
		Retrieval: RetrievalConfig{
			TopK:         5,
			VectorWeight: 0.5,
		},
		Context: ContextConfig{
			MaxTokens: 3000,
		},
		Embedding: EmbeddingConfig{
			BatchSize: 10,
		},
		LLM: LLMConfig{
			MaxTokens: 512,
		},
	}
}

// DefaultPath returns the default config file path (~/.docqa/config.toml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docqa", FileName), nil
}

// Load reads the config file at path, creating it with defaults if it
// does not exist. An empty path uses DefaultPath. The loaded config is
// validated before being returned.
func Load(path string) (Config, error) {
	var err error
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := Save(path, cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfiguration, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// API keys may be present, keep the file private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks value ranges. Violations are reported as
// domain.ErrConfiguration.
func (c Config) Validate() error {
	if c.Chunking.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: chunking.max_chunk_size must be positive", domain.ErrConfiguration)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.MaxChunkSize {
		return fmt.Errorf("%w: chunking.overlap must be in [0, max_chunk_size)", domain.ErrConfiguration)
	}
	if c.Chunking.BoundaryTolerance < 0 {
		return fmt.Errorf("%w: chunking.boundary_tolerance must not be negative", domain.ErrConfiguration)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrConfiguration)
	}
	if c.Retrieval.VectorWeight < 0 || c.Retrieval.VectorWeight > 1 {
		return fmt.Errorf("%w: retrieval.vector_weight must be in [0, 1]", domain.ErrConfiguration)
	}
	if c.Context.MaxTokens <= 0 {
		return fmt.Errorf("%w: context.max_tokens must be positive", domain.ErrConfiguration)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding.batch_size must be positive", domain.ErrConfiguration)
	}
	if c.Embedding.RatePerSecond < 0 {
		return fmt.Errorf("%w: embedding.rate_per_second must not be negative", domain.ErrConfiguration)
	}
	if err := validProvider("embedding.provider", c.Embedding.Provider); err != nil {
		return err
	}
	if err := validProvider("llm.provider", c.LLM.Provider); err != nil {
		return err
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%w: llm.max_tokens must be positive", domain.ErrConfiguration)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be in [0, 2]", domain.ErrConfiguration)
	}
	return nil
}

// validProvider checks a provider name.
func validProvider(key, provider string) error {
	switch provider {
	case "", "openai", "ollama":
		return nil
	default:
		return fmt.Errorf("%w: %s must be one of openai, ollama (got %q)", domain.ErrConfiguration, key, provider)
	}
}

// SetValue sets a dotted key (e.g. "retrieval.top_k") in the config
// file at path and persists it. The value string is parsed as bool,
// int, or float where possible, falling back to string. The resulting
// config must still validate.
func SetValue(path, key, value string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return err
	}

	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	parts := strings.Split(key, ".")
	node := tree
	for i, part := range parts {
		if i == len(parts)-1 {
			// The tree was marshalled from the full Config struct, so
			// every valid leaf is present. Anything else would be
			// silently dropped on re-unmarshal.
			if _, ok := node[part]; !ok {
				return fmt.Errorf("%w: unknown config key %q", domain.ErrConfiguration, key)
			}
			node[part] = parseValue(value)
			break
		}
		next, ok := node[part].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: unknown config key %q", domain.ErrConfiguration, key)
		}
		node = next
	}

	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	updated := Default()
	if err := toml.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	return Save(path, updated)
}

// parseValue interprets a string as the narrowest matching TOML type.
func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
