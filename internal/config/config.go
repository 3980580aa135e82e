// Package config loads the application configuration from a TOML file,
// applying defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Provider names accepted for embedding and generation backends.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Index backend names.
const (
	IndexSQLite = "sqlite"
	IndexMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Memory    MemoryConfig    `toml:"memory"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// UploadsDir is where accepted uploads are archived.
	UploadsDir string `toml:"uploads_dir"`

	// WatchDir, when set, is watched for new files to auto-ingest.
	WatchDir string `toml:"watch_dir"`

	// RateLimit is the sustained requests per second allowed on the
	// upload endpoint. Zero disables rate limiting.
	RateLimit float64 `toml:"rate_limit"`

	// RateBurst is the burst size for the upload rate limiter.
	RateBurst int `toml:"rate_burst"`
}

// ProviderConfig configures a model backend.
type ProviderConfig struct {
	// Provider selects the backend: "openai" or "ollama".
	Provider string `toml:"provider"`

	// APIKey authenticates against hosted providers. Falls back to the
	// OPENAI_API_KEY environment variable when empty.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model overrides the provider's default model.
	Model string `toml:"model"`

	// Dimensions overrides the embedding vector size (embedding only).
	Dimensions int `toml:"dimensions"`
}

// IndexConfig configures the vector store.
type IndexConfig struct {
	// Backend selects the store: "sqlite" or "memory".
	Backend string `toml:"backend"`

	// DataDir is where the SQLite index lives. Empty means
	// ~/.ragchat/data.
	DataDir string `toml:"data_dir"`
}

// ChunkingConfig configures document segmentation.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures similarity search.
type RetrievalConfig struct {
	TopK     int     `toml:"top_k"`
	MinScore float64 `toml:"min_score"`
}

// MemoryConfig configures conversation history.
type MemoryConfig struct {
	// Window is the number of messages kept per conversation.
	Window int `toml:"window"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 1,
			RateBurst: 3,
		},
		Embedding: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		LLM: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		Index: IndexConfig{
			Backend: IndexSQLite,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 100,
		},
		Retrieval: RetrievalConfig{
			TopK:     driven.DefaultTopK,
			MinScore: driven.DefaultMinScore,
		},
		Memory: MemoryConfig{
			Window: 10,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.ragchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ragchat", "config.toml"), nil
}

// Load reads the configuration at path, layered over the defaults.
// A missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills credentials from the environment when the file leaves
// them blank.
func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = key
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
	}
}

// validate rejects values the pipeline cannot run with.
func (c *Config) validate() error {
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Index.Backend {
	case IndexSQLite, IndexMemory:
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Memory.Window <= 0 {
		return fmt.Errorf("memory window must be positive, got %d", c.Memory.Window)
	}
	return nil
}
