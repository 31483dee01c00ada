package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ragchat/internal/domain"
)

// PathsConfig locates the raw-documents directory and the on-disk
// vector collection. Both are created if absent.
type PathsConfig struct {
	RawDir    string `yaml:"raw_dir"`
	StorePath string `yaml:"store_path"`
}

// ChunkerConfig configures how documents are split into chunks. An
// explicit chunk_overlap of 0 is a valid setting (no overlap), so the
// field is a pointer to tell "absent" apart from "zero".
type ChunkerConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap *int `yaml:"chunk_overlap"`
}

// Overlap returns the configured chunk overlap, falling back to the
// default when the field was never set.
func (c ChunkerConfig) Overlap() int {
	if c.ChunkOverlap == nil {
		return c.ChunkSize / 10
	}
	return *c.ChunkOverlap
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type  string `yaml:"type"`
	Model string `yaml:"model"`
	// Dimension applies to the local embedder only; a remote model's
	// dimension is fixed by the model itself.
	Dimension int `yaml:"dimension"`
}

// GeneratorConfig configures the answer-generation service.
type GeneratorConfig struct {
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RetrievalConfig holds query-time defaults.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Paths     PathsConfig     `yaml:"paths"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Debug     bool            `yaml:"debug"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if cfg.Chunker.Overlap() < 0 {
		return nil, fmt.Errorf("chunk_overlap %d must not be negative", cfg.Chunker.Overlap())
	}
	if cfg.Chunker.Overlap() >= cfg.Chunker.ChunkSize {
		return nil, fmt.Errorf("chunk_overlap %d must be smaller than chunk_size %d",
			cfg.Chunker.Overlap(), cfg.Chunker.ChunkSize)
	}
	return &cfg, nil
}

// APIKey resolves the generation-service credential from the environment.
// Absence is a fatal startup condition, not a per-query one.
func (c *AppConfig) APIKey() (string, error) {
	key := os.Getenv(c.Generator.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%w: set %s in the environment or .env",
			domain.ErrMissingCredential, c.Generator.APIKeyEnv)
	}
	return key, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Paths.RawDir == "" {
		cfg.Paths.RawDir = "data/raw"
	}
	if cfg.Paths.StorePath == "" {
		cfg.Paths.StorePath = "data/vectorstore/ragchat.db"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.ChunkOverlap == nil {
		// One tenth of the chunk size, which is 50 for the default.
		overlap := cfg.Chunker.ChunkSize / 10
		cfg.Chunker.ChunkOverlap = &overlap
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Embedder.Model == "" {
		switch cfg.Embedder.Type {
		case "local":
			cfg.Embedder.Model = "hash-v1"
		default:
			cfg.Embedder.Model = "text-embedding-004"
		}
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 256
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "gemini-2.5-flash"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 30
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}
