package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete claimgraph configuration.
// Hierarchy (highest to lowest priority): CLI flags, CLAIMGRAPH_* environment
// variables, ~/.claimgraph/config.yaml, the defaults below.
type Config struct {
	Store    StoreConfig    `yaml:"store" json:"store"`
	HTTP     HTTPConfig     `yaml:"http" json:"http"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	LLM      LLMConfig      `yaml:"llm" json:"llm"`
	Output   OutputConfig   `yaml:"output" json:"output"`
}

// StoreConfig locates the claim database.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"` // SQLite file; directories are created on open
}

// HTTPConfig controls patent-page fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	RatePerSec   float64       `yaml:"rate_per_sec" json:"rate_per_sec"` // per-domain request rate
	Burst        int           `yaml:"burst" json:"burst"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy"`
}

// CacheConfig controls the layered fetch/report cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// AnalysisConfig carries the tunable heuristics of the engine.
type AnalysisConfig struct {
	// FuzzyThreshold is the minimum share of an element's significant words
	// that must appear in a candidate counterpart for a fuzzy mirror match.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	// SupportThreshold is the minimum share of an element's significant
	// words that must appear in the specification text for the element to
	// count as supported.
	SupportThreshold float64 `yaml:"support_threshold" json:"support_threshold"`
}

// LLMConfig configures the optional claim revision provider.
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds

	// StrictReferences rejects suggestions that reference claim numbers
	// outside the invention's claim set. Should always be true.
	StrictReferences bool `yaml:"strict_references" json:"strict_references"`

	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".claimgraph")

	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(base, "claims.db"),
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "claimgraph/0.1 (+https://github.com/anicholas99/claimgraph)",
			MaxBodyBytes: 4_000_000,
			RatePerSec:   1,
			Burst:        3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Analysis: AnalysisConfig{
			FuzzyThreshold:   0.7,
			SupportThreshold: 0.5,
		},
		LLM: LLMConfig{
			Provider:         "", // Disabled by default
			Timeout:          30,
			StrictReferences: true,
			MaxTokens:        1000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
