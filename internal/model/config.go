package model

import "time"

// Config is the full configuration tree. Everything here can be overridden
// via config file, FACTFUSE_* environment variables, or CLI flags.
type Config struct {
	Lexicon     LexiconConfig     `yaml:"lexicon" mapstructure:"lexicon"`
	Fusion      FusionConfig      `yaml:"fusion" mapstructure:"fusion"`
	Annotator   AnnotatorConfig   `yaml:"annotator" mapstructure:"annotator"`
	Ensemble    EnsembleConfig    `yaml:"ensemble" mapstructure:"ensemble"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Proxy       ProxyConfig       `yaml:"proxy" mapstructure:"proxy"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LexiconConfig holds the cue phrase lists consumed by the rule scorer.
// The lists are configuration, not code: they can be retuned without a
// rebuild and are passed into the scorer as immutable state.
type LexiconConfig struct {
	OpinionCues   []string `yaml:"opinion_cues" mapstructure:"opinion_cues"`
	FactCues      []string `yaml:"fact_cues" mapstructure:"fact_cues"`
	DegreeAdverbs []string `yaml:"degree_adverbs" mapstructure:"degree_adverbs"`
}

// FusionConfig controls how strongly rule-based evidence can override the
// ensemble probability.
type FusionConfig struct {
	Weight float64 `yaml:"weight" mapstructure:"weight"`
}

// AnnotatorConfig selects and configures the dependency annotator backend.
type AnnotatorConfig struct {
	Backend  string        `yaml:"backend" mapstructure:"backend"` // "http"
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// EnsembleConfig selects and sizes the classifier ensemble.
// With the "http" backend, Endpoints may list one URL per independently
// loaded model instance; when only Endpoint is set, Size homogeneous
// instances share it.
type EnsembleConfig struct {
	Backend   string        `yaml:"backend" mapstructure:"backend"` // "http" or "openai"
	Size      int           `yaml:"size" mapstructure:"size"`
	Endpoint  string        `yaml:"endpoint" mapstructure:"endpoint"`
	Endpoints []string      `yaml:"endpoints,omitempty" mapstructure:"endpoints"`
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ConcurrencyConfig bounds the per-sentence fan-out and the request rate
// toward remote inference endpoints.
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls annotation result caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir,omitempty" mapstructure:"dir"` // Empty disables the disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ProxyConfig configures outbound HTTP proxying for remote backends.
type ProxyConfig struct {
	HTTP    string `yaml:"http,omitempty" mapstructure:"http"`
	HTTPS   string `yaml:"https,omitempty" mapstructure:"https"`
	NoProxy string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults, including the tuned Chinese
// cue lists. Hedges and stance markers pull the score down; citation and
// evidence markers pull it up.
func DefaultConfig() *Config {
	return &Config{
		Lexicon: LexiconConfig{
			OpinionCues: []string{
				"觉得", "认为", "相信", "以为", "感觉", "估计", "希望",
				"可能", "也许", "大概", "似乎", "好像", "恐怕", "或许",
				"应该", "不一定", "个人看法", "在我看来", "依我看",
			},
			FactCues: []string{
				"根据", "据统计", "据报道", "数据显示", "研究表明",
				"调查显示", "报告指出", "结果表明", "证实", "记录显示",
				"事实上", "官方公布", "众所周知",
			},
			DegreeAdverbs: []string{
				"很", "非常", "太", "特别", "十分", "极其", "相当",
				"最", "更", "挺", "格外", "尤为", "极为",
			},
		},
		Fusion: FusionConfig{
			Weight: 0.1,
		},
		Annotator: AnnotatorConfig{
			Backend:  "http",
			Endpoint: "http://localhost:5000",
			Timeout:  30 * time.Second,
		},
		Ensemble: EnsembleConfig{
			Backend:  "http",
			Size:     3,
			Endpoint: "http://localhost:8000",
			Timeout:  30 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           8,
			RequestsPerSecond: 20,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
