package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig controls the post search backend.
type SearchConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	RapidAPIKey string `mapstructure:"rapidapi_key"`
	Host        string `mapstructure:"host"` // x-rapidapi-host header value
}

// PriceConfig controls the price-quote backend.
type PriceConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig controls the LLM completion backend.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RegistryConfig points at the team-account registry file (.csv or .yaml).
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// AnalysisConfig holds the collection and pipeline knobs.
type AnalysisConfig struct {
	TargetDays        int    `mapstructure:"target_days"`
	MaxPagesPerWindow int    `mapstructure:"max_pages_per_window"`
	WindowDelay       string `mapstructure:"window_delay"` // duration string, e.g. "2s"
	Workers           int    `mapstructure:"workers"`      // per-post classification fan-out
	SummarySample     int    `mapstructure:"summary_sample"`
	TopicSample       int    `mapstructure:"topic_sample"`
}

// ScoringConfig exposes influence/viral constants as named parameters.
type ScoringConfig struct {
	Tier1Followers int     `mapstructure:"tier1_followers"`
	Tier2Followers int     `mapstructure:"tier2_followers"`
	Tier3Followers int     `mapstructure:"tier3_followers"`
	Tier1Weight    float64 `mapstructure:"tier1_weight"`
	Tier2Weight    float64 `mapstructure:"tier2_weight"`
	Tier3Weight    float64 `mapstructure:"tier3_weight"`
	Tier4Weight    float64 `mapstructure:"tier4_weight"`

	LegacyVerifiedBonus   float64 `mapstructure:"legacy_verified_bonus"`
	PlatformVerifiedBonus float64 `mapstructure:"platform_verified_bonus"`

	HighInfluenceThreshold float64 `mapstructure:"high_influence_threshold"`
	ViralThreshold         float64 `mapstructure:"viral_threshold"`
}

// ServeConfig lists the symbols analyzed periodically in serve mode.
type ServeConfig struct {
	Symbols   []string `mapstructure:"symbols"`
	Interval  string   `mapstructure:"interval"`   // duration string, e.g. "1h"
	ResultTTL string   `mapstructure:"result_ttl"` // duration string, e.g. "168h"
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Search   SearchConfig   `mapstructure:"search"`
	Price    PriceConfig    `mapstructure:"price"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Registry RegistryConfig `mapstructure:"registry"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Serve    ServeConfig    `mapstructure:"serve"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://twitter-api-v1-1-enterprise.p.rapidapi.com/base/apitools/search"
	}
	if c.Search.Host == "" {
		c.Search.Host = "twitter-api-v1-1-enterprise.p.rapidapi.com"
	}
	if c.Price.BaseURL == "" {
		c.Price.BaseURL = "https://www.coinex.com/res/vote2/project"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Registry.Path == "" {
		c.Registry.Path = "data/team_accounts.csv"
	}
	if c.Analysis.TargetDays == 0 {
		c.Analysis.TargetDays = 7
	}
	if c.Analysis.MaxPagesPerWindow == 0 {
		c.Analysis.MaxPagesPerWindow = 3
	}
	if c.Analysis.WindowDelay == "" {
		c.Analysis.WindowDelay = "2s"
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 4
	}
	if c.Analysis.SummarySample == 0 {
		c.Analysis.SummarySample = 15
	}
	if c.Analysis.TopicSample == 0 {
		c.Analysis.TopicSample = 20
	}
	if c.Scoring.Tier1Followers == 0 {
		c.Scoring.Tier1Followers = 100000
	}
	if c.Scoring.Tier2Followers == 0 {
		c.Scoring.Tier2Followers = 10000
	}
	if c.Scoring.Tier3Followers == 0 {
		c.Scoring.Tier3Followers = 1000
	}
	if c.Scoring.Tier1Weight == 0 {
		c.Scoring.Tier1Weight = 1.5
	}
	if c.Scoring.Tier2Weight == 0 {
		c.Scoring.Tier2Weight = 1.0
	}
	if c.Scoring.Tier3Weight == 0 {
		c.Scoring.Tier3Weight = 0.7
	}
	if c.Scoring.Tier4Weight == 0 {
		c.Scoring.Tier4Weight = 0.5
	}
	if c.Scoring.LegacyVerifiedBonus == 0 {
		c.Scoring.LegacyVerifiedBonus = 1.2
	}
	if c.Scoring.PlatformVerifiedBonus == 0 {
		c.Scoring.PlatformVerifiedBonus = 1.1
	}
	if c.Scoring.HighInfluenceThreshold == 0 {
		c.Scoring.HighInfluenceThreshold = 1.0
	}
	if c.Scoring.ViralThreshold == 0 {
		c.Scoring.ViralThreshold = 5.0
	}
	if c.Serve.Interval == "" {
		c.Serve.Interval = "1h"
	}
	if c.Serve.ResultTTL == "" {
		c.Serve.ResultTTL = "168h"
	}
}
