package model

import "time"

// Author holds the subset of account fields used for filtering and scoring.
type Author struct {
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	FollowerCount    int    `json:"follower_count"`
	LegacyVerified   bool   `json:"legacy_verified"`
	PlatformVerified bool   `json:"platform_verified"`
}

// Metrics holds per-post engagement counters. Views is normalized to 0 when
// the upstream value is missing or non-numeric.
type Metrics struct {
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
	Quotes  int `json:"quotes"`
	Views   int `json:"views"`
}

// ParsedPost is the normalized view of a raw search result. ID is never
// empty: extraction falls back to a content hash.
type ParsedPost struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
	Metrics   Metrics   `json:"metrics"`
}

// ReasonCategory names the decisive filter rule for a post.
type ReasonCategory string

const (
	ReasonNone          ReasonCategory = "None"
	ReasonNewsAccount   ReasonCategory = "NewsAccount"
	ReasonTeamAccount   ReasonCategory = "TeamAccount"
	ReasonBasicSpam     ReasonCategory = "BasicSpam"
	ReasonAiSpam        ReasonCategory = "AiSpam"
	ReasonAiInformative ReasonCategory = "AiInformative"
)

// FilterVerdict records the inclusion decision for one post.
type FilterVerdict struct {
	Excluded bool           `json:"excluded"`
	Category ReasonCategory `json:"category"`
	Detail   string         `json:"detail"`
}

// Exclusion is one entry of the exclusion log handed to report renderers.
type Exclusion struct {
	PostID      string         `json:"post_id"`
	Username    string         `json:"username"`
	Category    ReasonCategory `json:"category"`
	Detail      string         `json:"detail"`
	Followers   int            `json:"followers"`
	TextPreview string         `json:"text_preview"`
}

// InfluenceScore is derived purely from the author fields.
type InfluenceScore struct {
	Score                  float64 `json:"score"`
	Tier                   string  `json:"tier"` // T1..T4
	BaseWeight             float64 `json:"base_weight"`
	VerificationMultiplier float64 `json:"verification_multiplier"`
}

// ViralBreakdown exposes the per-term contributions of the viral index.
type ViralBreakdown struct {
	RepostsScore float64 `json:"reposts_score"`
	LikesScore   float64 `json:"likes_score"`
	RepliesScore float64 `json:"replies_score"`
	ViewsBonus   float64 `json:"views_bonus"`
}

// ViralIndex is the log-weighted engagement composite.
type ViralIndex struct {
	Index     float64        `json:"index"`
	Breakdown ViralBreakdown `json:"breakdown"`
}

// Sentiment labels.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// SentimentResult is the per-post classification outcome. Score is -1, 0 or
// 1 and always agrees with Label.
type SentimentResult struct {
	Label           string  `json:"label"`
	Score           int     `json:"score"`
	Confidence      float64 `json:"confidence"`
	Topic           string  `json:"topic"`
	Reasoning       string  `json:"reasoning,omitempty"`
	PriceInfluenced bool    `json:"price_influenced"`
	Method          string  `json:"method"` // "llm" or "fallback"
}

// WeightedImpact is the post's contribution to corpus-level sentiment.
type WeightedImpact struct {
	Value float64 `json:"value"`
}

// PostAnalysis bundles a retained post with all derived figures.
type PostAnalysis struct {
	Post      ParsedPost      `json:"post"`
	Sentiment SentimentResult `json:"sentiment"`
	Influence InfluenceScore  `json:"influence"`
	Viral     ViralIndex      `json:"viral"`
	Impact    WeightedImpact  `json:"impact"`
}

// TopicSentiment is one row of the topic/sentiment cross table.
type TopicSentiment struct {
	Topic       string  `json:"topic"`
	Positive    int     `json:"positive"`
	Negative    int     `json:"negative"`
	Neutral     int     `json:"neutral"`
	Total       int     `json:"total"`
	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
}

// PriceContext is optional market data; absence disables price-aware
// prompting but never fails a run.
type PriceContext struct {
	Symbol     string  `json:"symbol"`
	PriceUSD   float64 `json:"price_usd"`
	ChangeRate float64 `json:"change_rate"`
	VolumeUSD  float64 `json:"volume_usd"`
}

// FilterStats counts decisive filter categories across one run, plus posts
// removed by deduplication.
type FilterStats struct {
	NewsAccounts  int `json:"news_accounts"`
	TeamAccounts  int `json:"team_accounts"`
	BasicSpam     int `json:"basic_spam"`
	AiSpam        int `json:"ai_spam"`
	AiInformative int `json:"ai_informative"`
	Retained      int `json:"retained"`
	DedupRemoved  int `json:"dedup_removed"`
}

// TotalFiltered is the number of posts excluded by any filter rule.
func (s FilterStats) TotalFiltered() int {
	return s.NewsAccounts + s.TeamAccounts + s.BasicSpam + s.AiSpam + s.AiInformative
}

// RegistrySummary reports what the team-account registry contributed to a
// run.
type RegistrySummary struct {
	Loaded        bool `json:"loaded"`
	Projects      int  `json:"projects"`
	TotalAccounts int  `json:"total_accounts"`
}

// TopicCount is one entry of the bulk topic discovery result.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// AnalysisResult is the aggregate handed to the presentation collaborator.
// It is created fresh per run and never mutated afterwards.
type AnalysisResult struct {
	Symbol      string    `json:"symbol"`
	SearchToken string    `json:"search_token"`
	Days        int       `json:"days"`
	StartedAt   time.Time `json:"started_at"`

	CollectedPosts int  `json:"collected_posts"`
	RetainedPosts  int  `json:"retained_posts"`
	NoAnalyzable   bool `json:"no_analyzable_content"`

	Posts      []PostAnalysis   `json:"posts"`
	Exclusions []Exclusion      `json:"exclusions"`
	Filter     FilterStats      `json:"filter"`
	Registry   RegistrySummary  `json:"registry"`
	Sentiment  map[string]int   `json:"sentiment"` // label -> count
	Topics     []TopicSentiment `json:"topics"`
	BulkTopics []TopicCount     `json:"bulk_topics,omitempty"`

	TotalWeightedImpact float64        `json:"total_weighted_impact"`
	HighInfluence       []PostAnalysis `json:"high_influence"`
	Viral               []PostAnalysis `json:"viral"`

	Price               *PriceContext `json:"price,omitempty"`
	PriceInfluencedRate float64       `json:"price_influenced_rate"`

	Summary    string `json:"summary,omitempty"`
	TokensUsed int    `json:"tokens_used"`
}
