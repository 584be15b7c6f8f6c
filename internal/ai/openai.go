package ai

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"coinpulse/internal/coinex"
	"coinpulse/internal/filter"
	"coinpulse/internal/model"
)

// Analyzer defines the LLM surface used by the pipeline. All methods are
// best-effort: callers degrade to deterministic fallbacks on error.
type Analyzer interface {
	filter.Classifier
	// AnalyzeSentiment runs the combined sentiment+topic classification for
	// one post, optionally price-aware.
	AnalyzeSentiment(ctx context.Context, text string, price *model.PriceContext) (model.SentimentResult, error)
	// DiscoverTopics returns up to 8 ranked topics with post counts over a
	// capped sample of the corpus.
	DiscoverTopics(ctx context.Context, texts []string, symbol string) ([]model.TopicCount, error)
	// Summarize produces a short corpus-level summary.
	Summarize(ctx context.Context, texts []string, symbol string, price *model.PriceContext) (string, error)
	// TokensUsed reports the accumulated token usage across all calls.
	TokensUsed() int
}

// OpenAIClient implements Analyzer using the Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	tokens atomic.Int64
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if cfg.Model == "" {
		panic("OpenAI model must be specified")
	}
	return &OpenAIClient{client: c, model: cfg.Model}
}

func (o *OpenAIClient) TokensUsed() int {
	return int(o.tokens.Load())
}

// ClassifyContent asks the two yes/no filter questions: is the post
// spam/giveaway content, and is it purely informative with no sentiment.
func (o *OpenAIClient) ClassifyContent(ctx context.Context, text, username string) (filter.ContentVerdict, error) {
	prompt := fmt.Sprintf(`Analyze this post to determine if it should be EXCLUDED from sentiment analysis.

Post: %q
Username: @%s

EXCLUDE if the post is:

1. SPAM/GIVEAWAY content:
- Asks for reposts, likes, follows for rewards
- Asks users to "drop wallet", "tag friends", etc.
- Promotes giveaways, airdrops, presales
- Very low quality with minimal meaning
- Just lists many token symbols without context

2. PURELY INFORMATIVE content (no sentiment):
- News reports without opinion/emotion
- Data/price updates without sentiment
- Technical analysis without clear bullish/bearish stance
- Factual announcements from official accounts

INCLUDE if the post has personal opinions, emotions, bullish/bearish
sentiment, community discussion, speculation, or emotional reactions.

Respond EXACTLY in this format:
SPAM: [YES/NO]
INFORMATIVE: [YES/NO]
REASON: [Very brief explanation, max 20 chars]`, text, username)

	content, err := o.create(ctx, prompt, 50, 0.1)
	if err != nil {
		return filter.ContentVerdict{}, err
	}
	return parseContentVerdict(content), nil
}

// parseContentVerdict is line-oriented and tolerant: any line it cannot
// understand is ignored and the defaults (not spam, not informative) stand.
func parseContentVerdict(content string) filter.ContentVerdict {
	v := filter.ContentVerdict{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SPAM:"):
			v.Spam = strings.Contains(strings.ToUpper(line), "YES")
		case strings.HasPrefix(line, "INFORMATIVE:"):
			v.Informative = strings.Contains(strings.ToUpper(line), "YES")
		case strings.HasPrefix(line, "REASON:"):
			v.Reason = truncateReason(strings.TrimSpace(strings.TrimPrefix(line, "REASON:")), 20)
		}
	}
	return v
}

func truncateReason(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// AnalyzeSentiment runs the combined sentiment+topic prompt. An empty
// response is reported as an error so the caller applies the neutral
// fallback.
func (o *OpenAIClient) AnalyzeSentiment(ctx context.Context, text string, price *model.PriceContext) (model.SentimentResult, error) {
	prompt := fmt.Sprintf(`Analyze this cryptocurrency post for BOTH sentiment and topic. Consider crypto slang, sarcasm, market context, and community dynamics.
%s
Post: %q

SENTIMENT Guidelines:
NEGATIVE: security issues (hack, stolen funds, exploit, malware), legal/regulatory trouble (bankruptcy, enforcement, fraud), market risks (delisting, suspension), token dilution (mint, unlock, vesting release), general negative (dump, crash, scam, rug pull)
POSITIVE: general positive (moon, pump, bullish, gem, listing, airdrop), product development (launch, upgrade, partnership)
NEUTRAL: factual reporting, technical updates (hard fork, migration, tokenomics change)

TOPIC: choose the MOST SPECIFIC sub-topic. Prefer "contract exploit" over
"tech risk", "CEO departure" over "community concern", "major partnership"
over "community optimism". Max 8 characters for the topic name.

Respond EXACTLY in this format:
SENTIMENT: [POSITIVE/NEGATIVE/NEUTRAL]
CONFIDENCE: [0.0-1.0]
TOPIC: [specific topic, max 8 chars]
REASON: [One sentence explanation including price context influence if applicable]`, priceBlock(price), text)

	content, err := o.create(ctx, prompt, 120, 0.1)
	if err != nil {
		return model.SentimentResult{}, err
	}
	if strings.TrimSpace(content) == "" {
		return model.SentimentResult{}, fmt.Errorf("ai: empty sentiment response")
	}
	res := parseSentimentResponse(content)
	res.PriceInfluenced = price != nil
	return res, nil
}

// priceBlock renders the advisory market-context section of the sentiment
// prompt, or "" when no price data is available.
func priceBlock(price *model.PriceContext) string {
	if price == nil {
		return ""
	}
	direction := "flat"
	if price.ChangeRate > 0 {
		direction = "up"
	} else if price.ChangeRate < 0 {
		direction = "down"
	}
	return fmt.Sprintf(`
MARKET CONTEXT: the token moved %s over the last 24h, a %s swing of %.2f%%.
When the price is up, neutral or ambiguous comments may lean positive; when
it is down they may lean negative; when stable, judge the raw sentiment.
`, direction, coinex.MovementLabel(price.ChangeRate), price.ChangeRate*100)
}

// parseSentimentResponse parses the structured four-line format. Missing
// sentiment falls back to scanning the raw text for the literal labels;
// everything else defaults rather than erroring.
func parseSentimentResponse(content string) model.SentimentResult {
	res := model.SentimentResult{Confidence: 0.5, Method: "llm"}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SENTIMENT:"):
			res.Label = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "SENTIMENT:")))
		case strings.HasPrefix(line, "CONFIDENCE:"):
			res.Confidence = parseConfidence(strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")))
		case strings.HasPrefix(line, "TOPIC:"):
			res.Topic = cleanTopic(strings.TrimSpace(strings.TrimPrefix(line, "TOPIC:")))
		case strings.HasPrefix(line, "REASON:"):
			res.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
		}
	}

	switch res.Label {
	case model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral:
	default:
		upper := strings.ToUpper(content)
		switch {
		case strings.Contains(upper, model.SentimentNegative):
			res.Label = model.SentimentNegative
		case strings.Contains(upper, model.SentimentPositive):
			res.Label = model.SentimentPositive
		default:
			res.Label = model.SentimentNeutral
		}
	}

	switch res.Label {
	case model.SentimentPositive:
		res.Score = 1
	case model.SentimentNegative:
		res.Score = -1
	}
	return res
}

func parseConfidence(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0.5
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func cleanTopic(topic string) string {
	topic = strings.TrimSpace(strings.TrimPrefix(topic, "-"))
	r := []rune(topic)
	if len(r) > 8 {
		topic = string(r[:8])
	}
	return topic
}

// DiscoverTopics asks for a ranked topic list over a capped sample,
// formatted "N. topic - count" one per line.
func (o *OpenAIClient) DiscoverTopics(ctx context.Context, texts []string, symbol string) ([]model.TopicCount, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	b := &strings.Builder{}
	for i, t := range texts {
		if i >= 20 {
			break
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, clip(t, 100))
	}
	prompt := fmt.Sprintf(`Analyze the topic distribution of these posts about %s.

Posts:
%s
Reply in this exact format:
1. [topic name] - [post count]
2. [topic name] - [post count]

Rules: topic names at most 8 characters, sorted by post count descending,
at most 8 topics.`, symbol, b.String())

	content, err := o.create(ctx, prompt, 400, 0.3)
	if err != nil {
		return nil, err
	}
	return parseTopicList(content), nil
}

func parseTopicList(content string) []model.TopicCount {
	var out []model.TopicCount
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		_, rest, ok := strings.Cut(line, ". ")
		if !ok {
			continue
		}
		name, countStr, ok := strings.Cut(rest, " - ")
		if !ok {
			continue
		}
		count := 0
		for _, r := range countStr {
			if r >= '0' && r <= '9' {
				count = count*10 + int(r-'0')
			}
		}
		name = strings.Trim(strings.TrimSpace(name), "[]")
		if name == "" || count <= 0 {
			continue
		}
		out = append(out, model.TopicCount{Topic: name, Count: count})
		if len(out) >= 8 {
			break
		}
	}
	return out
}

// Summarize produces a short analyst summary of a post sample.
func (o *OpenAIClient) Summarize(ctx context.Context, texts []string, symbol string, price *model.PriceContext) (string, error) {
	if len(texts) == 0 {
		return "", nil
	}
	b := &strings.Builder{}
	for _, t := range texts {
		fmt.Fprintf(b, "- %s\n", clip(t, 120))
	}
	priceLine := ""
	if price != nil {
		priceLine = fmt.Sprintf("Current market: %s at $%.6f (24h %+.2f%%). Consider the price move's effect on community mood.\n", symbol, price.PriceUSD, price.ChangeRate*100)
	}
	prompt := fmt.Sprintf(`Analyze these %d posts about %s and provide a combined summary.
%s
Post sample:
%s
Cover, in point form: overall mood and main discussion topics, the main
concerns or excitement points, and any mentioned risk factors (technical,
market, regulatory). Keep it concise, at most 3-4 sentences, focused on
insights useful to an investor.`, len(texts), symbol, priceLine, b.String())

	content, err := o.create(ctx, prompt, 300, 0.3)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// create issues one completion request. Parameter shape depends on the
// model family: gpt-5 models take max_completion_tokens and reject an
// explicit temperature.
func (o *OpenAIClient) create(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if strings.HasPrefix(o.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = temperature
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	o.tokens.Add(int64(resp.Usage.TotalTokens))
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
