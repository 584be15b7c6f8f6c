package topics

import (
	"sort"
	"strings"

	"coinpulse/internal/model"
)

// Unclassified is the terminal topic fallback.
const Unclassified = "unclassified"

type keywordTable struct {
	topic    string
	keywords []string
}

// specificTopics are checked before the general table; ordering matters, so
// these are slices rather than maps.
var specificTopics = []keywordTable{
	{"listing", []string{"listing", "will list", "lists on", "new coin"}},
	{"delist", []string{"delist", "halt trading", "stop trading"}},
	{"suspend", []string{"suspend", "withdrawal", "deposits paused"}},
	{"airdrop", []string{"airdrop", "free claim"}},
	{"mint", []string{"mint", "supply increase", "inflationary"}},
	{"unlock", []string{"unlock", "vesting", "vest", "cliff"}},
	{"hack", []string{"hack", "exploit", "attack", "drained"}},
	{"rug pull", []string{"rug pull", "rug", "exit scam"}},
	{"predict", []string{"prediction", "price target", "target price"}},
	{"TA", []string{"chart", "support", "resistance", "breakout"}},
	{"holding", []string{"my bag", "position", "entry price"}},
	{"dev", []string{"development", "roadmap", "mainnet", "testnet"}},
	{"partner", []string{"partnership", "collab", "alliance", "integration"}},
}

var generalTopics = []keywordTable{
	{"predict", []string{"bullish", "bearish", "forecast", "moon"}},
	{"holding", []string{"bought", "sold", "accumulate", "hodl", "hold"}},
	{"TA", []string{"trend", "pattern", "indicator", "volume"}},
	{"strategy", []string{"strategy", "entry", "exit", "trade plan"}},
	{"dev", []string{"update", "release", "launch", "feature"}},
	{"community", []string{"community", "event", "ama", "discussion"}},
}

// DetectFromKeywords resolves a topic without the LLM: the specific table
// is checked before the general one, then a few coarse buckets apply, then
// Unclassified.
func DetectFromKeywords(text string) string {
	lower := strings.ToLower(text)

	for _, t := range specificTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.topic
			}
		}
	}
	for _, t := range generalTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.topic
			}
		}
	}

	switch {
	case containsAny(lower, "price", "pump", "dump", "dip", "ath"):
		return "price"
	case containsAny(lower, "tech", "dev", "code", "upgrade"):
		return "tech"
	case containsAny(lower, "partner", "cooperation"):
		return "partner"
	case containsAny(lower, "airdrop", "free"):
		return "airdrop"
	}
	return Unclassified
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Distribution cross-tabulates sentiment per topic with percentages. Rows
// are sorted by total descending, topic name as tiebreak, so the table is
// deterministic regardless of classification order.
func Distribution(posts []model.PostAnalysis) []model.TopicSentiment {
	byTopic := map[string]*model.TopicSentiment{}
	for _, p := range posts {
		topic := p.Sentiment.Topic
		if topic == "" {
			topic = Unclassified
		}
		row, ok := byTopic[topic]
		if !ok {
			row = &model.TopicSentiment{Topic: topic}
			byTopic[topic] = row
		}
		switch p.Sentiment.Label {
		case model.SentimentPositive:
			row.Positive++
		case model.SentimentNegative:
			row.Negative++
		default:
			row.Neutral++
		}
		row.Total++
	}

	out := make([]model.TopicSentiment, 0, len(byTopic))
	for _, row := range byTopic {
		if row.Total > 0 {
			row.PositivePct = float64(row.Positive) / float64(row.Total) * 100
			row.NegativePct = float64(row.Negative) / float64(row.Total) * 100
			row.NeutralPct = float64(row.Neutral) / float64(row.Total) * 100
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
