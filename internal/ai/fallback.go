package ai

import (
	"coinpulse/internal/model"
	"coinpulse/internal/topics"
)

// DegradedSentiment is the documented per-post fallback applied when an
// LLM call fails or its output cannot be parsed. The post stays in the
// corpus with a neutral, zero-impact result.
func DegradedSentiment() model.SentimentResult {
	return model.SentimentResult{
		Label:      model.SentimentNeutral,
		Score:      0,
		Confidence: 0.5,
		Topic:      topics.Unclassified,
		Method:     "fallback",
	}
}

// KeywordSentiment is the no-LLM path: neutral sentiment with the topic
// resolved from the ordered keyword tables.
func KeywordSentiment(text string) model.SentimentResult {
	return model.SentimentResult{
		Label:      model.SentimentNeutral,
		Score:      0,
		Confidence: 0.5,
		Topic:      topics.DetectFromKeywords(text),
		Method:     "fallback",
	}
}
