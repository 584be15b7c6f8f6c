package analyze

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"coinpulse/internal/ai"
	"coinpulse/internal/collector"
	"coinpulse/internal/config"
	"coinpulse/internal/filter"
	"coinpulse/internal/model"
	"coinpulse/internal/registry"
	"coinpulse/internal/resolver"
	"coinpulse/internal/score"
	"coinpulse/internal/topics"
)

// PriceProvider supplies optional market context; nil results disable
// price-aware prompting for the run.
type PriceProvider interface {
	PriceContext(ctx context.Context, symbol string) *model.PriceContext
}

// Analyzer runs one bounded analysis batch: resolve the search token,
// collect and dedupe the corpus, filter, classify, score, aggregate.
type Analyzer struct {
	Resolver  *resolver.Resolver
	Collector *collector.Collector
	Price     PriceProvider         // optional
	AI        ai.Analyzer           // optional; nil disables LLM steps
	Registry  *registry.TeamRegistry
	Scorer    *score.Engine
	Analysis  config.AnalysisConfig
	Scoring   config.ScoringConfig
}

// Run executes the pipeline for symbol over the last days days. An empty
// corpus is a success state, reported via AnalysisResult.NoAnalyzable.
func (a *Analyzer) Run(ctx context.Context, symbol string, days int) (*model.AnalysisResult, error) {
	if days <= 0 {
		days = a.Analysis.TargetDays
	}
	started := time.Now()

	token := a.Resolver.Resolve(ctx, symbol)
	slog.Info("analyze: starting run", "symbol", symbol, "token", token, "days", days)

	windows := collector.SplitWindows(started, days)
	rawWindows := a.Collector.Collect(ctx, token, windows)
	corpus, dedupRemoved := collector.Merge(rawWindows)
	slog.Info("analyze: corpus assembled", "posts", len(corpus), "dedup_removed", dedupRemoved)

	var price *model.PriceContext
	if a.Price != nil {
		price = a.Price.PriceContext(ctx, symbol)
	}

	var cls filter.Classifier
	if a.AI != nil {
		cls = a.AI
	}
	chain := filter.NewChain(a.Registry, cls)

	var retained []model.ParsedPost
	var exclusions []model.Exclusion
	for _, post := range corpus {
		verdict := chain.Classify(ctx, post, symbol)
		if verdict.Excluded {
			exclusions = append(exclusions, filter.Exclusion(post, verdict))
			continue
		}
		retained = append(retained, post)
	}

	result := &model.AnalysisResult{
		Symbol:         symbol,
		SearchToken:    token,
		Days:           days,
		StartedAt:      started,
		CollectedPosts: len(corpus),
		RetainedPosts:  len(retained),
		Exclusions:     exclusions,
		Price:          price,
		Sentiment: map[string]int{
			model.SentimentPositive: 0,
			model.SentimentNegative: 0,
			model.SentimentNeutral:  0,
		},
	}
	stats := chain.Stats()
	stats.DedupRemoved = dedupRemoved
	result.Filter = stats
	if a.Registry != nil {
		rs := a.Registry.Stats()
		result.Registry = model.RegistrySummary{
			Loaded:        rs.Loaded,
			Projects:      rs.Projects,
			TotalAccounts: rs.TotalAccounts,
		}
	}

	if len(retained) == 0 {
		result.NoAnalyzable = true
		result.TokensUsed = a.tokensUsed()
		slog.Info("analyze: no analyzable content", "symbol", symbol, "collected", len(corpus))
		return result, nil
	}

	texts := make([]string, len(retained))
	for i, p := range retained {
		texts[i] = p.Text
	}

	// Bulk topic discovery is summary-only and must never block the
	// per-post pipeline.
	if a.AI != nil {
		sample := capSlice(texts, a.Analysis.TopicSample)
		if bulk, err := a.AI.DiscoverTopics(ctx, sample, symbol); err != nil {
			slog.Warn("analyze: bulk topic discovery failed", "error", err)
		} else {
			result.BulkTopics = bulk
		}
	}

	result.Posts = a.classifyAll(ctx, retained, price)
	a.aggregate(result)

	if a.AI != nil {
		sample := capSlice(texts, a.Analysis.SummarySample)
		if summary, err := a.AI.Summarize(ctx, sample, symbol, price); err != nil {
			slog.Warn("analyze: summary failed", "error", err)
		} else {
			result.Summary = summary
		}
	}

	result.TokensUsed = a.tokensUsed()
	slog.Info("analyze: run complete", "symbol", symbol,
		"retained", result.RetainedPosts, "excluded", stats.TotalFiltered(),
		"impact", result.TotalWeightedImpact, "tokens", result.TokensUsed)
	return result, nil
}

// classifyAll scores every retained post. Posts have no data dependency on
// each other, so classification fans out over a bounded worker group;
// results land in an index-addressed slice so output order is
// deterministic.
func (a *Analyzer) classifyAll(ctx context.Context, posts []model.ParsedPost, price *model.PriceContext) []model.PostAnalysis {
	workers := a.Analysis.Workers
	if workers <= 0 {
		workers = 1
	}
	out := make([]model.PostAnalysis, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			sentiment := a.sentimentFor(gctx, post.Text, price)
			influence := a.Scorer.Influence(post.Author)
			viral := a.Scorer.Viral(post.Metrics)
			impact := a.Scorer.Impact(sentiment, influence, viral)
			out[i] = model.PostAnalysis{
				Post:      post,
				Sentiment: sentiment,
				Influence: influence,
				Viral:     viral,
				Impact:    impact,
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// sentimentFor applies the classification ladder for one post: LLM when
// configured, the documented neutral degrade on LLM failure, keyword-only
// otherwise. Failures never propagate.
func (a *Analyzer) sentimentFor(ctx context.Context, text string, price *model.PriceContext) model.SentimentResult {
	if a.AI == nil {
		return ai.KeywordSentiment(text)
	}
	res, err := a.AI.AnalyzeSentiment(ctx, text, price)
	if err != nil {
		slog.Warn("analyze: sentiment degraded to neutral", "error", err)
		return ai.DegradedSentiment()
	}
	if res.Topic == "" {
		res.Topic = topics.DetectFromKeywords(text)
	}
	return res
}

func (a *Analyzer) tokensUsed() int {
	if a.AI == nil {
		return 0
	}
	return a.AI.TokensUsed()
}

func capSlice(s []string, n int) []string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
