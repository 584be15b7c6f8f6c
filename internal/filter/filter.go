package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"coinpulse/internal/model"
	"coinpulse/internal/registry"
)

// newsAccounts is a fixed denylist of news/data accounts whose posts carry
// no independent opinion.
var newsAccounts = map[string]struct{}{}

func init() {
	for _, a := range []string{
		"coindesk", "cointelegraph", "theblock__", "watcherguru", "blockworks_",
		"decryptmedia", "foresight_news", "blockbeatsasia", "odailychina", "panewscn",
		"jinsefinance", "whale_alert", "lookonchain", "coinmarketcap", "coingecko",
		"glassnode", "defillama", "peckshieldalert", "wublockchain", "thedefiant",
		"decrypt", "bitcoinmagazine", "cryptopotato", "ambcrypto", "cryptoslate",
		"newsbtc", "beincrypto", "cryptonews", "bitcoinist", "santimentfeed",
		"nansen_ai", "delphi_digital", "messaricrypto", "chainalysis", "elliptic",
		"cryptoquant_com", "intotheblock", "coinmetrics", "cryptocompare",
	} {
		newsAccounts[a] = struct{}{}
	}
}

// ContentVerdict is the parsed answer of the AI content filter.
type ContentVerdict struct {
	Spam        bool
	Informative bool
	Reason      string
}

// Classifier answers the two AI filter questions for one post. A nil
// Classifier disables the AI steps entirely.
type Classifier interface {
	ClassifyContent(ctx context.Context, text, username string) (ContentVerdict, error)
}

// Chain evaluates the exclusion rules in fixed order, short-circuiting on
// the first match: news account, team account, basic spam, AI spam, AI
// informative. Category counters are safe for concurrent use.
type Chain struct {
	registry   *registry.TeamRegistry
	classifier Classifier

	mu    sync.Mutex
	stats model.FilterStats
}

func NewChain(reg *registry.TeamRegistry, cls Classifier) *Chain {
	if reg == nil {
		reg = registry.Empty()
	}
	return &Chain{registry: reg, classifier: cls}
}

// Classify produces the verdict for one post. AI failures never exclude:
// a malformed or missing classifier response resolves to inclusion.
func (c *Chain) Classify(ctx context.Context, post model.ParsedPost, symbol string) model.FilterVerdict {
	username := normalizeUsername(post.Author.Username)

	if _, ok := newsAccounts[username]; ok {
		return c.record(model.ReasonNewsAccount, "@"+username)
	}

	if c.registry.IsTeamAccount(username, symbol) {
		return c.record(model.ReasonTeamAccount, "@"+username)
	}

	if spam, reason := DetectBasicSpam(post.Text); spam {
		return c.record(model.ReasonBasicSpam, reason)
	}

	if c.classifier != nil {
		v, err := c.classifier.ClassifyContent(ctx, post.Text, username)
		if err != nil {
			slog.Warn("filter: ai classifier failed, including post", "post", post.ID, "error", err)
		} else if v.Spam {
			return c.record(model.ReasonAiSpam, v.Reason)
		} else if v.Informative {
			return c.record(model.ReasonAiInformative, v.Reason)
		}
	}

	return c.record(model.ReasonNone, "")
}

func (c *Chain) record(cat model.ReasonCategory, detail string) model.FilterVerdict {
	c.mu.Lock()
	switch cat {
	case model.ReasonNewsAccount:
		c.stats.NewsAccounts++
	case model.ReasonTeamAccount:
		c.stats.TeamAccounts++
	case model.ReasonBasicSpam:
		c.stats.BasicSpam++
	case model.ReasonAiSpam:
		c.stats.AiSpam++
	case model.ReasonAiInformative:
		c.stats.AiInformative++
	case model.ReasonNone:
		c.stats.Retained++
	}
	c.mu.Unlock()
	return model.FilterVerdict{
		Excluded: cat != model.ReasonNone,
		Category: cat,
		Detail:   detail,
	}
}

// Stats returns a snapshot of the category counters.
func (c *Chain) Stats() model.FilterStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Exclusion builds the exclusion-log entry for an excluded post.
func Exclusion(post model.ParsedPost, v model.FilterVerdict) model.Exclusion {
	preview := post.Text
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return model.Exclusion{
		PostID:      post.ID,
		Username:    post.Author.Username,
		Category:    v.Category,
		Detail:      v.Detail,
		Followers:   post.Author.FollowerCount,
		TextPreview: preview,
	}
}

func normalizeUsername(u string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(u)), "@")
}

// Describe renders a verdict for logs and reports.
func Describe(v model.FilterVerdict) string {
	if !v.Excluded {
		return "included"
	}
	return fmt.Sprintf("%s: %s", v.Category, v.Detail)
}
