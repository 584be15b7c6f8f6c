package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"coinpulse/internal/twitterapi"
)

// Searcher is the slice of the search client the resolver needs to probe a
// candidate token.
type Searcher interface {
	Search(ctx context.Context, query, cursor, since, until string) (*twitterapi.Page, error)
}

// Resolver decides whether a symbol is searched tag-style (#SYM) or
// cash-style ($SYM). Decisions are cached for the resolver's lifetime; the
// cache is owned by whoever owns the resolver, not the process.
type Resolver struct {
	searcher  Searcher
	probeDays int

	mu    sync.Mutex
	cache map[string]string
}

func New(s Searcher) *Resolver {
	return &Resolver{searcher: s, probeDays: 1, cache: map[string]string{}}
}

// Resolve returns the search token to use for symbol.
//
// Preference rules, in order: symbols containing a digit prefer the tag
// form, symbols of 7+ characters prefer the tag form, everything else
// prefers the cash form. The preferred token is probed with a short
// lookback; if it yields nothing the fallback is probed once. If both come
// up empty the preferred token is returned anyway and callers see an empty
// corpus downstream.
func (r *Resolver) Resolve(ctx context.Context, symbol string) string {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	r.mu.Lock()
	if tok, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return tok
	}
	r.mu.Unlock()

	preferred, fallback := candidates(key)

	chosen := preferred
	if n := r.probe(ctx, preferred); n > 0 {
		slog.Debug("resolver: preferred token works", "symbol", key, "token", preferred, "posts", n)
	} else if n := r.probe(ctx, fallback); n > 0 {
		slog.Debug("resolver: fallback token works", "symbol", key, "token", fallback, "posts", n)
		chosen = fallback
	} else {
		slog.Warn("resolver: no token yields posts, defaulting to preferred", "symbol", key, "token", preferred)
	}

	r.mu.Lock()
	r.cache[key] = chosen
	r.mu.Unlock()
	return chosen
}

// candidates applies the preference rules.
func candidates(symbol string) (preferred, fallback string) {
	tag, cash := "#"+symbol, "$"+symbol
	if strings.ContainsAny(symbol, "0123456789") {
		return tag, cash
	}
	if len(symbol) >= 7 {
		return tag, cash
	}
	return cash, tag
}

// probe runs one short-lookback search and returns the post count. An
// unreachable backend counts as zero results, not an error.
func (r *Resolver) probe(ctx context.Context, token string) int {
	since := time.Now().AddDate(0, 0, -r.probeDays).Format("2006-01-02")
	page, err := r.searcher.Search(ctx, token, "", since, "")
	if err != nil {
		slog.Warn("resolver: probe failed", "token", token, "error", err)
		return 0
	}
	return len(page.Posts)
}
