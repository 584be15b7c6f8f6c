package collector

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"coinpulse/internal/twitterapi"
)

// Searcher is the slice of the search client the collector needs.
type Searcher interface {
	Search(ctx context.Context, query, cursor, since, until string) (*twitterapi.Page, error)
}

// Collector assembles a corpus from the paginated search API. Pages within
// a window are strictly sequential (each request depends on the previous
// page's cursor); windows are fetched most recent first with a pacing
// limiter between upstream calls.
type Collector struct {
	searcher Searcher
	maxPages int
	limiter  *rate.Limiter
}

func New(s Searcher, maxPagesPerWindow int, delay time.Duration) *Collector {
	if maxPagesPerWindow <= 0 {
		maxPagesPerWindow = 3
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Collector{
		searcher: s,
		maxPages: maxPagesPerWindow,
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
	}
}

// CollectWindow fetches up to maxPages pages for one window, following the
// bottom cursor. It stops on an empty page, a missing cursor, a transport
// error, or the page bound; partial results are always returned.
func (c *Collector) CollectWindow(ctx context.Context, query string, w Window) ([]twitterapi.RawPost, error) {
	var posts []twitterapi.RawPost
	cursor := ""
	for page := 0; page < c.maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return posts, err
		}
		p, err := c.searcher.Search(ctx, query, cursor, w.SinceDate(), w.UntilDate())
		if err != nil {
			return posts, err
		}
		if len(p.Posts) == 0 {
			break
		}
		posts = append(posts, p.Posts...)
		cursor = p.Next()
		if cursor == "" {
			break
		}
	}
	return posts, nil
}

// Collect fetches all windows in order. A window that errors keeps its
// partial results and the loop continues; failure is per-window, never
// fatal to the run. Cancellation aborts between calls.
func (c *Collector) Collect(ctx context.Context, query string, windows []Window) [][]twitterapi.RawPost {
	out := make([][]twitterapi.RawPost, 0, len(windows))
	for i, w := range windows {
		posts, err := c.CollectWindow(ctx, query, w)
		if err != nil {
			slog.Warn("collector: window failed, keeping partial results",
				"window", i+1, "since", w.SinceDate(), "until", w.UntilDate(), "posts", len(posts), "error", err)
		} else {
			slog.Info("collector: window complete",
				"window", i+1, "since", w.SinceDate(), "until", w.UntilDate(), "posts", len(posts))
		}
		out = append(out, posts)
		if ctx.Err() != nil {
			break
		}
	}
	return out
}
