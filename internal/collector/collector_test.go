package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinpulse/internal/twitterapi"
)

// scriptedSearcher plays back pages in order; an entry with err set fails
// that call.
type scriptedSearcher struct {
	pages []scriptedPage
	calls int
}

type scriptedPage struct {
	page *twitterapi.Page
	err  error
}

func (s *scriptedSearcher) Search(ctx context.Context, query, cursor, since, until string) (*twitterapi.Page, error) {
	if s.calls >= len(s.pages) {
		return &twitterapi.Page{Cursors: map[string]string{}}, nil
	}
	p := s.pages[s.calls]
	s.calls++
	return p.page, p.err
}

func pageWith(t *testing.T, n int, bottomCursor string) *twitterapi.Page {
	t.Helper()
	posts := make([]twitterapi.RawPost, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, rawPost(t, "", "post"))
	}
	cursors := map[string]string{}
	if bottomCursor != "" {
		cursors["bottom"] = bottomCursor
	}
	return &twitterapi.Page{Posts: posts, Cursors: cursors}
}

func TestCollectWindowFollowsCursorUntilMissing(t *testing.T) {
	s := &scriptedSearcher{pages: []scriptedPage{
		{page: pageWith(t, 2, "cur1")},
		{page: pageWith(t, 2, "")},
	}}
	c := New(s, 5, time.Millisecond)
	posts, err := c.CollectWindow(context.Background(), "$BTC", Window{Since: time.Now()})
	if err != nil {
		t.Fatalf("CollectWindow error: %v", err)
	}
	if len(posts) != 4 {
		t.Errorf("got %d posts, want 4", len(posts))
	}
	if s.calls != 2 {
		t.Errorf("search called %d times, want 2", s.calls)
	}
}

func TestCollectWindowStopsOnEmptyPage(t *testing.T) {
	s := &scriptedSearcher{pages: []scriptedPage{
		{page: pageWith(t, 0, "cur1")},
	}}
	c := New(s, 5, time.Millisecond)
	posts, err := c.CollectWindow(context.Background(), "$BTC", Window{Since: time.Now()})
	if err != nil || len(posts) != 0 {
		t.Fatalf("got %d posts, err %v; want empty, nil", len(posts), err)
	}
	if s.calls != 1 {
		t.Errorf("search called %d times, want 1", s.calls)
	}
}

func TestCollectWindowHonorsPageBound(t *testing.T) {
	s := &scriptedSearcher{pages: []scriptedPage{
		{page: pageWith(t, 1, "c1")},
		{page: pageWith(t, 1, "c2")},
		{page: pageWith(t, 1, "c3")},
		{page: pageWith(t, 1, "c4")},
	}}
	c := New(s, 2, time.Millisecond)
	posts, err := c.CollectWindow(context.Background(), "$BTC", Window{Since: time.Now()})
	if err != nil {
		t.Fatalf("CollectWindow error: %v", err)
	}
	if len(posts) != 2 || s.calls != 2 {
		t.Errorf("posts=%d calls=%d, want 2 and 2", len(posts), s.calls)
	}
}

func TestCollectKeepsPartialResultsOnWindowFailure(t *testing.T) {
	s := &scriptedSearcher{pages: []scriptedPage{
		{page: pageWith(t, 2, "cur1")},
		{err: errors.New("boom")},
		{page: pageWith(t, 3, "")},
	}}
	c := New(s, 5, time.Millisecond)
	now := time.Now()
	windows := []Window{
		{Since: now.AddDate(0, 0, -3)},
		{Since: now.AddDate(0, 0, -7), Until: now.AddDate(0, 0, -3)},
	}
	out := c.Collect(context.Background(), "$BTC", windows)
	if len(out) != 2 {
		t.Fatalf("got %d windows, want 2", len(out))
	}
	// window 1 got page one then errored; partial results kept
	if len(out[0]) != 2 {
		t.Errorf("window 1 posts = %d, want 2", len(out[0]))
	}
	// window 2 still ran after window 1 failed
	if len(out[1]) != 3 {
		t.Errorf("window 2 posts = %d, want 3", len(out[1]))
	}
}

func TestCollectAbortsBetweenCallsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &scriptedSearcher{pages: []scriptedPage{
		{page: pageWith(t, 2, "cur1")},
	}}
	c := New(s, 5, time.Second)
	out := c.Collect(ctx, "$BTC", []Window{{Since: time.Now()}, {Since: time.Now()}})
	// the limiter wait fails immediately; no window completes
	for i, w := range out {
		if len(w) != 0 {
			t.Errorf("window %d collected %d posts after cancel", i, len(w))
		}
	}
	if s.calls != 0 {
		t.Errorf("search called %d times after cancel, want 0", s.calls)
	}
}
