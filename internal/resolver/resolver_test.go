package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"coinpulse/internal/twitterapi"
)

// probeSearcher returns a fixed post count per query and records calls.
type probeSearcher struct {
	hits    map[string]int
	err     error
	queries []string
}

func (s *probeSearcher) Search(ctx context.Context, query, cursor, since, until string) (*twitterapi.Page, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	posts := make([]twitterapi.RawPost, 0, s.hits[query])
	for i := 0; i < s.hits[query]; i++ {
		var p twitterapi.RawPost
		if err := json.Unmarshal([]byte(`{"rest_id":"1","__typename":"Tweet"}`), &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return &twitterapi.Page{Posts: posts, Cursors: map[string]string{}}, nil
}

func TestCandidates(t *testing.T) {
	cases := []struct {
		symbol    string
		preferred string
		fallback  string
	}{
		{"BTC", "$BTC", "#BTC"},
		{"DOGE", "$DOGE", "#DOGE"},
		{"SHIB2", "#SHIB2", "$SHIB2"},
		{"AIRDROP7", "#AIRDROP7", "$AIRDROP7"},
		{"POLYGON", "#POLYGON", "$POLYGON"},
		{"BITCOIN", "#BITCOIN", "$BITCOIN"},
	}
	for _, c := range cases {
		pref, fb := candidates(c.symbol)
		if pref != c.preferred || fb != c.fallback {
			t.Errorf("candidates(%s) = %s, %s; want %s, %s", c.symbol, pref, fb, c.preferred, c.fallback)
		}
	}
}

func TestResolvePreferredWins(t *testing.T) {
	s := &probeSearcher{hits: map[string]int{"$BTC": 3}}
	r := New(s)
	if got := r.Resolve(context.Background(), "btc"); got != "$BTC" {
		t.Errorf("Resolve = %s, want $BTC", got)
	}
	if len(s.queries) != 1 {
		t.Errorf("probed %d times, want 1 (no fallback probe on hit)", len(s.queries))
	}
}

func TestResolveFallsBackWhenPreferredEmpty(t *testing.T) {
	s := &probeSearcher{hits: map[string]int{"#BTC": 2}}
	r := New(s)
	if got := r.Resolve(context.Background(), "BTC"); got != "#BTC" {
		t.Errorf("Resolve = %s, want #BTC", got)
	}
	if len(s.queries) != 2 {
		t.Errorf("probed %d times, want 2", len(s.queries))
	}
}

func TestResolveDefaultsToPreferredWhenBothEmpty(t *testing.T) {
	s := &probeSearcher{hits: map[string]int{}}
	r := New(s)
	if got := r.Resolve(context.Background(), "BTC"); got != "$BTC" {
		t.Errorf("Resolve = %s, want $BTC", got)
	}
}

func TestResolveTreatsProbeErrorAsEmpty(t *testing.T) {
	s := &probeSearcher{err: errors.New("upstream down")}
	r := New(s)
	if got := r.Resolve(context.Background(), "BTC"); got != "$BTC" {
		t.Errorf("Resolve = %s, want $BTC", got)
	}
}

func TestResolveCachesDecision(t *testing.T) {
	s := &probeSearcher{hits: map[string]int{"$BTC": 1}}
	r := New(s)
	first := r.Resolve(context.Background(), "BTC")
	probes := len(s.queries)
	second := r.Resolve(context.Background(), " btc ")
	if second != first {
		t.Errorf("cached resolve differs: %s vs %s", second, first)
	}
	if len(s.queries) != probes {
		t.Errorf("cache miss: probe count went %d -> %d", probes, len(s.queries))
	}
}
