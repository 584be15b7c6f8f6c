package twitterapi

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodePost(t *testing.T, blob string) RawPost {
	t.Helper()
	var p RawPost
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		t.Fatalf("unmarshal raw post: %v", err)
	}
	return p
}

func TestIdentityPrefersRestID(t *testing.T) {
	p := decodePost(t, `{"rest_id":"100","legacy":{"id_str":"200","full_text":"hi"}}`)
	if got := p.Identity(); got != "100" {
		t.Errorf("Identity() = %s, want 100", got)
	}
}

func TestIdentityFallsBackToLegacyID(t *testing.T) {
	p := decodePost(t, `{"legacy":{"id_str":"200","full_text":"hi"}}`)
	if got := p.Identity(); got != "200" {
		t.Errorf("Identity() = %s, want 200", got)
	}
}

func TestIdentityHashesRawContentWhenNoID(t *testing.T) {
	blob := `{"legacy":{"full_text":"no ids here"}}`
	a := decodePost(t, blob)
	b := decodePost(t, blob)
	id := a.Identity()
	if !strings.HasPrefix(id, "sha:") {
		t.Fatalf("Identity() = %s, want sha: prefix", id)
	}
	if b.Identity() != id {
		t.Errorf("same content hashed to different identities: %s vs %s", id, b.Identity())
	}
	other := decodePost(t, `{"legacy":{"full_text":"different text"}}`)
	if other.Identity() == id {
		t.Errorf("different content hashed to same identity %s", id)
	}
}

func TestParseNormalizesFields(t *testing.T) {
	p := decodePost(t, `{
		"rest_id": "42",
		"legacy": {
			"full_text": "to the moon",
			"created_at": "Wed Sep 10 08:30:00 +0000 2025",
			"favorite_count": 12,
			"retweet_count": 3,
			"reply_count": 1,
			"quote_count": 2
		},
		"core": {"user_results": {"result": {
			"is_blue_verified": true,
			"legacy": {"screen_name": "trader", "name": "Trader", "followers_count": 5000, "verified": false}
		}}},
		"views": {"count": "1,234"}
	}`)
	post := p.Parse()
	if post.ID != "42" || post.Text != "to the moon" {
		t.Errorf("id/text = %s/%q", post.ID, post.Text)
	}
	if post.CreatedAt.IsZero() {
		t.Error("created at not parsed")
	}
	if post.Author.Username != "trader" || post.Author.FollowerCount != 5000 {
		t.Errorf("author = %+v", post.Author)
	}
	if !post.Author.PlatformVerified || post.Author.LegacyVerified {
		t.Errorf("verification flags = %+v", post.Author)
	}
	if post.Metrics.Views != 1234 || post.Metrics.Likes != 12 || post.Metrics.Reposts != 3 {
		t.Errorf("metrics = %+v", post.Metrics)
	}
}

func TestParseUsesTextWhenFullTextMissing(t *testing.T) {
	p := decodePost(t, `{"rest_id":"1","legacy":{"text":"short form"}}`)
	if got := p.Parse().Text; got != "short form" {
		t.Errorf("Text = %q, want short form", got)
	}
}

func TestParseViews(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"N/A", 0},
		{"n/a", 0},
		{"1234", 1234},
		{"1,234,567", 1234567},
		{" 42 ", 42},
		{"-5", 0},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := parseViews(c.in); got != c.want {
			t.Errorf("parseViews(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestExtractPage(t *testing.T) {
	blob := `{"data":{"data":{"search_by_raw_query":{"search_timeline":{"timeline":{"instructions":[
		{"type":"TimelineClearCache"},
		{"type":"TimelineAddEntries","entries":[
			{"content":{"entryType":"TimelineTimelineItem","itemContent":{"itemType":"TimelineTweet","tweet_results":{"result":{"rest_id":"1","__typename":"Tweet","legacy":{"full_text":"gm"}}}}}},
			{"content":{"entryType":"TimelineTimelineItem","itemContent":{"itemType":"TimelineTweet","tweet_results":{"result":{"rest_id":"2","__typename":"TweetTombstone"}}}}},
			{"content":{"entryType":"TimelineTimelineItem","itemContent":{"itemType":"TimelineUser"}}},
			{"content":{"entryType":"TimelineTimelineCursor","cursorType":"Bottom","value":"cur-bottom"}},
			{"content":{"entryType":"TimelineTimelineCursor","cursorType":"Top","value":"cur-top"}}
		]}
	]}}}}}}`
	var raw searchResponse
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	page := extractPage(&raw)
	if len(page.Posts) != 1 || page.Posts[0].RestID != "1" {
		t.Fatalf("posts = %+v, want single tweet 1", page.Posts)
	}
	if got := page.Next(); got != "cur-bottom" {
		t.Errorf("Next() = %q, want cur-bottom", got)
	}
	if page.Cursors["top"] != "cur-top" {
		t.Errorf("top cursor = %q", page.Cursors["top"])
	}
}

func TestPageNextEmptyWhenNoCursor(t *testing.T) {
	p := &Page{Cursors: map[string]string{}}
	if p.Next() != "" {
		t.Errorf("Next() = %q, want empty", p.Next())
	}
	var nilPage *Page
	if nilPage.Next() != "" {
		t.Error("nil page Next() should be empty")
	}
}
