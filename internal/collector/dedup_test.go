package collector

import (
	"encoding/json"
	"fmt"
	"testing"

	"coinpulse/internal/twitterapi"
)

func rawPost(t *testing.T, id, text string) twitterapi.RawPost {
	t.Helper()
	var p twitterapi.RawPost
	blob := fmt.Sprintf(`{"rest_id":%q,"__typename":"Tweet","legacy":{"full_text":%q}}`, id, text)
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		t.Fatalf("unmarshal raw post: %v", err)
	}
	return p
}

func TestMergeDropsDuplicatesPreservingOrder(t *testing.T) {
	w1 := []twitterapi.RawPost{
		rawPost(t, "1", "first"),
		rawPost(t, "2", "second"),
	}
	w2 := []twitterapi.RawPost{
		rawPost(t, "2", "second again"),
		rawPost(t, "3", "third"),
	}
	posts, removed := Merge([][]twitterapi.RawPost{w1, w2})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	wantIDs := []string{"1", "2", "3"}
	if len(posts) != len(wantIDs) {
		t.Fatalf("got %d posts, want %d", len(posts), len(wantIDs))
	}
	for i, id := range wantIDs {
		if posts[i].ID != id {
			t.Errorf("posts[%d].ID = %s, want %s", i, posts[i].ID, id)
		}
	}
	// first occurrence wins
	if posts[1].Text != "second" {
		t.Errorf("duplicate replaced first occurrence: %q", posts[1].Text)
	}
}

func TestMergeIdempotent(t *testing.T) {
	corpus := []twitterapi.RawPost{
		rawPost(t, "a", "alpha"),
		rawPost(t, "b", "beta"),
		rawPost(t, "c", "gamma"),
	}
	once, _ := Merge([][]twitterapi.RawPost{corpus})
	twice, removed := Merge([][]twitterapi.RawPost{corpus, corpus})
	if removed != len(corpus) {
		t.Fatalf("removed = %d, want %d", removed, len(corpus))
	}
	if len(once) != len(twice) {
		t.Fatalf("dedup(C++C) size %d != dedup(C) size %d", len(twice), len(once))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("order differs at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestMergeHandlesMissingIDs(t *testing.T) {
	// same raw content must dedupe even without any id field
	w1 := []twitterapi.RawPost{rawPost(t, "", "no id here")}
	w2 := []twitterapi.RawPost{rawPost(t, "", "no id here")}
	posts, removed := Merge([][]twitterapi.RawPost{w1, w2})
	if len(posts) != 1 || removed != 1 {
		t.Fatalf("got %d posts, %d removed; want 1, 1", len(posts), removed)
	}
	if posts[0].ID == "" {
		t.Fatal("post identity is empty")
	}
}
