package collector

import (
	"coinpulse/internal/model"
	"coinpulse/internal/twitterapi"
)

// Merge folds per-window results into one normalized corpus keyed by post
// identity. The first occurrence of an identity wins and its encounter
// order is preserved; later duplicates are dropped. Returns the corpus and
// the number of duplicates removed.
func Merge(windows [][]twitterapi.RawPost) ([]model.ParsedPost, int) {
	seen := map[string]struct{}{}
	var out []model.ParsedPost
	removed := 0
	for _, window := range windows {
		for i := range window {
			post := &window[i]
			id := post.Identity()
			if _, dup := seen[id]; dup {
				removed++
				continue
			}
			seen[id] = struct{}{}
			out = append(out, post.Parse())
		}
	}
	return out, removed
}
