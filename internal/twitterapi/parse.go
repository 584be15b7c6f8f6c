package twitterapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"coinpulse/internal/model"
)

// RawPost is a single tweet result as returned by the search timeline. The
// original payload bytes are retained so posts without any id field can
// still be given a stable identity.
type RawPost struct {
	RestID   string     `json:"rest_id"`
	Typename string     `json:"__typename"`
	Legacy   postLegacy `json:"legacy"`
	Core     postCore   `json:"core"`
	Views    postViews  `json:"views"`

	raw json.RawMessage
}

func (p *RawPost) UnmarshalJSON(b []byte) error {
	type plain RawPost
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = RawPost(v)
	p.raw = append(json.RawMessage(nil), b...)
	return nil
}

type postLegacy struct {
	IDStr         string `json:"id_str"`
	FullText      string `json:"full_text"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	FavoriteCount int    `json:"favorite_count"`
	RetweetCount  int    `json:"retweet_count"`
	ReplyCount    int    `json:"reply_count"`
	QuoteCount    int    `json:"quote_count"`
}

type postCore struct {
	UserResults struct {
		Result struct {
			IsBlueVerified bool `json:"is_blue_verified"`
			Legacy         struct {
				ScreenName     string `json:"screen_name"`
				Name           string `json:"name"`
				FollowersCount int    `json:"followers_count"`
				Verified       bool   `json:"verified"`
			} `json:"legacy"`
		} `json:"result"`
	} `json:"user_results"`
}

type postViews struct {
	Count string `json:"count"`
}

// Identity returns a non-empty stable identifier: the platform id, then the
// legacy nested id, then a hash of the raw content.
func (p *RawPost) Identity() string {
	if p.RestID != "" {
		return p.RestID
	}
	if p.Legacy.IDStr != "" {
		return p.Legacy.IDStr
	}
	data := []byte(p.raw)
	if len(data) == 0 {
		// post built in-process rather than decoded; hash its visible fields
		data = []byte(p.Legacy.FullText + "\x00" + p.Legacy.Text + "\x00" + p.Legacy.CreatedAt + "\x00" + p.Core.UserResults.Result.Legacy.ScreenName)
	}
	sum := sha256.Sum256(data)
	return "sha:" + hex.EncodeToString(sum[:12])
}

// createdAtLayout is the legacy timestamp format of the platform.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Parse normalizes a raw post into the model view used by the pipeline.
func (p *RawPost) Parse() model.ParsedPost {
	text := p.Legacy.FullText
	if text == "" {
		text = p.Legacy.Text
	}
	createdAt, err := time.Parse(createdAtLayout, p.Legacy.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	user := p.Core.UserResults.Result
	return model.ParsedPost{
		ID:        p.Identity(),
		Text:      text,
		CreatedAt: createdAt,
		Author: model.Author{
			Username:         user.Legacy.ScreenName,
			DisplayName:      user.Legacy.Name,
			FollowerCount:    user.Legacy.FollowersCount,
			LegacyVerified:   user.Legacy.Verified,
			PlatformVerified: user.IsBlueVerified,
		},
		Metrics: model.Metrics{
			Likes:   p.Legacy.FavoriteCount,
			Reposts: p.Legacy.RetweetCount,
			Replies: p.Legacy.ReplyCount,
			Quotes:  p.Legacy.QuoteCount,
			Views:   parseViews(p.Views.Count),
		},
	}
}

// parseViews normalizes the view counter, which upstream reports as a
// string and sometimes as a "N/A" sentinel.
func parseViews(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
