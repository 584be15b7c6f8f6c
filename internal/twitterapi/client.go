package twitterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinpulse/internal/config"
)

// Client talks to the enterprise search endpoint. Responses arrive as a
// deeply nested timeline structure; everything downstream only sees the
// extracted posts and pagination cursors.
type Client struct {
	baseURL     string
	apiKey      string
	rapidAPIKey string
	host        string
	client      *http.Client
}

func NewClient(cfg config.SearchConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		rapidAPIKey: cfg.RapidAPIKey,
		host:        cfg.Host,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Page is one page of search results plus the cursors needed to continue.
type Page struct {
	Posts   []RawPost
	Cursors map[string]string
}

// Next returns the bottom pagination cursor, or "" when the page is the
// last one.
func (p *Page) Next() string {
	if p == nil {
		return ""
	}
	return p.Cursors["bottom"]
}

// searchResponse mirrors the nested instruction/entry envelope.
type searchResponse struct {
	Data struct {
		Data struct {
			SearchByRawQuery struct {
				SearchTimeline struct {
					Timeline struct {
						Instructions []instruction `json:"instructions"`
					} `json:"timeline"`
				} `json:"search_timeline"`
			} `json:"search_by_raw_query"`
		} `json:"data"`
	} `json:"data"`
}

type instruction struct {
	Type    string  `json:"type"`
	Entries []entry `json:"entries"`
}

type entry struct {
	Content struct {
		EntryType   string `json:"entryType"`
		CursorType  string `json:"cursorType"`
		Value       string `json:"value"`
		ItemContent struct {
			ItemType     string `json:"itemType"`
			TweetResults struct {
				Result RawPost `json:"result"`
			} `json:"tweet_results"`
		} `json:"itemContent"`
	} `json:"content"`
}

// Search fetches one page for query. since is required (YYYY-MM-DD), until
// and cursor are optional.
func (c *Client) Search(ctx context.Context, query, cursor, since, until string) (*Page, error) {
	q := url.Values{
		"words":     {query},
		"apiKey":    {c.apiKey},
		"resFormat": {"json"},
		"product":   {"Top"},
		"since":     {since},
	}
	if until != "" {
		q.Set("until", until)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", c.rapidAPIKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitterapi: search status %d", resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("twitterapi: decode search response: %w", err)
	}
	return extractPage(&raw), nil
}

// extractPage walks the timeline instructions collecting tweets and cursors.
// Absence of either is a normal termination signal, not an error.
func extractPage(raw *searchResponse) *Page {
	page := &Page{Cursors: map[string]string{}}
	instructions := raw.Data.Data.SearchByRawQuery.SearchTimeline.Timeline.Instructions
	for _, ins := range instructions {
		if ins.Type != "TimelineAddEntries" {
			continue
		}
		for _, e := range ins.Entries {
			switch e.Content.EntryType {
			case "TimelineTimelineItem":
				ic := e.Content.ItemContent
				if ic.ItemType != "TimelineTweet" {
					continue
				}
				post := ic.TweetResults.Result
				if post.Typename == "Tweet" {
					page.Posts = append(page.Posts, post)
				}
			case "TimelineTimelineCursor":
				if e.Content.CursorType != "" && e.Content.Value != "" {
					page.Cursors[strings.ToLower(e.Content.CursorType)] = e.Content.Value
				}
			}
		}
	}
	return page
}
