// Package youtube inspects channels through the YouTube Data API v3.
// The inspector takes any channel reference a creator might paste (id,
// URL, handle or plain name), resolves it to a channel id and returns
// the channel's snippet, statistics and latest uploads.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIBase = "https://www.googleapis.com/youtube/v3/"

// ErrChannelNotFound means no channel matched the given reference.
var ErrChannelNotFound = errors.New("youtube: channel not found")

// Channel is the inspected channel summary.
type Channel struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Country     string    `json:"country,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Subscribers uint64    `json:"subscribers"`
	Views       uint64    `json:"views"`
	Videos      uint64    `json:"videos"`
}

// Video is one recent upload.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

// Report is the full inspection result.
type Report struct {
	Channel      Channel `json:"channel"`
	RecentVideos []Video `json:"recent_videos"`
}

// Client calls the data API. Safe for concurrent use.
type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIBase points the client at a different API root, mainly for tests.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = base }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a data API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Inspect resolves the reference and fetches the channel with its five
// most recent uploads.
func (c *Client) Inspect(ctx context.Context, reference string) (*Report, error) {
	id, err := c.ResolveChannelID(ctx, reference)
	if err != nil {
		return nil, err
	}
	channel, err := c.fetchChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	videos, err := c.fetchRecentVideos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Report{Channel: *channel, RecentVideos: videos}, nil
}

func (c *Client) fetchChannel(ctx context.Context, id string) (*Channel, error) {
	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Country     string    `json:"country"`
				PublishedAt time.Time `json:"publishedAt"`
				Thumbnails  struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			// The data API serializes counters as strings.
			Statistics struct {
				ViewCount       string `json:"viewCount"`
				SubscriberCount string `json:"subscriberCount"`
				VideoCount      string `json:"videoCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	params := url.Values{
		"part": {"snippet,statistics"},
		"id":   {id},
	}
	if err := c.get(ctx, "channels", params, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	item := result.Items[0]
	return &Channel{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
		Country:     item.Snippet.Country,
		PublishedAt: item.Snippet.PublishedAt,
		Subscribers: parseCount(item.Statistics.SubscriberCount),
		Views:       parseCount(item.Statistics.ViewCount),
		Videos:      parseCount(item.Statistics.VideoCount),
	}, nil
}

func (c *Client) fetchRecentVideos(ctx context.Context, channelID string) ([]Video, error) {
	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				PublishedAt time.Time `json:"publishedAt"`
				Thumbnails  struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"order":      {"date"},
		"maxResults": {"5"},
		"channelId":  {channelID},
	}
	if err := c.get(ctx, "search", params, &result); err != nil {
		return nil, err
	}
	videos := make([]Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

// get performs one data API call and decodes the JSON response.
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+resource+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("youtube: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: %s: %w", resource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("youtube: %s returned status %d: %s", resource, resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube: decode %s response: %w", resource, err)
	}
	return nil
}

// parseCount converts a string counter, tolerating hidden or absent values.
func parseCount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
