package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

const youtubeDefaultURL = "https://www.googleapis.com/youtube/v3/search"

const maxVideoResults = 6

// VideoClient fetches travel videos for a location from the YouTube Data API.
// This is a best-effort enrichment and never load-bearing: every failure mode,
// including a missing credential, degrades to an empty list with an
// informational message instead of an error.
type VideoClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *slog.Logger

	keyInfoOnce sync.Once
}

// NewVideoClient constructs a VideoClient against the production YouTube API.
func NewVideoClient(apiKey string, log *slog.Logger) *VideoClient {
	return NewVideoClientWithURL(youtubeDefaultURL, apiKey, log)
}

// NewVideoClientWithURL constructs a VideoClient pointing at a custom base URL (for tests).
func NewVideoClientWithURL(baseURL, apiKey string, log *slog.Logger) *VideoClient {
	return &VideoClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  newHTTPClient(),
		log:     log,
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns travel videos for locationName plus an informational message
// when the lookup degraded. The message is empty on success.
func (c *VideoClient) Search(ctx context.Context, locationName string) ([]Video, string) {
	if c.apiKey == "" {
		c.keyInfoOnce.Do(func() {
			c.log.Info("YouTube API key not configured, video enrichment disabled")
		})
		return []Video{}, "YouTube API key not configured"
	}

	endpoint := fmt.Sprintf("%s?part=snippet&q=%s&type=video&maxResults=%d&key=%s",
		c.baseURL, url.QueryEscape(locationName+" travel tourism"), maxVideoResults, url.QueryEscape(c.apiKey))

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		c.log.Warn("video search request failed", "location", locationName, "err", err)
		return []Video{}, "Failed to fetch videos"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("video search returned non-OK status", "location", locationName, "status", resp.StatusCode)
		return []Video{}, "Failed to fetch videos"
	}

	var raw youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.log.Warn("video search response malformed", "location", locationName, "err", err)
		return []Video{}, "Failed to fetch videos"
	}

	videos := make([]Video, 0, len(raw.Items))
	for _, item := range raw.Items {
		videos = append(videos, Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Thumbnail:    item.Snippet.Thumbnails.Medium.URL,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}

	return videos, ""
}

func (c *VideoClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.client.Do(req)
}
