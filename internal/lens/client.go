package lens

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignatzorin/odyssey-backend/internal/pkg/httpx"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
)

const (
	serviceName    = "lens"
	serpAPIBaseURL = "https://serpapi.com/search.json"
)

// VisualMatch - одно совпадение обратного поиска по картинке, в порядке выдачи.
type VisualMatch struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
}

type searchResponse struct {
	VisualMatches []VisualMatch `json:"visual_matches"`
	Error         string        `json:"error,omitempty"`
}

// Options - параметры клиента. Если задан SerpAPIKey, запросы идут напрямую в SerpAPI.
type Options struct {
	BaseURL        string
	SerpAPIKey     string
	SerpAPIBaseURL string
	Policy         retry.Policy
	HTTPClient     *http.Client
}

// Client выполняет обратный поиск по картинке (Google Lens).
type Client struct {
	opts Options
}

// NewClient создаёт экземпляр клиента.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.SerpAPIBaseURL == "" {
		opts.SerpAPIBaseURL = serpAPIBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{opts: opts}
}

// Search ищет визуально похожие картинки для imageURL.
func (c *Client) Search(ctx context.Context, imageURL string) ([]VisualMatch, error) {
	endpoint := c.endpoint(imageURL)

	return retry.Do(ctx, c.opts.Policy, serviceName, func(ctx context.Context) ([]VisualMatch, error) {
		var resp searchResponse
		if err := httpx.GetJSON(ctx, c.opts.HTTPClient, serviceName, endpoint, &resp); err != nil {
			return nil, err
		}
		return resp.VisualMatches, nil
	})
}

func (c *Client) endpoint(imageURL string) string {
	q := url.Values{}
	q.Set("url", imageURL)

	if c.opts.SerpAPIKey != "" {
		q.Set("engine", "google_lens")
		q.Set("api_key", c.opts.SerpAPIKey)
		q.Set("hl", "en")
		q.Set("no_cache", "true")
		return c.opts.SerpAPIBaseURL + "?" + q.Encode()
	}

	return c.opts.BaseURL + "/search/google-lens?" + q.Encode()
}
