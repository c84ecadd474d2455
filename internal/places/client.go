package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/httpx"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
)

const serviceName = "places"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Place - результат поиска Places API. Указатели и nil срезы означают отсутствующее поле.
type Place struct {
	Name             string           `json:"name"`
	FormattedAddress string           `json:"formatted_address"`
	Vicinity         string           `json:"vicinity"`
	PlaceID          string           `json:"place_id"`
	Reference        string           `json:"reference"`
	Rating           *float64         `json:"rating"`
	UserRatingsTotal *int             `json:"user_ratings_total"`
	Types            []string         `json:"types"`
	Geometry         *models.Geometry `json:"geometry"`
}

// NearbyQuery - параметры поиска рядом с точкой. Пустой Type ищет без фильтра по типу.
type NearbyQuery struct {
	Location models.LatLng
	Radius   int
	Type     string
}

type searchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []Place `json:"results"`
}

// Options - параметры клиента.
type Options struct {
	APIKey     string
	BaseURL    string
	Policy     retry.Policy
	HTTPClient *http.Client
}

// Client работает с Google Places Web Service.
type Client struct {
	opts Options
}

// NewClient создаёт экземпляр клиента.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{opts: opts}
}

// TextSearch ищет места по текстовому запросу.
func (c *Client) TextSearch(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.search(ctx, "/textsearch/json", q)
}

// NearbySearch ищет места в радиусе от точки.
func (c *Client) NearbySearch(ctx context.Context, nq NearbyQuery) ([]Place, error) {
	q := url.Values{}
	q.Set("location", formatLatLng(nq.Location))
	q.Set("radius", strconv.Itoa(nq.Radius))
	if nq.Type != "" {
		q.Set("type", nq.Type)
	}
	return c.search(ctx, "/nearbysearch/json", q)
}

func (c *Client) search(ctx context.Context, path string, q url.Values) ([]Place, error) {
	q.Set("key", c.opts.APIKey)
	endpoint := c.opts.BaseURL + path + "?" + q.Encode()

	return retry.Do(ctx, c.opts.Policy, serviceName, func(ctx context.Context) ([]Place, error) {
		var resp searchResponse
		if err := httpx.GetJSON(ctx, c.opts.HTTPClient, serviceName, endpoint, &resp); err != nil {
			return nil, err
		}

		switch resp.Status {
		case statusOK, statusZeroResults:
			return resp.Results, nil
		default:
			return nil, fmt.Errorf("places: статус %s: %s", resp.Status, resp.ErrorMessage)
		}
	})
}

func formatLatLng(p models.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
