// Package places is a minimal client for the Google Places web service:
// text search resolving to a place ID, then a details lookup for name,
// rating and review count. "No match" is a recognized empty result, never
// an error.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client issues Places API requests. One blocking request at a time; no
// retries, no rate limiting.
type Client struct {
	key     string
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a Places client with the given API key.
func New(key string, opts ...Option) *Client {
	c := &Client{
		key:     key,
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Details is one place's details. Rating and Reviews are nil when the
// field is absent, keeping "not reported" distinct from zero.
type Details struct {
	Name    string
	Rating  *float64
	Reviews *int
}

type findPlaceResponse struct {
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type detailsResponse struct {
	Result struct {
		Name             string   `json:"name"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// FindPlaceID resolves a free-text query to a place ID. The first
// candidate wins. A query with no candidates returns found=false with a
// nil error.
func (c *Client) FindPlaceID(ctx context.Context, query string) (string, bool, error) {
	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id")
	q.Set("key", c.key)

	body, err := c.get(ctx, "/findplacefromtext/json", q)
	if err != nil {
		return "", false, err
	}

	var resp findPlaceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, fmt.Errorf("decode find place response: %w", err)
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return "", false, apiError("find place", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Candidates) == 0 {
		return "", false, nil
	}
	return resp.Candidates[0].PlaceID, true, nil
}

// Details fetches name, rating and review count for a place ID.
func (c *Client) Details(ctx context.Context, placeID string) (Details, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,rating,user_ratings_total")
	q.Set("key", c.key)

	body, err := c.get(ctx, "/details/json", q)
	if err != nil {
		return Details{}, err
	}

	var resp detailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Details{}, fmt.Errorf("decode details response: %w", err)
	}
	if resp.Status != "OK" {
		return Details{}, apiError("details", resp.Status, resp.ErrorMessage)
	}
	return Details{
		Name:    resp.Result.Name,
		Rating:  resp.Result.Rating,
		Reviews: resp.Result.UserRatingsTotal,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

func apiError(op, status, message string) error {
	if message != "" {
		return fmt.Errorf("%s: places API status %s: %s", op, status, message)
	}
	return fmt.Errorf("%s: places API status %s", op, status)
}
