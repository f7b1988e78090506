package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dharmasatrya/flexiflight/internal/models"
	"github.com/dharmasatrya/flexiflight/internal/ratelimit"
)

// Fetcher is the flight-search provider boundary. Fetch returns the raw
// response document for one validated parameter record.
type Fetcher interface {
	Fetch(ctx context.Context, params models.SearchParams) (json.RawMessage, error)
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

var ErrMissingAPIKey = errors.New("serpapi: API key is not configured")

const serviceName = "serpapi"

// SerpAPIClient queries the Google Flights engine through SerpAPI.
type SerpAPIClient struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
	limiter    *ratelimit.ServiceLimiter
}

type ClientOption func(*SerpAPIClient)

func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *SerpAPIClient) {
		c.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *SerpAPIClient) {
		c.baseURL = baseURL
	}
}

func WithLimiter(limiter *ratelimit.ServiceLimiter) ClientOption {
	return func(c *SerpAPIClient) {
		c.limiter = limiter
	}
}

func NewSerpAPIClient(apiKey string, opts ...ClientOption) *SerpAPIClient {
	client := &SerpAPIClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://serpapi.com/search",
		apiKey:     apiKey,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Fetch sends the flat parameter payload plus engine selector and credential
// as query parameters and returns the raw JSON document.
func (c *SerpAPIClient) Fetch(ctx context.Context, params models.SearchParams) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, serviceName); err != nil {
			return nil, fmt.Errorf("serpapi: waiting for rate limiter: %w", err)
		}
	}

	values := url.Values{}
	for key, value := range params.Payload() {
		values.Set(key, value)
	}
	values.Set("engine", "google_flights")
	values.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: calling provider: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serpapi: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: unexpected status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, errors.New("serpapi: response is not valid JSON")
	}

	return json.RawMessage(body), nil
}
