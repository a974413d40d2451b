// Package movies searches the external movie database for titles matching
// a query.
package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-bookscout/fetch"
	"github.com/aluiziolira/go-bookscout/models"
)

const defaultBaseURL = "http://www.omdbapi.com"

// Client queries the movie database API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Config configures a movie client.
type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewClient builds a movie client with production defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type searchResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Search   []struct {
		Title  string `json:"Title"`
		ImdbID string `json:"imdbID"`
	} `json:"Search"`
}

// Search returns the movies matching a title. The API signals "no results"
// with a 200 response carrying Response="False"; that is the empty-result
// case, not a failure. Non-2xx responses and malformed bodies are errors.
func (c *Client) Search(ctx context.Context, title string) ([]models.MovieRef, error) {
	params := url.Values{
		"apikey": {c.apiKey},
		"s":      {title},
		"type":   {"movie"},
	}
	reqURL := c.baseURL + "/?" + params.Encode()

	body, err := fetch.Get(ctx, c.http, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("movie search: %w", err)
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("movie search: decode response: %w", err)
	}
	if response.Response != "True" {
		return []models.MovieRef{}, nil
	}

	refs := make([]models.MovieRef, 0, len(response.Search))
	for _, result := range response.Search {
		refs = append(refs, models.MovieRef{Title: result.Title, ImdbID: result.ImdbID})
	}
	return refs, nil
}
