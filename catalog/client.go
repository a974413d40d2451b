// Package catalog searches the external book catalog and normalizes its
// results into Book records.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-bookscout/cache"
	"github.com/aluiziolira/go-bookscout/fetch"
	"github.com/aluiziolira/go-bookscout/models"
	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client queries the book catalog API through the response cache.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   cache.Store
}

// Config configures a catalog client.
type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   cache.Store
}

// NewClient builds a catalog client. Cache must be set; the other fields
// fall back to production defaults.
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
		cache:   cfg.Cache,
	}
}

// SearchOptions carries pagination and filter parameters for one search.
// Zero values mean "not set": empty Language/OrderBy are omitted from the
// request entirely, and the Author/Genre/MinRating filters only run when at
// least one of them is active.
type SearchOptions struct {
	MaxResults int
	StartIndex int
	Language   string
	OrderBy    string
	Author     string
	Genre      string
	MinRating  float64
}

// Search returns the normalized, filtered books for a query plus the
// server-reported total. The raw response is resolved through the cache, so
// a repeated (query, startIndex) pair never hits the network.
//
// The returned total is the pre-filter count from the server; it is not
// reconciled with the possibly shorter filtered list.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]models.Book, int, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(opts.StartIndex))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	// Absent means "omit the parameter"; the API treats an empty value
	// differently from a missing one.
	if opts.Language != "" {
		params.Set("langRestrict", opts.Language)
	}
	if opts.OrderBy != "" {
		params.Set("orderBy", opts.OrderBy)
	}
	reqURL := c.baseURL + "/volumes?" + params.Encode()

	key := cache.Key{Query: query, StartIndex: opts.StartIndex}
	raw, err := c.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return fetch.Get(ctx, c.http, reqURL, nil)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("catalog search: %w", err)
	}

	doc := gjson.ParseBytes(raw)
	totalItems := int(doc.Get("totalItems").Int())
	items := doc.Get("items").Array()

	books := make([]models.Book, 0, len(items))
	for _, item := range items {
		books = append(books, Normalize(item))
	}

	if hasActiveFilters(opts) {
		books = applyFilters(books, opts)
	}

	return books, totalItems, nil
}

func hasActiveFilters(opts SearchOptions) bool {
	return opts.Author != "" || opts.Genre != "" || opts.MinRating > 0
}

// applyFilters keeps books matching every active predicate. The author
// match is a case-insensitive substring test against the joined author
// string; the genre match is exact membership.
func applyFilters(books []models.Book, opts SearchOptions) []models.Book {
	author := strings.ToLower(opts.Author)

	filtered := make([]models.Book, 0, len(books))
	for _, book := range books {
		if author != "" && !strings.Contains(strings.ToLower(book.Author), author) {
			continue
		}
		if opts.Genre != "" && !hasGenre(book.Genres, opts.Genre) {
			continue
		}
		if opts.MinRating > 0 && book.AverageRating < opts.MinRating {
			continue
		}
		filtered = append(filtered, book)
	}
	return filtered
}

func hasGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}
