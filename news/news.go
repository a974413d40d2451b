// Package news searches the external news service for articles matching a
// query.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-bookscout/fetch"
	"github.com/aluiziolira/go-bookscout/models"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client queries the news API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Config configures a news client.
type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewClient builds a news client with production defaults.
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

type everythingResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns up to maxArticles articles for a query, oldest first. A
// response without an articles field is the empty-result case, not a
// failure. The full result set is sorted by publication time before it is
// truncated, so the survivors are the earliest articles overall rather than
// the first maxArticles in response order.
func (c *Client) Search(ctx context.Context, query string, page, maxArticles int, lang string) ([]models.ArticleRef, error) {
	if page <= 0 {
		page = 1
	}
	if maxArticles <= 0 {
		maxArticles = 10
	}

	params := url.Values{
		"q":      {query},
		"apiKey": {c.apiKey},
		"page":   {strconv.Itoa(page)},
	}
	if lang != "" {
		params.Set("language", lang)
	}
	reqURL := c.baseURL + "/everything?" + params.Encode()

	body, err := fetch.Get(ctx, c.http, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}

	var response everythingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("news search: decode response: %w", err)
	}
	if response.Articles == nil {
		return []models.ArticleRef{}, nil
	}

	articles := make([]models.ArticleRef, 0, len(response.Articles))
	for _, article := range response.Articles {
		articles = append(articles, models.ArticleRef{
			Title:       article.Title,
			URL:         article.URL,
			Source:      article.Source.Name,
			PublishedAt: article.PublishedAt,
		})
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt < articles[j].PublishedAt
	})

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}
	return articles, nil
}
