// Package imdb extracts plain-text plot synopses from movie detail pages.
//
// The extraction depends on the page's DOM structure, which is not under
// our control. SynopsisProvider is the seam: callers only see the
// interface, so the scraping strategy can be swapped for a structured API
// or a browser-driven fallback without touching them.
package imdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aluiziolira/go-bookscout/fetch"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// FallbackSynopsis is returned when the page loads but carries no synopsis
// node. A parse miss is not a failure.
const FallbackSynopsis = "Description not found."

// plotSelector is the structural marker for the synopsis node. The class
// names on the page are build artifacts and churn; the data attribute is
// the stable part of the signature.
const plotSelector = `span[data-testid="plot-xl"]`

const (
	defaultBaseURL   = "https://www.imdb.com"
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.159 Safari/537.36"
	defaultMemoSize  = 256
)

// SynopsisProvider resolves a movie identifier to a plain-text synopsis.
type SynopsisProvider interface {
	Synopsis(ctx context.Context, imdbID string) (string, error)
}

// Scraper fetches the detail page and extracts the synopsis node. The
// target blocks default tooling identifiers, so requests carry a browser
// User-Agent. Successful lookups are memoized in a bounded LRU.
type Scraper struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	memo      *lru.Cache[string, string]
}

// Config configures a Scraper. Transport is injected by tests.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Transport http.RoundTripper
	MemoSize  int
}

// NewScraper builds a scraper with production defaults.
func NewScraper(cfg Config) (*Scraper, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	memoSize := cfg.MemoSize
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}

	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		return nil, fmt.Errorf("create synopsis memo: %w", err)
	}

	return &Scraper{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
		transport: cfg.Transport,
		memo:      memo,
	}, nil
}

// Synopsis implements SynopsisProvider. Non-2xx responses propagate as
// errors; a page without the synopsis node yields FallbackSynopsis.
func (s *Scraper) Synopsis(ctx context.Context, imdbID string) (string, error) {
	if text, ok := s.memo.Get(imdbID); ok {
		return text, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	collector := colly.NewCollector(colly.UserAgent(s.userAgent))
	collector.SetRequestTimeout(s.timeout)
	collector.IgnoreRobotsTxt = true
	if s.transport != nil {
		collector.WithTransport(s.transport)
	}

	var text string
	var found bool
	collector.OnHTML(plotSelector, func(e *colly.HTMLElement) {
		if !found {
			text = strings.TrimSpace(e.Text)
			found = true
		}
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fetch.Classify(err, status)
	})

	pageURL := fmt.Sprintf("%s/title/%s/", s.baseURL, imdbID)
	visitErr := collector.Visit(pageURL)
	if fetchErr != nil {
		return "", fmt.Errorf("fetch synopsis for %s: %w", imdbID, fetchErr)
	}
	if visitErr != nil {
		return "", fmt.Errorf("fetch synopsis for %s: %w", imdbID, visitErr)
	}

	if !found {
		return FallbackSynopsis, nil
	}
	s.memo.Add(imdbID, text)
	return text, nil
}
