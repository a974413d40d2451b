package config

import (
	"fmt"
	"time"
)

// Config holds search configuration and external service credentials.
type Config struct {
	BooksAPIKey string
	OMDBAPIKey  string
	NewsAPIKey  string

	BooksBaseURL string
	OMDBBaseURL  string
	NewsBaseURL  string
	IMDBBaseURL  string

	CacheDir    string
	MaxResults  int
	MaxArticles int
	Timeout     time.Duration
	UserAgent   string
	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns the production endpoints and conservative defaults.
// API keys are left empty here; missing credentials are not validated up
// front and surface on the first external call.
func DefaultConfig() *Config {
	return &Config{
		BooksBaseURL: "https://www.googleapis.com/books/v1",
		OMDBBaseURL:  "http://www.omdbapi.com",
		NewsBaseURL:  "https://newsapi.org/v2",
		IMDBBaseURL:  "https://www.imdb.com",
		CacheDir:     "cache",
		MaxResults:   10,
		MaxArticles:  10,
		Timeout:      10 * time.Second,
		UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.159 Safari/537.36",
		Verbose:      false,
	}
}

// FromEnv overlays environment variables onto the defaults.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if value, ok := EnvString("GOOGLE_BOOKS_API_KEY"); ok {
		cfg.BooksAPIKey = value
	}
	if value, ok := EnvString("OMDB_API_KEY"); ok {
		cfg.OMDBAPIKey = value
	}
	if value, ok := EnvString("NEWS_API_KEY"); ok {
		cfg.NewsAPIKey = value
	}
	if value, ok := EnvString("BOOKSCOUT_CACHE_DIR"); ok {
		cfg.CacheDir = value
	}
	if value, ok, err := EnvInt("BOOKSCOUT_MAX_RESULTS"); err != nil {
		return nil, fmt.Errorf("invalid BOOKSCOUT_MAX_RESULTS: %w", err)
	} else if ok {
		cfg.MaxResults = value
	}
	if value, ok, err := EnvInt("BOOKSCOUT_MAX_ARTICLES"); err != nil {
		return nil, fmt.Errorf("invalid BOOKSCOUT_MAX_ARTICLES: %w", err)
	} else if ok {
		cfg.MaxArticles = value
	}
	if value, ok := EnvString("BOOKSCOUT_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}

	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BooksBaseURL == "" {
		return fmt.Errorf("books base URL cannot be empty")
	}
	if c.OMDBBaseURL == "" {
		return fmt.Errorf("omdb base URL cannot be empty")
	}
	if c.NewsBaseURL == "" {
		return fmt.Errorf("news base URL cannot be empty")
	}
	if c.IMDBBaseURL == "" {
		return fmt.Errorf("imdb base URL cannot be empty")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache dir cannot be empty")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive")
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("max articles must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}
