// Package search orchestrates one aggregated search: catalog books, movie
// matches with scraped synopses, news articles, and the derived genre and
// rating views.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/aluiziolira/go-bookscout/analytics"
	"github.com/aluiziolira/go-bookscout/catalog"
	"github.com/aluiziolira/go-bookscout/imdb"
	"github.com/aluiziolira/go-bookscout/models"
)

// defaultSynopsisWorkers bounds the concurrent detail-page fetches. The
// fetches are independent; assembly stays index-aligned regardless of
// completion order.
const defaultSynopsisWorkers = 4

// Catalog searches the book catalog.
type Catalog interface {
	Search(ctx context.Context, query string, opts catalog.SearchOptions) ([]models.Book, int, error)
}

// MovieSearcher searches the movie database.
type MovieSearcher interface {
	Search(ctx context.Context, title string) ([]models.MovieRef, error)
}

// ArticleSearcher searches the news service.
type ArticleSearcher interface {
	Search(ctx context.Context, query string, page, maxArticles int, lang string) ([]models.ArticleRef, error)
}

// Filters carries the caller-supplied filter set for one search.
type Filters struct {
	Language   string
	OrderBy    string
	Author     string
	Genre      string
	MinRating  float64
	StartIndex int
	Page       int
}

// Result bundles everything one aggregated search produces.
type Result struct {
	Query      string
	Filters    Filters
	Books      []models.Book
	TotalItems int
	Movies     []models.Movie
	Articles   []models.ArticleRef
	GenreIndex analytics.GenreIndex
	TopGenres  []string
	TopRated   []models.Book
	History    []string
}

// Service fans a query out to the external services and merges the results.
type Service struct {
	catalog         Catalog
	movies          MovieSearcher
	news            ArticleSearcher
	synopses        imdb.SynopsisProvider
	history         *History
	metrics         *Metrics
	maxResults      int
	maxArticles     int
	synopsisWorkers int
}

// ServiceConfig wires a Service. Metrics may be nil.
type ServiceConfig struct {
	Catalog         Catalog
	Movies          MovieSearcher
	News            ArticleSearcher
	Synopses        imdb.SynopsisProvider
	Metrics         *Metrics
	MaxResults      int
	MaxArticles     int
	SynopsisWorkers int
}

// NewService builds a search service.
func NewService(cfg ServiceConfig) *Service {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	maxArticles := cfg.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 10
	}
	workers := cfg.SynopsisWorkers
	if workers <= 0 {
		workers = defaultSynopsisWorkers
	}
	return &Service{
		catalog:         cfg.Catalog,
		movies:          cfg.Movies,
		news:            cfg.News,
		synopses:        cfg.Synopses,
		history:         &History{},
		metrics:         cfg.Metrics,
		maxResults:      maxResults,
		maxArticles:     maxArticles,
		synopsisWorkers: workers,
	}
}

// Perform runs one aggregated search. The catalog result is the primary
// payload, so a catalog failure fails the request; movie, synopsis, and
// news failures are isolated and degrade their own section to empty or a
// fallback so the rest of the view stays populated.
func (s *Service) Perform(ctx context.Context, query string, filters Filters) (Result, error) {
	s.history.Append(query)

	start := time.Now()
	books, totalItems, err := s.catalog.Search(ctx, query, catalog.SearchOptions{
		MaxResults: s.maxResults,
		StartIndex: filters.StartIndex,
		Language:   filters.Language,
		OrderBy:    filters.OrderBy,
		Author:     filters.Author,
		Genre:      filters.Genre,
		MinRating:  filters.MinRating,
	})
	s.metrics.ObserveCall("catalog", time.Since(start), err)
	if err != nil {
		return Result{}, fmt.Errorf("perform search: %w", err)
	}

	movies := s.lookupMovies(ctx, query)
	enriched := s.enrich(ctx, movies)
	articles := s.lookupArticles(ctx, query, filters)

	index := analytics.GroupByGenre(books)

	return Result{
		Query:      query,
		Filters:    filters,
		Books:      books,
		TotalItems: totalItems,
		Movies:     enriched,
		Articles:   articles,
		GenreIndex: index,
		TopGenres:  analytics.RankGenresByFrequency(index),
		TopRated:   analytics.RankByRating(books),
		History:    s.history.Snapshot(),
	}, nil
}

func (s *Service) lookupMovies(ctx context.Context, query string) []models.MovieRef {
	start := time.Now()
	refs, err := s.movies.Search(ctx, query)
	s.metrics.ObserveCall("movies", time.Since(start), err)
	if err != nil {
		slog.Warn("movie search failed, continuing without movies",
			slog.String("query", query),
			slog.Any("error", err),
		)
		return nil
	}
	return refs
}

func (s *Service) lookupArticles(ctx context.Context, query string, filters Filters) []models.ArticleRef {
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	start := time.Now()
	articles, err := s.news.Search(ctx, query, page, s.maxArticles, filters.Language)
	s.metrics.ObserveCall("news", time.Since(start), err)
	if err != nil {
		slog.Warn("news search failed, continuing without articles",
			slog.String("query", query),
			slog.Any("error", err),
		)
		return nil
	}
	return articles
}

// enrich fetches one synopsis per movie with bounded concurrency. Results
// are written into a preallocated slice so (movie, synopsis) pairing is
// preserved whatever the completion order. A failed fetch degrades that
// movie's synopsis to the fallback string.
func (s *Service) enrich(ctx context.Context, refs []models.MovieRef) []models.Movie {
	if len(refs) == 0 {
		return nil
	}

	enriched := make([]models.Movie, len(refs))
	sem := semaphore.NewWeighted(int64(s.synopsisWorkers))
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func(index int, ref models.MovieRef) {
			defer wg.Done()

			text := imdb.FallbackSynopsis
			if err := sem.Acquire(ctx, 1); err == nil {
				start := time.Now()
				fetched, fetchErr := s.synopses.Synopsis(ctx, ref.ImdbID)
				sem.Release(1)
				s.metrics.ObserveCall("synopsis", time.Since(start), fetchErr)
				if fetchErr != nil {
					slog.Warn("synopsis fetch failed, using fallback",
						slog.String("imdb_id", ref.ImdbID),
						slog.Any("error", fetchErr),
					)
				} else {
					text = fetched
				}
			}
			enriched[index] = models.Movie{MovieRef: ref, Synopsis: text}
		}(i, ref)
	}
	wg.Wait()

	return enriched
}
