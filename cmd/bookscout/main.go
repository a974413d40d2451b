package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-bookscout/cache"
	"github.com/aluiziolira/go-bookscout/catalog"
	"github.com/aluiziolira/go-bookscout/config"
	"github.com/aluiziolira/go-bookscout/export"
	"github.com/aluiziolira/go-bookscout/imdb"
	"github.com/aluiziolira/go-bookscout/movies"
	"github.com/aluiziolira/go-bookscout/news"
	"github.com/aluiziolira/go-bookscout/search"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	query := flag.String("query", "", "Search term (required)")
	author := flag.String("author", "", "Filter books by author (case-insensitive substring)")
	genre := flag.String("genre", "", "Filter books by exact genre")
	minRating := flag.Float64("min-rating", 0, "Filter books by minimum average rating")
	lang := flag.String("lang", "", "Language filter for books and articles")
	orderBy := flag.String("sort", "", "Catalog sort order (relevance or newest)")
	startIndex := flag.Int("start-index", 0, "Catalog pagination offset")
	page := flag.Int("page", 1, "News article page")
	maxResults := flag.Int("max-results", cfg.MaxResults, "Maximum book results")
	maxArticles := flag.Int("max-articles", cfg.MaxArticles, "Maximum news articles")
	cacheDir := flag.String("cache-dir", cfg.CacheDir, "Directory for cached catalog responses")
	outputFile := flag.String("output", "", "Export book results to this file")
	outputFormat := flag.String("format", "csv", "Export format: csv or json")
	requestTimeout := flag.Duration("request-timeout", time.Minute, "Deadline for the whole aggregated search")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if strings.TrimSpace(*query) == "" {
		fmt.Fprintln(os.Stderr, "-query is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg.MaxResults = *maxResults
	cfg.MaxArticles = *maxArticles
	cfg.CacheDir = *cacheDir
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := search.NewMetrics()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	synopses, err := imdb.NewScraper(imdb.Config{
		BaseURL:   cfg.IMDBBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		slog.Error("initialising synopsis scraper", slog.Any("error", err))
		os.Exit(1)
	}

	svc := search.NewService(search.ServiceConfig{
		Catalog: catalog.NewClient(catalog.Config{
			APIKey:  cfg.BooksAPIKey,
			BaseURL: cfg.BooksBaseURL,
			Client:  httpClient,
			Cache:   cache.NewFileStore(cfg.CacheDir, metrics),
		}),
		Movies: movies.NewClient(movies.Config{
			APIKey:  cfg.OMDBAPIKey,
			BaseURL: cfg.OMDBBaseURL,
			Client:  httpClient,
		}),
		News: news.NewClient(news.Config{
			APIKey:  cfg.NewsAPIKey,
			BaseURL: cfg.NewsBaseURL,
			Client:  httpClient,
		}),
		Synopses:    synopses,
		Metrics:     metrics,
		MaxResults:  cfg.MaxResults,
		MaxArticles: cfg.MaxArticles,
	})

	slog.Info("starting aggregated search",
		slog.String("query", *query),
		slog.Int("max_results", cfg.MaxResults),
		slog.String("cache_dir", cfg.CacheDir),
	)

	searchCtx, cancel := context.WithTimeout(ctx, *requestTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := svc.Perform(searchCtx, *query, search.Filters{
		Language:   *lang,
		OrderBy:    *orderBy,
		Author:     *author,
		Genre:      *genre,
		MinRating:  *minRating,
		StartIndex: *startIndex,
		Page:       *page,
	})
	if err != nil {
		slog.Error("search failed", slog.Any("error", err))
		os.Exit(1)
	}

	printResult(result, time.Since(startTime))

	if *outputFile != "" {
		if err := exportBooks(*outputFormat, *outputFile, result); err != nil {
			slog.Error("export failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("exported book results", slog.String("file", *outputFile))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}
}

func exportBooks(format, filename string, result search.Result) error {
	switch strings.ToLower(format) {
	case "json":
		return export.WriteJSON(filename, result.Books)
	case "csv":
		return export.WriteCSV(filename, result.Books)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printResult(result search.Result, duration time.Duration) {
	separator := "--------------------------------------------------"

	fmt.Println("\n" + separator)
	fmt.Printf("Results for %q (%d total catalog matches)\n", result.Query, result.TotalItems)
	fmt.Println(separator)

	fmt.Printf("\nBooks (%d):\n", len(result.Books))
	for _, book := range result.Books {
		fmt.Printf("  %s by %s (%s)", book.Title, book.Author, book.ReleaseYear)
		if book.AverageRating > 0 {
			fmt.Printf(" — rated %.1f", book.AverageRating)
		}
		fmt.Println()
	}

	if len(result.TopGenres) > 0 {
		fmt.Printf("\nMost common genres:\n")
		for _, genre := range result.TopGenres {
			fmt.Printf("  %s (%d)\n", genre, len(result.GenreIndex.ByGenre[genre]))
		}
	}

	if len(result.TopRated) > 0 {
		fmt.Printf("\nHighest rated:\n")
		for _, book := range result.TopRated {
			fmt.Printf("  %.1f  %s\n", book.AverageRating, book.Title)
		}
	}

	if len(result.Movies) > 0 {
		fmt.Printf("\nMovies (%d):\n", len(result.Movies))
		for _, movie := range result.Movies {
			fmt.Printf("  %s [%s]\n    %s\n", movie.Title, movie.ImdbID, movie.Synopsis)
		}
	}

	if len(result.Articles) > 0 {
		fmt.Printf("\nArticles (%d):\n", len(result.Articles))
		for _, article := range result.Articles {
			fmt.Printf("  %s — %s (%s)\n    %s\n", article.PublishedAt, article.Title, article.Source, article.URL)
		}
	}

	fmt.Printf("\nSearch history: %s\n", strings.Join(result.History, ", "))
	fmt.Printf("Duration: %v\n", duration)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
