package search

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/aluiziolira/go-bookscout/catalog"
	"github.com/aluiziolira/go-bookscout/imdb"
	"github.com/aluiziolira/go-bookscout/models"
)

type stubCatalog struct {
	books   []models.Book
	total   int
	err     error
	gotOpts catalog.SearchOptions
}

func (s *stubCatalog) Search(_ context.Context, _ string, opts catalog.SearchOptions) ([]models.Book, int, error) {
	s.gotOpts = opts
	return s.books, s.total, s.err
}

type stubMovies struct {
	refs []models.MovieRef
	err  error
}

func (s *stubMovies) Search(context.Context, string) ([]models.MovieRef, error) {
	return s.refs, s.err
}

type stubNews struct {
	articles []models.ArticleRef
	err      error
}

func (s *stubNews) Search(context.Context, string, int, int, string) ([]models.ArticleRef, error) {
	return s.articles, s.err
}

type stubSynopses struct {
	mu    sync.Mutex
	texts map[string]string
	fails map[string]error
	calls int
}

func (s *stubSynopses) Synopsis(_ context.Context, imdbID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.fails[imdbID]; ok {
		return "", err
	}
	return s.texts[imdbID], nil
}

func testBooks() []models.Book {
	return []models.Book{
		{Title: "Dune", Author: "Frank Herbert", Genres: []string{"sci-fi"}, AverageRating: 4.5},
		{Title: "Dune Messiah", Author: "Frank Herbert", Genres: []string{"sci-fi", "classic"}, AverageRating: 4.0},
	}
}

func newTestService(cat Catalog, mov MovieSearcher, art ArticleSearcher, syn imdb.SynopsisProvider) *Service {
	return NewService(ServiceConfig{
		Catalog:  cat,
		Movies:   mov,
		News:     art,
		Synopses: syn,
	})
}

func TestPerformAggregatesAllSections(t *testing.T) {
	cat := &stubCatalog{books: testBooks(), total: 99}
	mov := &stubMovies{refs: []models.MovieRef{
		{Title: "Dune", ImdbID: "tt1"},
		{Title: "Dune: Part Two", ImdbID: "tt2"},
	}}
	art := &stubNews{articles: []models.ArticleRef{{Title: "Dune news"}}}
	syn := &stubSynopses{texts: map[string]string{"tt1": "First plot.", "tt2": "Second plot."}}

	svc := newTestService(cat, mov, art, syn)
	result, err := svc.Perform(context.Background(), "dune", Filters{})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}

	if len(result.Books) != 2 || result.TotalItems != 99 {
		t.Fatalf("books=%d total=%d, want 2/99", len(result.Books), result.TotalItems)
	}
	if len(result.Movies) != 2 {
		t.Fatalf("movies = %d, want 2", len(result.Movies))
	}
	// Pairing must stay index-aligned with the movie search order.
	if result.Movies[0].ImdbID != "tt1" || result.Movies[0].Synopsis != "First plot." {
		t.Fatalf("movies[0] = %+v", result.Movies[0])
	}
	if result.Movies[1].ImdbID != "tt2" || result.Movies[1].Synopsis != "Second plot." {
		t.Fatalf("movies[1] = %+v", result.Movies[1])
	}
	if len(result.Articles) != 1 {
		t.Fatalf("articles = %d, want 1", len(result.Articles))
	}
	if want := []string{"sci-fi", "classic"}; !reflect.DeepEqual(result.GenreIndex.Genres, want) {
		t.Fatalf("genre index = %v, want %v", result.GenreIndex.Genres, want)
	}
	if want := []string{"sci-fi", "classic"}; !reflect.DeepEqual(result.TopGenres, want) {
		t.Fatalf("top genres = %v, want %v", result.TopGenres, want)
	}
	if result.TopRated[0].Title != "Dune" {
		t.Fatalf("top rated = %v", result.TopRated)
	}
	if want := []string{"dune"}; !reflect.DeepEqual(result.History, want) {
		t.Fatalf("history = %v, want %v", result.History, want)
	}
}

func TestPerformCatalogFailureFailsRequest(t *testing.T) {
	cat := &stubCatalog{err: errors.New("catalog down")}
	svc := newTestService(cat, &stubMovies{}, &stubNews{}, &stubSynopses{})

	if _, err := svc.Perform(context.Background(), "dune", Filters{}); err == nil {
		t.Fatal("expected error when the catalog fails")
	}
}

func TestPerformIsolatesCompanionFailures(t *testing.T) {
	cat := &stubCatalog{books: testBooks(), total: 2}
	mov := &stubMovies{err: errors.New("omdb down")}
	art := &stubNews{err: errors.New("news down")}

	svc := newTestService(cat, mov, art, &stubSynopses{})
	result, err := svc.Perform(context.Background(), "dune", Filters{})
	if err != nil {
		t.Fatalf("companion failures must not fail the request, got %v", err)
	}
	if len(result.Books) != 2 {
		t.Fatalf("books = %d, want 2 despite companion failures", len(result.Books))
	}
	if len(result.Movies) != 0 || len(result.Articles) != 0 {
		t.Fatalf("movies=%d articles=%d, want both empty", len(result.Movies), len(result.Articles))
	}
}

func TestPerformSynopsisFailureFallsBackPerMovie(t *testing.T) {
	cat := &stubCatalog{books: testBooks(), total: 2}
	mov := &stubMovies{refs: []models.MovieRef{
		{Title: "Dune", ImdbID: "tt1"},
		{Title: "Dune: Part Two", ImdbID: "tt2"},
		{Title: "Dune (1984)", ImdbID: "tt3"},
	}}
	syn := &stubSynopses{
		texts: map[string]string{"tt1": "First plot.", "tt3": "Third plot."},
		fails: map[string]error{"tt2": errors.New("blocked")},
	}

	svc := newTestService(cat, mov, &stubNews{}, syn)
	result, err := svc.Perform(context.Background(), "dune", Filters{})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}

	if result.Movies[0].Synopsis != "First plot." {
		t.Fatalf("movies[0].Synopsis = %q", result.Movies[0].Synopsis)
	}
	if result.Movies[1].Synopsis != imdb.FallbackSynopsis {
		t.Fatalf("movies[1].Synopsis = %q, want fallback", result.Movies[1].Synopsis)
	}
	if result.Movies[2].Synopsis != "Third plot." {
		t.Fatalf("movies[2].Synopsis = %q (alignment broken)", result.Movies[2].Synopsis)
	}
}

func TestPerformPassesFiltersToCatalog(t *testing.T) {
	cat := &stubCatalog{}
	svc := NewService(ServiceConfig{
		Catalog:    cat,
		Movies:     &stubMovies{},
		News:       &stubNews{},
		Synopses:   &stubSynopses{},
		MaxResults: 25,
	})

	filters := Filters{
		Language:   "en",
		OrderBy:    "newest",
		Author:     "herbert",
		Genre:      "sci-fi",
		MinRating:  4.0,
		StartIndex: 10,
	}
	if _, err := svc.Perform(context.Background(), "dune", filters); err != nil {
		t.Fatalf("perform: %v", err)
	}

	want := catalog.SearchOptions{
		MaxResults: 25,
		StartIndex: 10,
		Language:   "en",
		OrderBy:    "newest",
		Author:     "herbert",
		Genre:      "sci-fi",
		MinRating:  4.0,
	}
	if cat.gotOpts != want {
		t.Fatalf("catalog options = %+v, want %+v", cat.gotOpts, want)
	}
}

func TestPerformAccumulatesHistory(t *testing.T) {
	cat := &stubCatalog{}
	svc := newTestService(cat, &stubMovies{}, &stubNews{}, &stubSynopses{})
	ctx := context.Background()

	for _, query := range []string{"dune", "foundation", "hyperion"} {
		if _, err := svc.Perform(ctx, query, Filters{}); err != nil {
			t.Fatalf("perform %q: %v", query, err)
		}
	}

	result, err := svc.Perform(ctx, "dune", Filters{})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	want := []string{"dune", "foundation", "hyperion", "dune"}
	if !reflect.DeepEqual(result.History, want) {
		t.Fatalf("history = %v, want %v", result.History, want)
	}
}
