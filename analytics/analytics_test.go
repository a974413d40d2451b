package analytics

import (
	"reflect"
	"testing"

	"github.com/aluiziolira/go-bookscout/models"
)

func TestGroupByGenre(t *testing.T) {
	book1 := models.Book{Title: "First", Genres: []string{"sci-fi", "drama"}}
	book2 := models.Book{Title: "Second", Genres: []string{"drama"}}

	index := GroupByGenre([]models.Book{book1, book2})

	if want := []string{"sci-fi", "drama"}; !reflect.DeepEqual(index.Genres, want) {
		t.Fatalf("Genres = %v, want first-seen order %v", index.Genres, want)
	}

	drama := index.ByGenre["drama"]
	if len(drama) != 2 || drama[0].Title != "First" || drama[1].Title != "Second" {
		t.Fatalf("drama bucket = %v, want [First, Second] in scan order", drama)
	}
	if scifi := index.ByGenre["sci-fi"]; len(scifi) != 1 || scifi[0].Title != "First" {
		t.Fatalf("sci-fi bucket = %v", scifi)
	}
}

func TestGroupByGenreEmptyAndNoGenres(t *testing.T) {
	index := GroupByGenre(nil)
	if len(index.Genres) != 0 || len(index.ByGenre) != 0 {
		t.Fatalf("index for nil input = %+v, want empty", index)
	}

	index = GroupByGenre([]models.Book{{Title: "Plain"}})
	if len(index.Genres) != 0 {
		t.Fatalf("book without genres must not create buckets, got %v", index.Genres)
	}
}

func TestRankGenresByFrequency(t *testing.T) {
	index := GroupByGenre([]models.Book{
		{Title: "First", Genres: []string{"sci-fi", "drama"}},
		{Title: "Second", Genres: []string{"drama"}},
	})

	if got, want := RankGenresByFrequency(index), []string{"drama", "sci-fi"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ranked = %v, want %v", got, want)
	}
}

func TestRankGenresByFrequencyTiesKeepFirstSeenOrder(t *testing.T) {
	index := GroupByGenre([]models.Book{
		{Title: "First", Genres: []string{"horror", "comedy", "drama"}},
		{Title: "Second", Genres: []string{"drama"}},
	})

	ranked := RankGenresByFrequency(index)
	if want := []string{"drama", "horror", "comedy"}; !reflect.DeepEqual(ranked, want) {
		t.Fatalf("ranked = %v, want %v (ties in first-seen order)", ranked, want)
	}
}

func TestRankByRatingStable(t *testing.T) {
	a := models.Book{Title: "A", AverageRating: 3.0}
	b := models.Book{Title: "B", AverageRating: 5.0}
	c := models.Book{Title: "C", AverageRating: 5.0}

	input := []models.Book{a, b, c}
	ranked := RankByRating(input)

	if ranked[0].Title != "B" || ranked[1].Title != "C" || ranked[2].Title != "A" {
		t.Fatalf("ranked = %v, want [B C A] (equal ratings keep input order)", titles(ranked))
	}

	// Input order must be untouched.
	if input[0].Title != "A" || input[1].Title != "B" || input[2].Title != "C" {
		t.Fatalf("input mutated: %v", titles(input))
	}
}

func titles(books []models.Book) []string {
	out := make([]string, len(books))
	for i, book := range books {
		out[i] = book.Title
	}
	return out
}
