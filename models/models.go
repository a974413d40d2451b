// Package models defines data structures shared across the search services.
package models

// Default values substituted for missing catalog fields.
const (
	DefaultTitle       = "No Title"
	DefaultAuthor      = "No Author"
	DefaultReleaseYear = "No Release Year"
	DefaultURL         = "No URL"
)

// Book is the canonical book record normalized from a catalog search result.
// AverageRating is always a non-negative finite number; a missing rating is 0.
type Book struct {
	Title         string   `csv:"title" json:"title"`
	Author        string   `csv:"author" json:"author"`
	ReleaseYear   string   `csv:"release_year" json:"release_year"`
	URL           string   `csv:"url" json:"url"`
	Genres        []string `csv:"genres" json:"genres"`
	AverageRating float64  `csv:"average_rating" json:"average_rating"`
}

// MovieRef identifies a movie returned by the movie database search.
type MovieRef struct {
	Title  string `json:"title"`
	ImdbID string `json:"imdb_id"`
}

// Movie pairs a movie reference with its scraped synopsis.
type Movie struct {
	MovieRef
	Synopsis string `json:"synopsis"`
}

// ArticleRef is a news article entry. PublishedAt keeps the source's
// ISO-8601 timestamp string; lexicographic order matches chronological order.
type ArticleRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}
