package catalog

import (
	"math"
	"strings"

	"github.com/aluiziolira/go-bookscout/models"
	"github.com/tidwall/gjson"
)

// Normalize converts one raw catalog item into the canonical Book record.
// The payload is semi-structured; every missing field degrades to its
// default instead of erroring.
func Normalize(item gjson.Result) models.Book {
	info := item.Get("volumeInfo")

	book := models.Book{
		Title:       models.DefaultTitle,
		Author:      models.DefaultAuthor,
		ReleaseYear: models.DefaultReleaseYear,
		URL:         models.DefaultURL,
	}

	if title := info.Get("title"); title.Exists() {
		book.Title = title.String()
	}
	if authors := info.Get("authors"); authors.IsArray() {
		values := authors.Array()
		names := make([]string, 0, len(values))
		for _, value := range values {
			names = append(names, value.String())
		}
		if len(names) > 0 {
			book.Author = strings.Join(names, ", ")
		}
	}
	if date := info.Get("publishedDate"); date.Exists() {
		book.ReleaseYear = releaseYear(date.String())
	}
	if link := info.Get("previewLink"); link.Exists() {
		book.URL = link.String()
	}
	for _, category := range info.Get("categories").Array() {
		book.Genres = append(book.Genres, category.String())
	}
	book.AverageRating = clampRating(info.Get("averageRating").Float())

	return book
}

// releaseYear keeps the leading four characters of the published date.
// Shorter strings pass through untouched, without padding or validation.
func releaseYear(date string) string {
	if len(date) > 4 {
		return date[:4]
	}
	return date
}

// clampRating enforces the invariant that a rating is a non-negative finite
// number; anything else collapses to 0.
func clampRating(rating float64) float64 {
	if math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 {
		return 0
	}
	return rating
}
