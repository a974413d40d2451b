// Package analytics provides pure functions over Book collections: genre
// grouping, genre frequency ranking, and rating ranking.
package analytics

import (
	"sort"

	"github.com/aluiziolira/go-bookscout/models"
)

// GenreIndex maps genre labels to the books carrying them. Genres keeps
// first-seen order; each bucket keeps the order books were encountered. A
// book appears under every genre it lists.
type GenreIndex struct {
	Genres  []string
	ByGenre map[string][]models.Book
}

// GroupByGenre scans books in input order and buckets them per genre token.
func GroupByGenre(books []models.Book) GenreIndex {
	index := GenreIndex{ByGenre: make(map[string][]models.Book)}
	for _, book := range books {
		for _, genre := range book.Genres {
			if _, seen := index.ByGenre[genre]; !seen {
				index.Genres = append(index.Genres, genre)
			}
			index.ByGenre[genre] = append(index.ByGenre[genre], book)
		}
	}
	return index
}

// RankGenresByFrequency orders genre labels by bucket size, largest first.
// Ties keep first-seen order.
func RankGenresByFrequency(index GenreIndex) []string {
	ranked := make([]string, len(index.Genres))
	copy(ranked, index.Genres)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(index.ByGenre[ranked[i]]) > len(index.ByGenre[ranked[j]])
	})
	return ranked
}

// RankByRating orders books by average rating, highest first. The sort is
// stable so equal ratings preserve input order.
func RankByRating(books []models.Book) []models.Book {
	ranked := make([]models.Book, len(books))
	copy(ranked, books)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})
	return ranked
}
