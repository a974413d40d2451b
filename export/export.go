// Package export writes a book result set to disk for use outside the CLI.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-bookscout/models"
)

// WriteCSV writes books to a CSV file with a header row. Genres are joined
// with "; " inside a single column.
func WriteCSV(filename string, books []models.Book) error {
	if err := ensureDir(filename); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"title", "author", "release_year", "url", "genres", "average_rating"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, book := range books {
		record := []string{
			book.Title,
			book.Author,
			book.ReleaseYear,
			book.URL,
			strings.Join(book.Genres, "; "),
			strconv.FormatFloat(book.AverageRating, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// WriteJSON writes books in JSONL format, one record per line.
func WriteJSON(filename string, books []models.Book) error {
	if err := ensureDir(filename); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	buffer := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffer)
	for _, book := range books {
		if err := encoder.Encode(book); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}

	if err := buffer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
