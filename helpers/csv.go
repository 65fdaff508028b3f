package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// CSV HELPER: Parses a books export into []catalog.Book
// ============================================================================
// Header names are matched loosely ("User ID", "user_id", "userId", "owner").
// Unknown columns are ignored. Rows the reader cannot parse are skipped.
// Numbers that fail to parse become zero; the book still imports.
// ============================================================================

type bookColumn int

const (
	colSkip bookColumn = iota
	colID
	colTitle
	colAuthor
	colGenre
	colStatus
	colPages
	colPrice
	colOwner
	colCreatedAt
)

var headerAliases = map[string]bookColumn{
	"id":         colID,
	"title":      colTitle,
	"author":     colAuthor,
	"genre":      colGenre,
	"category":   colGenre,
	"status":     colStatus,
	"pages":      colPages,
	"price":      colPrice,
	"user_id":    colOwner,
	"userid":     colOwner,
	"owner":      colOwner,
	"owner_id":   colOwner,
	"ownerid":    colOwner,
	"created_at": colCreatedAt,
	"createdat":  colCreatedAt,
}

// ParseBooksCSV parses CSV bytes with a header row into books.
// A title column is required.
func ParseBooksCSV(data []byte) ([]catalog.Book, error) {
	return ReadBooksCSV(strings.NewReader(string(data)))
}

// ReadBooksCSV is ParseBooksCSV over a reader.
func ReadBooksCSV(r io.Reader) ([]catalog.Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	mappings := make([]bookColumn, len(headers))
	hasTitle := false
	for i, h := range headers {
		mappings[i] = headerAliases[toSnakeCase(strings.TrimSpace(h))]
		if mappings[i] == colTitle {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("CSV has no title column (headers: %s)", strings.Join(headers, ", "))
	}

	books := []catalog.Book{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		var b catalog.Book
		for i, val := range row {
			if i >= len(mappings) {
				break
			}
			applyCell(&b, mappings[i], strings.TrimSpace(val))
		}
		if b.Title == "" {
			continue
		}
		books = append(books, b)
	}

	return books, nil
}

func applyCell(b *catalog.Book, col bookColumn, val string) {
	switch col {
	case colID:
		b.ID = catalog.ID(val)
	case colTitle:
		b.Title = val
	case colAuthor:
		b.Author = val
	case colGenre:
		b.Genre = catalog.Genre(val)
	case colStatus:
		b.Status = catalog.Status(val)
	case colPages:
		if n, err := strconv.Atoi(val); err == nil {
			b.Pages = n
		}
	case colPrice:
		if f, err := strconv.ParseFloat(strings.TrimPrefix(val, "$"), 64); err == nil {
			b.Price = f
		}
	case colOwner:
		b.OwnerID = catalog.ID(val)
	case colCreatedAt:
		if t, ok := parseDate(val); ok {
			b.CreatedAt = &t
		}
	}
}

func parseDate(val string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
