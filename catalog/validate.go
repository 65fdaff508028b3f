package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects per-field problems with a record.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid book: " + strings.Join(parts, "; ")
}

// Normalize trims text fields and applies the default status.
func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = Genre(strings.TrimSpace(string(b.Genre)))
	if b.Status == "" {
		b.Status = StatusToRead
	}
}

// Validate checks required fields and enum membership.
// Returns *ValidationError or nil.
func (b Book) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(b.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(b.Author) == "" {
		fields["author"] = "Author is required"
	}
	switch {
	case b.Genre == "":
		fields["genre"] = "Genre is required"
	case !b.Genre.Valid():
		fields["genre"] = fmt.Sprintf("Unknown genre %q", b.Genre)
	}
	if b.Status != "" && !b.Status.Valid() {
		fields["status"] = fmt.Sprintf("Unknown status %q", b.Status)
	}
	if b.Pages < 0 {
		fields["pages"] = "Pages cannot be negative"
	}
	if b.Price < 0 {
		fields["price"] = "Price cannot be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
