package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// AGGREGATORS: Pure statistics over a book collection
// ============================================================================
// Every function is total: an empty or nil slice yields the empty aggregate.
// Grouped outputs keep first-appearance order so callers can tie-break
// "first seen wins" without re-scanning the input.
// ============================================================================

// UnknownKey labels books whose grouping field is blank.
const UnknownKey = "Unknown"

// tally groups books by key in a single pass.
func tally(books []catalog.Book, key func(catalog.Book) string) Counts {
	index := make(map[string]int)
	counts := make(Counts, 0)

	for _, b := range books {
		k := key(b)
		if i, ok := index[k]; ok {
			counts[i].N++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, Count{Key: k, N: 1})
	}
	return counts
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownKey
	}
	return s
}

// CountByOwner counts books per owner id.
func CountByOwner(books []catalog.Book) Counts {
	return tally(books, func(b catalog.Book) string { return b.OwnerID.String() })
}

// CountByTitle counts books per title.
func CountByTitle(books []catalog.Book) Counts {
	return tally(books, func(b catalog.Book) string { return b.Title })
}

// CountByGenre counts books per genre. Blank genres count as UnknownKey.
func CountByGenre(books []catalog.Book) Counts {
	return tally(books, func(b catalog.Book) string { return orUnknown(string(b.Genre)) })
}

// CountByStatus counts books per reading status. Blank statuses count as UnknownKey.
func CountByStatus(books []catalog.Book) Counts {
	return tally(books, func(b catalog.Book) string { return orUnknown(string(b.Status)) })
}

// AveragePriceByGenre computes sum(price)/count per genre.
func AveragePriceByGenre(books []catalog.Book) Averages {
	type acc struct {
		sum   float64
		count int
	}
	index := make(map[string]int)
	order := make([]string, 0)
	sums := make([]acc, 0)

	for _, b := range books {
		g := orUnknown(string(b.Genre))
		i, ok := index[g]
		if !ok {
			i = len(order)
			index[g] = i
			order = append(order, g)
			sums = append(sums, acc{})
		}
		sums[i].sum += b.Price
		sums[i].count++
	}

	out := make(Averages, 0, len(order))
	for i, g := range order {
		out = append(out, Average{
			Key:   g,
			Mean:  sums[i].sum / float64(sums[i].count),
			Count: sums[i].count,
		})
	}
	return out
}

// TopNByPrice returns up to n books ordered by price, highest first.
// Equal prices keep their input order. n is clamped to [0, len(books)].
// The input slice is not reordered.
func TopNByPrice(books []catalog.Book, n int) []catalog.Book {
	if n < 0 {
		n = 0
	}
	if n > len(books) {
		n = len(books)
	}

	sorted := make([]catalog.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })

	return sorted[:n]
}

// RecentByOwner counts books per owner whose CreatedAt lies in [now-window, now].
// Books without CreatedAt always count.
func RecentByOwner(books []catalog.Book, window time.Duration, now time.Time) Counts {
	from := now.Add(-window)
	return tally(filterBooks(books, func(b catalog.Book) bool {
		if b.CreatedAt == nil {
			return true
		}
		t := *b.CreatedAt
		return !t.Before(from) && !t.After(now)
	}), func(b catalog.Book) string { return b.OwnerID.String() })
}

// FavoriteGenre returns the most frequent genre in books.
// Ties go to the genre whose first book appears earliest.
func FavoriteGenre(books []catalog.Book) (catalog.Genre, int, bool) {
	top, ok := CountByGenre(books).Top()
	if !ok {
		return "", 0, false
	}
	return catalog.Genre(top.Key), top.N, true
}

func filterBooks(books []catalog.Book, keep func(catalog.Book) bool) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatPrice renders an amount as "$X.XX".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
