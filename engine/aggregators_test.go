package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// AGGREGATOR TESTS
// ============================================================================

func sampleBooks() []catalog.Book {
	return []catalog.Book{
		{ID: "1", Title: "Book A", Author: "Author 1", Genre: catalog.GenreFiction, Status: catalog.StatusCompleted, OwnerID: "1", Pages: 300, Price: 10.0},
		{ID: "2", Title: "Book B", Author: "Author 2", Genre: catalog.GenreFiction, Status: catalog.StatusReading, OwnerID: "1", Pages: 200, Price: 12.0},
		{ID: "3", Title: "Book C", Author: "Author 3", Genre: catalog.GenreFantasy, Status: catalog.StatusToRead, OwnerID: "2", Pages: 250, Price: 15.0},
		{ID: "4", Title: "Book D", Author: "Author 4", Genre: catalog.GenreFiction, Status: catalog.StatusToRead, OwnerID: "2", Pages: 150, Price: 8.0},
	}
}

func sampleUsers() []catalog.User {
	return []catalog.User{
		{ID: "1", Name: "User One", Email: "one@example.com", Role: catalog.RoleUser},
		{ID: "2", Name: "User Two", Email: "two@example.com", Role: catalog.RoleUser},
	}
}

func TestGroupedCountsCoverEveryBook(t *testing.T) {
	cases := map[string][]catalog.Book{
		"empty":  nil,
		"sample": sampleBooks(),
		"blank fields": {
			{Title: "No genre"},
			{Title: "Also none", Genre: catalog.GenreMystery},
		},
	}

	for name, books := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, len(books), CountByGenre(books).Total())
			assert.Equal(t, len(books), CountByStatus(books).Total())
			assert.Equal(t, len(books), CountByOwner(books).Total())
			assert.Equal(t, len(books), CountByTitle(books).Total())
		})
	}
}

func TestCountByGenreKeepsFirstSeenOrder(t *testing.T) {
	counts := CountByGenre(sampleBooks())
	assert.Equal(t, Counts{
		{Key: "Fiction", N: 3},
		{Key: "Fantasy", N: 1},
	}, counts)
}

func TestCountByStatusBlankIsUnknown(t *testing.T) {
	counts := CountByStatus([]catalog.Book{{Title: "x"}})
	assert.Equal(t, 1, counts.Get(UnknownKey))
}

func TestEmptyInputsYieldEmptyAggregates(t *testing.T) {
	assert.Empty(t, CountByOwner(nil))
	assert.Empty(t, CountByTitle([]catalog.Book{}))
	assert.Empty(t, AveragePriceByGenre(nil))
	assert.Empty(t, TopNByPrice(nil, 5))
	assert.Empty(t, RecentByOwner(nil, time.Hour, time.Now()))

	_, _, ok := FavoriteGenre(nil)
	assert.False(t, ok)

	_, ok = Counts(nil).Top()
	assert.False(t, ok)
}

func TestAveragePriceByGenre(t *testing.T) {
	avgs := AveragePriceByGenre(sampleBooks())
	require.Len(t, avgs, 2)

	fiction, ok := avgs.Get("Fiction")
	require.True(t, ok)
	assert.InDelta(t, 10.0, fiction, 1e-9)

	fantasy, ok := avgs.Get("Fantasy")
	require.True(t, ok)
	assert.InDelta(t, 15.0, fantasy, 1e-9)

	assert.Equal(t, 3, avgs[0].Count)
}

func TestTopNByPriceSortsDescendingAndClamps(t *testing.T) {
	books := sampleBooks()

	top := TopNByPrice(books, 10)
	require.Len(t, top, 4)
	assert.Equal(t, []float64{15, 12, 10, 8}, prices(top))

	assert.Len(t, TopNByPrice(books, 2), 2)
	assert.Empty(t, TopNByPrice(books, -3))

	// input order untouched
	assert.Equal(t, []float64{10, 12, 15, 8}, prices(books))
}

func TestTopNByPriceIsStable(t *testing.T) {
	books := []catalog.Book{
		{Title: "first", Price: 5},
		{Title: "cheap", Price: 1},
		{Title: "second", Price: 5},
		{Title: "third", Price: 5},
	}

	top := TopNByPrice(books, 3)
	assert.Equal(t, []string{"first", "second", "third"}, titles(top))
}

func TestRecentByOwnerWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	books := []catalog.Book{
		{OwnerID: "1", CreatedAt: at(-24 * time.Hour)},
		{OwnerID: "1", CreatedAt: at(-40 * 24 * time.Hour)}, // too old
		{OwnerID: "2", CreatedAt: nil},                      // always recent
		{OwnerID: "2", CreatedAt: at(-DefaultRecentWindow)}, // on the boundary
		{OwnerID: "3", CreatedAt: at(time.Hour)},            // future
	}

	counts := RecentByOwner(books, DefaultRecentWindow, now)
	assert.Equal(t, Counts{
		{Key: "1", N: 1},
		{Key: "2", N: 2},
	}, counts)
}

func TestFavoriteGenreTieGoesToFirstSeen(t *testing.T) {
	books := []catalog.Book{
		{Genre: catalog.GenreMystery},
		{Genre: catalog.GenreFantasy},
		{Genre: catalog.GenreFantasy},
		{Genre: catalog.GenreMystery},
	}

	genre, n, ok := FavoriteGenre(books)
	require.True(t, ok)
	assert.Equal(t, catalog.GenreMystery, genre)
	assert.Equal(t, 2, n)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$15.99", FormatPrice(15.99))
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$12.50", FormatPrice(12.5))
}

func prices(books []catalog.Book) []float64 {
	out := make([]float64, len(books))
	for i, b := range books {
		out[i] = b.Price
	}
	return out
}

func titles(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
