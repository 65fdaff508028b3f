package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

func TestParseBooksCSV(t *testing.T) {
	data := []byte(`Title,Author,Genre,Status,Pages,Price,User ID,Created At,Notes
Dune,Frank Herbert,Science Fiction,Reading,688,$25.99,1,2026-09-01,great
1984,George Orwell,Fiction,Completed,328,15.99,2,,
,Nobody,Fiction,,,,,,
Sapiens,Yuval Noah Harari,Non-Fiction,To Read,lots,abc,2,not-a-date,
`)

	books, err := ParseBooksCSV(data)
	require.NoError(t, err)
	require.Len(t, books, 3)

	dune := books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, catalog.GenreScienceFiction, dune.Genre)
	assert.Equal(t, catalog.StatusReading, dune.Status)
	assert.Equal(t, 688, dune.Pages)
	assert.InDelta(t, 25.99, dune.Price, 1e-9)
	assert.True(t, dune.OwnedBy("1"))
	require.NotNil(t, dune.CreatedAt)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *dune.CreatedAt)

	assert.Nil(t, books[1].CreatedAt)

	sapiens := books[2]
	assert.Zero(t, sapiens.Pages)
	assert.Zero(t, sapiens.Price)
	assert.Nil(t, sapiens.CreatedAt)
}

func TestParseBooksCSVHeaderAliases(t *testing.T) {
	books, err := ParseBooksCSV([]byte("title,category,userId\nThe Hobbit,Fantasy,7\n"))
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, catalog.GenreFantasy, books[0].Genre)
	assert.Equal(t, catalog.ID("7"), books[0].OwnerID)
}

func TestParseBooksCSVErrors(t *testing.T) {
	_, err := ParseBooksCSV(nil)
	assert.Error(t, err)

	_, err = ParseBooksCSV([]byte("author,genre\nX,Fiction\n"))
	assert.ErrorContains(t, err, "no title column")

	books, err := ParseBooksCSV([]byte("title\n"))
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "user_id", toSnakeCase("User ID"))
	assert.Equal(t, "created_at", toSnakeCase("Created-At"))
}
