package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsCompleteBook(t *testing.T) {
	b := Book{Title: " Dune ", Author: "Frank Herbert", Genre: GenreScienceFiction, Pages: 412, Price: 25.99}
	b.Normalize()

	require.NoError(t, b.Validate())
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, StatusToRead, b.Status)
}

func TestValidateReportsEveryField(t *testing.T) {
	err := Book{Genre: "Poetry", Status: "Lost", Pages: -1, Price: -2}.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"title":  "Title is required",
		"author": "Author is required",
		"genre":  `Unknown genre "Poetry"`,
		"status": `Unknown status "Lost"`,
		"pages":  "Pages cannot be negative",
		"price":  "Price cannot be negative",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "author: Author is required; genre:")
}

func TestValidateMissingGenre(t *testing.T) {
	err := Book{Title: "x", Author: "y"}.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Genre is required", verr.Fields["genre"])
}
