package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/engine"
	"github.com/FatjonaGashi/library-management-system/store"
)

func TestMain(m *testing.M) {
	logger = zap.NewNop()
	os.Exit(m.Run())
}

func expensiveResult() engine.Result {
	return engine.NewTable([]engine.Row{
		{{Key: engine.ColTitle, Value: "Dune"}, {Key: engine.ColPrice, Value: "$25.99"}},
		{{Key: engine.ColTitle, Value: "The Hobbit"}, {Key: engine.ColPrice, Value: "$14.99"}},
	})
}

func TestWriteResultCSVTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatCSV, expensiveResult()))
	assert.Equal(t, "Title,Price\nDune,$25.99\nThe Hobbit,$14.99\n", buf.String())
}

func TestWriteResultCSVText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatCSV, engine.NewText("John Doe owns the most books with 5 books.")))
	assert.Equal(t, "Answer\nJohn Doe owns the most books with 5 books.\n", buf.String())
}

func TestWriteResultTextAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatText, expensiveResult()))
	assert.Equal(t, "Title       Price\nDune        $25.99\nThe Hobbit  $14.99\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, formatText, engine.NewTable(nil)))
	assert.Equal(t, "No rows.\n", buf.String())
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatJSON, engine.NewText("hi")))
	assert.JSONEq(t, `{"type":"text","result":"hi"}`, buf.String())
}

func TestWriteLinesAndRecommendations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLines(&buf, formatText, []string{"a", "b"}))
	assert.Equal(t, "• a\n• b\n", buf.String())

	buf.Reset()
	require.NoError(t, writeRecommendations(&buf, formatText, nil))
	assert.Equal(t, "No recommendations yet.\n", buf.String())

	buf.Reset()
	recs := []engine.Recommendation{{Title: "Dune", Author: "Frank Herbert", Genre: catalog.GenreScienceFiction, Reason: "Based on your interest in Science Fiction"}}
	require.NoError(t, writeRecommendations(&buf, formatCSV, recs))
	assert.Equal(t, "Title,Author,Genre,Reason\nDune,Frank Herbert,Science Fiction,Based on your interest in Science Fiction\n", buf.String())
}

func TestCellFormatting(t *testing.T) {
	assert.Equal(t, "3", cell(3))
	assert.Equal(t, "4", cell(4.0))
	assert.Equal(t, "2.50", cell(2.5))
	assert.Equal(t, "", cell(nil))
}

func TestDemoViewer(t *testing.T) {
	u, ok := demoViewer(store.DemoUsers(), " JOHN@example.com ")
	require.True(t, ok)
	assert.Equal(t, "John Doe", u.Name)

	_, ok = demoViewer(store.DemoUsers(), "nobody@example.com")
	assert.False(t, ok)
}

func TestLoadBooksAssignsMissingOwner(t *testing.T) {
	books, err := loadBooks("", "1")
	require.NoError(t, err)
	assert.Equal(t, store.DemoBooks(), books)

	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,author,price,user_id\nDune,Frank Herbert,25.99,\nEmma,Jane Austen,9.99,7\n"), 0o644))

	books, err = loadBooks(path, "2")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, catalog.ID("2"), books[0].OwnerID)
	assert.Equal(t, catalog.ID("7"), books[1].OwnerID)

	_, err = loadBooks(filepath.Join(t.TempDir(), "missing.csv"), "1")
	assert.Error(t, err)
}
