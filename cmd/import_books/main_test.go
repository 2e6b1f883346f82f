package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/library"
)

func TestReadBooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	data := `[
		{"isbn": "1234567891", "title": "1984", "author": "George Orwell", "genre": "Dystopian", "quantity": 10},
		{"isbn": "1234567893", "title": "Animal Farm", "author": "George Orwell", "genre": "Satire", "quantity": 2}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	books, err := readBooks(path)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Animal Farm", books[1].Title)
	assert.Equal(t, 10, books[0].Quantity)
}

func TestReadBooks_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"isbn":`), 0o644))

	_, err := readBooks(path)
	assert.Error(t, err)
}

func TestImportBooks_SkipsFailures(t *testing.T) {
	db, err := library.NewDatabase(filepath.Join(t.TempDir(), "lib.db"))
	require.NoError(t, err)
	mgr, err := library.NewLibraryManager(library.ManagerOptions{Store: db})
	require.NoError(t, err)
	defer mgr.Close()

	report := importBooks(context.Background(), mgr, []library.AddBookOptions{
		{ISBN: "A", Title: "First", Quantity: 1},
		{ISBN: "A", Title: "Duplicate", Quantity: 1},
		{ISBN: "B", Title: "", Quantity: 1},
		{ISBN: "C", Title: "Third", Quantity: 3},
	})

	assert.Equal(t, importReport{Imported: 2, Failed: 2}, report)
	assert.Len(t, mgr.GetAllBooks(), 2)
}
