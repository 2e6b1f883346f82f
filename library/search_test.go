package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearch(t *testing.T) *Catalog {
	t.Helper()
	c, _ := newTestCatalog(t)
	for _, o := range []AddBookOptions{
		{ISBN: "1234567890", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", Quantity: 5},
		{ISBN: "1234567891", Title: "1984", Author: "George Orwell", Genre: "Dystopian", Quantity: 10},
		{ISBN: "1234567892", Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Classic", Quantity: 7},
		{ISBN: "1234567893", Title: "Animal Farm", Author: "George Orwell", Genre: "Political Fiction", Quantity: 2},
	} {
		_, err := c.AddBook(o)
		require.NoError(t, err)
	}
	return c
}

func isbns(books []*Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ISBN)
	}
	return out
}

func TestSearchBooks(t *testing.T) {
	t.Parallel()
	c := seedSearch(t)

	tests := []struct {
		name     string
		query    string
		field    SearchField
		expected []string
	}{
		{"title case-insensitive", "gatsby", SearchByTitle, []string{"1234567890"}},
		{"title substring", "MOCKING", SearchByTitle, []string{"1234567892"}},
		{"author", "orwell", SearchByAuthor, []string{"1234567891", "1234567893"}},
		{"genre substring", "fiction", SearchByGenre, []string{"1234567890", "1234567893"}},
		{"empty query matches all", "", SearchByTitle, []string{"1234567890", "1234567891", "1234567892", "1234567893"}},
		{"no match", "tolkien", SearchByAuthor, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.SearchBooks(tt.query, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, isbns(res))
		})
	}
}

func TestSearchBooks_UnknownField(t *testing.T) {
	t.Parallel()
	c := seedSearch(t)

	_, err := c.SearchBooks("x", SearchField("isbn"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseSearchField(t *testing.T) {
	t.Parallel()

	f, err := ParseSearchField("")
	require.NoError(t, err)
	assert.Equal(t, SearchByTitle, f)

	f, err = ParseSearchField(" Author ")
	require.NoError(t, err)
	assert.Equal(t, SearchByAuthor, f)

	_, err = ParseSearchField("publisher")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
