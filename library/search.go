package library

import (
	"fmt"
	"strings"
)

// SearchField selects the book attribute SearchBooks matches against.
type SearchField string

const (
	SearchByTitle  SearchField = "title"
	SearchByAuthor SearchField = "author"
	SearchByGenre  SearchField = "genre"
)

// ParseSearchField converts user input into a SearchField. The empty string
// means title.
func ParseSearchField(s string) (SearchField, error) {
	switch f := SearchField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SearchByTitle, nil
	case SearchByTitle, SearchByAuthor, SearchByGenre:
		return f, nil
	default:
		return "", InvalidArgument(fmt.Sprintf("Unknown search field %q; use title, author or genre.", s))
	}
}

func (f SearchField) value(b *Book) (string, bool) {
	switch f {
	case SearchByTitle:
		return b.Title, true
	case SearchByAuthor:
		return b.Author, true
	case SearchByGenre:
		return b.Genre, true
	}
	return "", false
}

// SearchBooks returns the books whose field contains query, ignoring case,
// ordered by ISBN. An empty query matches every book. An unknown field fails
// with InvalidArgument.
func (c *Catalog) SearchBooks(query string, field SearchField) ([]*Book, error) {
	if _, ok := field.value(&Book{}); !ok {
		return nil, InvalidArgument(fmt.Sprintf("Unknown search field %q; use title, author or genre.", string(field)))
	}

	q := strings.ToLower(query)
	results := []*Book{}
	for _, b := range c.Books() {
		v, _ := field.value(b)
		if strings.Contains(strings.ToLower(v), q) {
			results = append(results, b)
		}
	}
	return results, nil
}
