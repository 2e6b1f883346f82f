package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/library"
)

func runScript(t *testing.T, mgr *library.LibraryManager, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, newShell(mgr, in, &out).Run(context.Background()))
	return out.String()
}

func newMemoryManager(t *testing.T) *library.LibraryManager {
	t.Helper()
	mgr, err := library.NewLibraryManager(library.ManagerOptions{})
	require.NoError(t, err)
	return mgr
}

func TestShell_BorrowReturn(t *testing.T) {
	mgr := newMemoryManager(t)

	out := runScript(t, mgr,
		"add book", "1984", "George Orwell", "ISBN-1", "Dystopian", "1",
		"add borrower", "Alice", "alice@example.com", "M1",
		"add borrower", "Bob", "bob@example.com", "M2",
		"borrow", "M1", "ISBN-1", "",
		"borrow", "M2", "ISBN-1", "",
		"return", "M1", "ISBN-1",
		"return", "M1", "ISBN-1",
		"exit",
	)

	assert.Contains(t, out, "Book '1984' added to the library.")
	assert.Contains(t, out, "Borrower 'Alice' added to the system.")
	assert.Contains(t, out, "Borrower 'Alice' borrowed '1984' due on")
	assert.Contains(t, out, `No copies of "1984" are available for borrowing.`)
	assert.Contains(t, out, "Borrower 'Alice' returned '1984'.")
	assert.Contains(t, out, "has already been returned.")

	b, err := mgr.GetBook("ISBN-1")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Quantity)
}

func TestShell_UpdateAndSearch(t *testing.T) {
	mgr := newMemoryManager(t)

	out := runScript(t, mgr,
		"add book", "The Great Gatsby", "F. Scott Fitzgerald", "ISBN-1", "Fiction", "5",
		"update book", "ISBN-1", "", "", "Classic", "0",
		"search", "gatsby", "title",
		"search", "x", "publisher",
		"list books",
	)

	assert.Contains(t, out, "Book with ISBN ISBN-1 has been updated.")
	assert.Contains(t, out, "Title: The Great Gatsby, Author: F. Scott Fitzgerald, Genre: Classic, Available Copies: 0")
	assert.Contains(t, out, `Unknown search field "publisher"`)
}

func TestShell_UnknownCommandAndErrors(t *testing.T) {
	mgr := newMemoryManager(t)

	out := runScript(t, mgr,
		"dance",
		"remove book", "nope",
		"remove borrower", "nope",
		"overdue",
		"list loans",
	)

	assert.Contains(t, out, `Unknown command "dance"`)
	assert.Contains(t, out, `Book with ID "nope" does not exist.`)
	assert.Contains(t, out, `Borrower with ID "nope" does not exist.`)
	assert.Contains(t, out, "No overdue books.")
	assert.Contains(t, out, "No books have been borrowed.")
}

func TestShell_PersistsToDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")

	db, err := library.NewDatabase(path)
	require.NoError(t, err)
	mgr, err := library.NewLibraryManager(library.ManagerOptions{Store: db})
	require.NoError(t, err)
	runScript(t, mgr, "add borrower", "Alice", "alice@example.com", "M1")
	require.NoError(t, mgr.Close())

	db, err = library.NewDatabase(path)
	require.NoError(t, err)
	mgr, err = library.NewLibraryManager(library.ManagerOptions{Store: db})
	require.NoError(t, err)
	defer mgr.Close()

	out := runScript(t, mgr, "list borrowers")
	assert.Contains(t, out, "Alice")
}

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	runSampleScenario(library.NewCatalog(library.CatalogOptions{}), &out)
	s := out.String()

	assert.Contains(t, s, "Borrower 'John Doe' borrowed 'The Great Gatsby'")
	assert.Contains(t, s, "Borrower 'John Doe' returned 'The Great Gatsby'.")
	assert.Contains(t, s, "No overdue books.")
	assert.Contains(t, s, "1234567890: The Great Gatsby, F. Scott Fitzgerald, Fiction, 5 copies available")
	assert.Contains(t, s, "1234567891: 1984, George Orwell, Dystopian, 9 copies available")
	assert.Contains(t, s, "MEM001 borrowed 1234567890 (The Great Gatsby) - returned")
	assert.NotContains(t, s, "Error:")
}

func TestShell_ListBooksTruncatesByRune(t *testing.T) {
	mgr := newMemoryManager(t)

	out := runScript(t, mgr,
		"add book", "Mémoires d'Hadrien et autres récits choisis", "Marguerite Yourcenar", "ISBN-1", "Roman", "1",
		"list books",
	)

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "Mémoires d'Hadrien et autre...")
}
