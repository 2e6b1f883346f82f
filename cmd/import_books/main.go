package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"

	"library-catalog/library"
	"library-catalog/textutil"
)

// importReport counts the outcome of an import run.
type importReport struct {
	Imported int
	Failed   int
}

func main() {
	log := logger.New()

	var opts struct {
		Database string `short:"d" long:"db" default:"library.db" description:"SQLite database to import into"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/import_books [--db library.db] <path/to/books.json>")
		os.Exit(1)
	}

	books, err := readBooks(args[0])
	if err != nil {
		log.Err(err).Fatal("read books error")
	}

	db, err := library.NewDatabase(opts.Database)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	quiet := logger.NewWithLevel("warn")
	manager, err := library.NewLibraryManager(library.ManagerOptions{Store: db, Logger: &quiet})
	if err != nil {
		db.Close()
		log.Err(err).Fatal("catalog load error")
	}
	defer manager.Close()

	fmt.Printf("Importing %d book(s) from %s...\n", len(books), args[0])
	report := importBooks(context.Background(), manager, books)

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", report.Imported)
	fmt.Printf("Errors: %d\n", report.Failed)

	if report.Imported > 0 {
		fmt.Println("\nCatalog:")
		fmt.Printf("%-15s %-50s %-30s\n", "ISBN", "Title", "Author")
		fmt.Println(strings.Repeat("-", 97))
		for _, book := range manager.GetAllBooks() {
			fmt.Printf("%-15s %-50s %-30s\n", book.ISBN, textutil.Truncate(book.Title, 50), textutil.Truncate(book.Author, 30))
		}
	}
}

// readBooks decodes a JSON array of books.
func readBooks(path string) ([]library.AddBookOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var books []library.AddBookOptions
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return books, nil
}

// importBooks adds each book in turn. A failed book is reported and skipped.
func importBooks(ctx context.Context, manager *library.LibraryManager, books []library.AddBookOptions) importReport {
	var report importReport
	for _, b := range books {
		fmt.Printf("Importing: %s by %s... ", b.Title, b.Author)

		if _, err := manager.AddBook(ctx, b); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			report.Failed++
			continue
		}

		fmt.Printf("SUCCESS (ISBN: %s)\n", b.ISBN)
		report.Imported++
	}
	return report
}
