package main

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"library-catalog/library"
	"library-catalog/textutil"
)

const dateLayout = "2006-01-02"

func bookTitle(c *library.Catalog, isbn string) string {
	if b, err := c.GetBook(isbn); err == nil {
		return b.Title
	}
	return "(removed)"
}

func borrowerName(c *library.Catalog, id string) string {
	if br, err := c.GetBorrower(id); err == nil {
		return br.Name
	}
	return "(removed)"
}

func printBooks(w io.Writer, books []*library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in library.")
		return
	}

	fmt.Fprintf(w, "%-15s %-30s %-25s %-15s %s\n", "ISBN", "Title", "Author", "Genre", "Available")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, b := range books {
		fmt.Fprintf(w, "%-15s %-30s %-25s %-15s %d\n",
			textutil.Truncate(b.ISBN, 15),
			textutil.Truncate(b.Title, 30),
			textutil.Truncate(b.Author, 25),
			textutil.Truncate(b.Genre, 15),
			b.Quantity)
	}
}

func printSearchResults(w io.Writer, books []*library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found matching the query.")
		return
	}
	for _, b := range books {
		fmt.Fprintf(w, "Title: %s, Author: %s, Genre: %s, Available Copies: %d\n", b.Title, b.Author, b.Genre, b.Quantity)
	}
}

func printBorrowers(w io.Writer, borrowers []*library.Borrower) {
	if len(borrowers) == 0 {
		fmt.Fprintln(w, "No borrowers registered.")
		return
	}

	fmt.Fprintf(w, "%-15s %-30s %s\n", "Membership ID", "Name", "Contact")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, br := range borrowers {
		fmt.Fprintf(w, "%-15s %-30s %s\n", textutil.Truncate(br.MembershipID, 15), textutil.Truncate(br.Name, 30), br.Contact)
	}
}

func printLoans(w io.Writer, c *library.Catalog, loans []*library.Loan) {
	if len(loans) == 0 {
		fmt.Fprintln(w, "No books have been borrowed.")
		return
	}
	for _, l := range loans {
		status := "due on " + l.DueDate.Format(dateLayout)
		if l.Returned {
			status = "returned"
		}
		fmt.Fprintf(w, "%s borrowed %s (%s) - %s\n", l.MembershipID, l.ISBN, bookTitle(c, l.ISBN), status)
	}
}

func printOverdue(w io.Writer, overdue iter.Seq[library.OverdueLoan]) {
	n := 0
	for o := range overdue {
		n++
		title, name := o.BookTitle, o.BorrowerName
		if o.BookMissing {
			title = o.Loan.ISBN + " (removed)"
		}
		if o.BorrowerMissing {
			name = o.Loan.MembershipID + " (removed)"
		}
		fmt.Fprintf(w, "Book '%s' borrowed by '%s' is overdue (due %s).\n", title, name, o.Loan.DueDate.Format(dateLayout))
	}
	if n == 0 {
		fmt.Fprintln(w, "No overdue books.")
	}
}
