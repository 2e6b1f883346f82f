package main

import (
	"fmt"
	"io"

	"library-catalog/library"
)

// runSampleScenario walks a fresh catalog through a typical day: stocking
// books, registering borrowers, a couple of loans, a return, an overdue check
// and a few searches.
func runSampleScenario(c *library.Catalog, w io.Writer) {
	report := func(err error) {
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}

	for _, b := range []library.AddBookOptions{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "1234567890", Genre: "Fiction", Quantity: 5},
		{Title: "1984", Author: "George Orwell", ISBN: "1234567891", Genre: "Dystopian", Quantity: 10},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "1234567892", Genre: "Classic", Quantity: 7},
	} {
		book, err := c.AddBook(b)
		report(err)
		if err == nil {
			fmt.Fprintf(w, "Book '%s' added to the library.\n", book.Title)
		}
	}

	for _, br := range []library.AddBorrowerOptions{
		{Name: "John Doe", Contact: "john.doe@example.com", MembershipID: "MEM001"},
		{Name: "Jane Smith", Contact: "jane.smith@example.com", MembershipID: "MEM002"},
	} {
		borrower, err := c.AddBorrower(br)
		report(err)
		if err == nil {
			fmt.Fprintf(w, "Borrower '%s' added to the system.\n", borrower.Name)
		}
	}

	for _, p := range []library.LoanKey{
		{MembershipID: "MEM001", ISBN: "1234567890"},
		{MembershipID: "MEM002", ISBN: "1234567891"},
	} {
		loan, err := c.BorrowBook(p.MembershipID, p.ISBN, 0)
		report(err)
		if err == nil {
			fmt.Fprintf(w, "Borrower '%s' borrowed '%s' due on %s.\n",
				borrowerName(c, p.MembershipID), bookTitle(c, p.ISBN), loan.DueDate.Format(dateLayout))
		}
	}

	if _, err := c.ReturnBook("MEM001", "1234567890"); err != nil {
		report(err)
	} else {
		fmt.Fprintf(w, "Borrower '%s' returned '%s'.\n", borrowerName(c, "MEM001"), bookTitle(c, "1234567890"))
	}

	printOverdue(w, c.ListOverdue())

	for _, q := range []struct {
		label string
		query string
		field library.SearchField
	}{
		{"Title '1984'", "1984", library.SearchByTitle},
		{"Author 'George Orwell'", "George Orwell", library.SearchByAuthor},
		{"Genre 'Fiction'", "Fiction", library.SearchByGenre},
	} {
		fmt.Fprintf(w, "\nSearch by %s:\n", q.label)
		books, err := c.SearchBooks(q.query, q.field)
		if err != nil {
			report(err)
			continue
		}
		printSearchResults(w, books)
	}

	fmt.Fprintln(w, "\nLibrary Database:")
	for _, b := range c.Books() {
		fmt.Fprintf(w, "%s: %s, %s, %s, %d copies available\n", b.ISBN, b.Title, b.Author, b.Genre, b.Quantity)
	}

	fmt.Fprintln(w, "\nBorrower Database:")
	for _, br := range c.Borrowers() {
		fmt.Fprintf(w, "%s: %s, %s\n", br.MembershipID, br.Name, br.Contact)
	}

	fmt.Fprintln(w, "\nBorrowed Books:")
	printLoans(w, c, c.Loans())
}
