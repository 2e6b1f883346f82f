package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/robinjoseph08/golib/pointerutil"
	"golang.org/x/term"

	"library-catalog/library"
)

// shell is the interactive prompt. Every command reads its arguments one line
// at a time, the way a librarian would fill in a form.
type shell struct {
	mgr         *library.LibraryManager
	sc          *bufio.Scanner
	out         io.Writer
	interactive bool
}

func newShell(mgr *library.LibraryManager, in io.Reader, out io.Writer) *shell {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &shell{
		mgr:         mgr,
		sc:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}
}

func (s *shell) Run(ctx context.Context) error {
	if s.interactive {
		fmt.Fprintln(s.out, "Welcome to the Library Catalog!")
		fmt.Fprintln(s.out, "Available commands:")
		fmt.Fprintln(s.out, "  Books: add book, update book, remove book, list books, search")
		fmt.Fprintln(s.out, "  Borrowers: add borrower, update borrower, remove borrower, list borrowers")
		fmt.Fprintln(s.out, "  Circulation: borrow, return, overdue, list loans")
		fmt.Fprintln(s.out, "  System: exit")
	}

	for {
		if s.interactive {
			fmt.Fprint(s.out, "\n> ")
		}
		if !s.sc.Scan() {
			return s.sc.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(s.sc.Text()))

		switch cmd {
		case "":
			continue
		case "add book":
			s.handleAddBook(ctx)
		case "update book":
			s.handleUpdateBook(ctx)
		case "remove book":
			s.handleRemoveBook(ctx)
		case "list books":
			printBooks(s.out, s.mgr.GetAllBooks())
		case "search":
			s.handleSearch()
		case "add borrower":
			s.handleAddBorrower(ctx)
		case "update borrower":
			s.handleUpdateBorrower(ctx)
		case "remove borrower":
			s.handleRemoveBorrower(ctx)
		case "list borrowers":
			printBorrowers(s.out, s.mgr.GetAllBorrowers())
		case "borrow":
			s.handleBorrow(ctx)
		case "return":
			s.handleReturn(ctx)
		case "overdue":
			printOverdue(s.out, s.mgr.ListOverdue())
		case "list loans":
			printLoans(s.out, s.mgr.Catalog(), s.mgr.GetAllLoans())
		case "exit", "quit":
			if s.interactive {
				fmt.Fprintln(s.out, "Goodbye!")
			}
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type one of the available commands listed above.\n", cmd)
		}
	}
}

// prompt reads one line. ok is false once input is exhausted.
func (s *shell) prompt(label string) (string, bool) {
	if s.interactive {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// promptOptional returns nil for a blank answer.
func (s *shell) promptOptional(label string) (*string, bool) {
	v, ok := s.prompt(label + " (blank to keep)")
	if !ok || v == "" {
		return nil, ok
	}
	return &v, true
}

// promptInt parses an integer answer. Blank yields def.
func (s *shell) promptInt(label string, def int) (int, bool) {
	v, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid number: %s\n", v)
		return 0, false
	}
	return n, true
}

func (s *shell) report(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *shell) handleAddBook(ctx context.Context) {
	var opts library.AddBookOptions
	var ok bool
	if opts.Title, ok = s.prompt("Title"); !ok {
		return
	}
	if opts.Author, ok = s.prompt("Author"); !ok {
		return
	}
	if opts.ISBN, ok = s.prompt("ISBN"); !ok {
		return
	}
	if opts.Genre, ok = s.prompt("Genre"); !ok {
		return
	}
	if opts.Quantity, ok = s.promptInt("Quantity", 1); !ok {
		return
	}

	book, err := s.mgr.AddBook(ctx, opts)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Book '%s' added to the library.\n", book.Title)
}

func (s *shell) handleUpdateBook(ctx context.Context) {
	isbn, ok := s.prompt("ISBN")
	if !ok {
		return
	}

	var opts library.UpdateBookOptions
	if opts.Title, ok = s.promptOptional("Title"); !ok {
		return
	}
	if opts.Author, ok = s.promptOptional("Author"); !ok {
		return
	}
	if opts.Genre, ok = s.promptOptional("Genre"); !ok {
		return
	}
	qty, ok := s.promptOptional("Quantity")
	if !ok {
		return
	}
	if qty != nil {
		n, err := strconv.Atoi(*qty)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid number: %s\n", *qty)
			return
		}
		opts.Quantity = pointerutil.Int(n)
	}

	if _, err := s.mgr.UpdateBook(ctx, isbn, opts); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Book with ISBN %s has been updated.\n", isbn)
}

func (s *shell) handleRemoveBook(ctx context.Context) {
	isbn, ok := s.prompt("ISBN")
	if !ok {
		return
	}
	if err := s.mgr.RemoveBook(ctx, isbn); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Book with ISBN %s has been removed from the library.\n", isbn)
}

func (s *shell) handleSearch() {
	query, ok := s.prompt("Query")
	if !ok {
		return
	}
	by, ok := s.prompt("Search by (title, author, genre)")
	if !ok {
		return
	}
	field, err := library.ParseSearchField(by)
	if err != nil {
		s.report(err)
		return
	}

	books, err := s.mgr.SearchBooks(query, field)
	if err != nil {
		s.report(err)
		return
	}
	printSearchResults(s.out, books)
}

func (s *shell) handleAddBorrower(ctx context.Context) {
	var opts library.AddBorrowerOptions
	var ok bool
	if opts.Name, ok = s.prompt("Name"); !ok {
		return
	}
	if opts.Contact, ok = s.prompt("Contact details"); !ok {
		return
	}
	if opts.MembershipID, ok = s.prompt("Membership ID"); !ok {
		return
	}

	borrower, err := s.mgr.AddBorrower(ctx, opts)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Borrower '%s' added to the system.\n", borrower.Name)
}

func (s *shell) handleUpdateBorrower(ctx context.Context) {
	id, ok := s.prompt("Membership ID")
	if !ok {
		return
	}

	var opts library.UpdateBorrowerOptions
	if opts.Name, ok = s.promptOptional("Name"); !ok {
		return
	}
	if opts.Contact, ok = s.promptOptional("Contact details"); !ok {
		return
	}

	if _, err := s.mgr.UpdateBorrower(ctx, id, opts); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Borrower with membership ID %s has been updated.\n", id)
}

func (s *shell) handleRemoveBorrower(ctx context.Context) {
	id, ok := s.prompt("Membership ID")
	if !ok {
		return
	}
	if err := s.mgr.RemoveBorrower(ctx, id); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Borrower with membership ID %s has been removed from the system.\n", id)
}

func (s *shell) handleBorrow(ctx context.Context) {
	id, ok := s.prompt("Membership ID")
	if !ok {
		return
	}
	isbn, ok := s.prompt("ISBN")
	if !ok {
		return
	}
	days, ok := s.promptInt(fmt.Sprintf("Loan days (blank for %d)", s.mgr.Catalog().DefaultLoanDays()), 0)
	if !ok {
		return
	}

	loan, err := s.mgr.BorrowBook(ctx, id, isbn, days)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Borrower '%s' borrowed '%s' due on %s.\n",
		borrowerName(s.mgr.Catalog(), id), bookTitle(s.mgr.Catalog(), isbn), loan.DueDate.Format(dateLayout))
}

func (s *shell) handleReturn(ctx context.Context) {
	id, ok := s.prompt("Membership ID")
	if !ok {
		return
	}
	isbn, ok := s.prompt("ISBN")
	if !ok {
		return
	}

	if _, err := s.mgr.ReturnBook(ctx, id, isbn); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Borrower '%s' returned '%s'.\n",
		borrowerName(s.mgr.Catalog(), id), bookTitle(s.mgr.Catalog(), isbn))
}
