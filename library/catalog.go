package library

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
)

// DefaultLoanDays is the loan period used when neither the catalog nor the
// borrow call specifies one.
const DefaultLoanDays = 14

// AddBookOptions describes a new book.
type AddBookOptions struct {
	ISBN     string `json:"isbn" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// UpdateBookOptions lists the fields to overwrite. Nil fields are left alone,
// as are empty strings; a non-nil Quantity of 0 sets the quantity to 0.
type UpdateBookOptions struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Genre    *string `json:"genre"`
	Quantity *int    `json:"quantity" validate:"omitempty,gte=0"`
}

// AddBorrowerOptions describes a new borrower.
type AddBorrowerOptions struct {
	MembershipID string `json:"membership_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Contact      string `json:"contact"`
}

// UpdateBorrowerOptions lists the borrower fields to overwrite.
type UpdateBorrowerOptions struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
}

// CatalogOptions configures a Catalog. Zero values fall back to defaults.
type CatalogOptions struct {
	DefaultLoanDays int
	Now             func() time.Time
	Logger          *logger.Logger
}

// Catalog owns the books, borrowers and loans of a library. All methods are
// safe for concurrent use; each one runs under a single lock so compound
// check-then-mutate sequences are atomic.
type Catalog struct {
	mu sync.Mutex

	books     map[string]*Book
	borrowers map[string]*Borrower
	loans     []*Loan
	current   map[LoanKey]*Loan

	loanDays int
	now      func() time.Time
	log      logger.Logger
}

// NewCatalog returns an empty catalog.
func NewCatalog(opts CatalogOptions) *Catalog {
	c := &Catalog{
		books:     map[string]*Book{},
		borrowers: map[string]*Borrower{},
		current:   map[LoanKey]*Loan{},
		loanDays:  opts.DefaultLoanDays,
		now:       opts.Now,
	}
	if c.loanDays <= 0 {
		c.loanDays = DefaultLoanDays
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	} else {
		c.log = logger.New()
	}
	return c
}

// DefaultLoanDays returns the loan period applied when BorrowBook is called
// with loanDays == 0.
func (c *Catalog) DefaultLoanDays() int {
	return c.loanDays
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// AddBook creates a book. It fails with DuplicateKey if the ISBN is in use.
func (c *Catalog) AddBook(opts AddBookOptions) (*Book, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.books[opts.ISBN]; ok {
		return nil, DuplicateKey("Book", opts.ISBN)
	}

	b := &Book{
		ISBN:     opts.ISBN,
		Title:    opts.Title,
		Author:   opts.Author,
		Genre:    opts.Genre,
		Quantity: opts.Quantity,
	}
	c.books[b.ISBN] = b
	c.log.Debug("book added", logger.Data{"isbn": b.ISBN, "title": b.Title, "quantity": b.Quantity})

	cp := *b
	return &cp, nil
}

// UpdateBook overwrites the supplied fields of an existing book.
func (c *Catalog) UpdateBook(isbn string, opts UpdateBookOptions) (*Book, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[isbn]
	if !ok {
		return nil, NotFound("Book", isbn)
	}

	if opts.Title != nil && *opts.Title != "" {
		b.Title = *opts.Title
	}
	if opts.Author != nil && *opts.Author != "" {
		b.Author = *opts.Author
	}
	if opts.Genre != nil && *opts.Genre != "" {
		b.Genre = *opts.Genre
	}
	if opts.Quantity != nil {
		b.Quantity = *opts.Quantity
	}
	c.log.Debug("book updated", logger.Data{"isbn": isbn})

	cp := *b
	return &cp, nil
}

// RemoveBook deletes a book. Loans that reference it are kept.
func (c *Catalog) RemoveBook(isbn string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.books[isbn]; !ok {
		return NotFound("Book", isbn)
	}
	delete(c.books, isbn)
	c.log.Debug("book removed", logger.Data{"isbn": isbn})
	return nil
}

// GetBook returns a copy of the book with the given ISBN.
func (c *Catalog) GetBook(isbn string) (*Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.books[isbn]
	if !ok {
		return nil, NotFound("Book", isbn)
	}
	cp := *b
	return &cp, nil
}

// Books returns copies of all books ordered by ISBN.
func (c *Catalog) Books() []*Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.booksLocked()
}

func (c *Catalog) booksLocked() []*Book {
	books := make([]*Book, 0, len(c.books))
	for _, b := range c.books {
		cp := *b
		books = append(books, &cp)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ISBN < books[j].ISBN })
	return books
}

// ---------------------------------------------------------------------------
// Borrowers
// ---------------------------------------------------------------------------

// AddBorrower registers a borrower. It fails with DuplicateKey if the
// membership ID is in use.
func (c *Catalog) AddBorrower(opts AddBorrowerOptions) (*Borrower, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.borrowers[opts.MembershipID]; ok {
		return nil, DuplicateKey("Borrower", opts.MembershipID)
	}

	br := &Borrower{
		MembershipID: opts.MembershipID,
		Name:         opts.Name,
		Contact:      opts.Contact,
	}
	c.borrowers[br.MembershipID] = br
	c.log.Debug("borrower added", logger.Data{"membership_id": br.MembershipID})

	cp := *br
	return &cp, nil
}

// UpdateBorrower overwrites the supplied fields of an existing borrower.
func (c *Catalog) UpdateBorrower(membershipID string, opts UpdateBorrowerOptions) (*Borrower, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	br, ok := c.borrowers[membershipID]
	if !ok {
		return nil, NotFound("Borrower", membershipID)
	}

	if opts.Name != nil && *opts.Name != "" {
		br.Name = *opts.Name
	}
	if opts.Contact != nil && *opts.Contact != "" {
		br.Contact = *opts.Contact
	}
	c.log.Debug("borrower updated", logger.Data{"membership_id": membershipID})

	cp := *br
	return &cp, nil
}

// RemoveBorrower deletes a borrower. Loans that reference it are kept.
func (c *Catalog) RemoveBorrower(membershipID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.borrowers[membershipID]; !ok {
		return NotFound("Borrower", membershipID)
	}
	delete(c.borrowers, membershipID)
	c.log.Debug("borrower removed", logger.Data{"membership_id": membershipID})
	return nil
}

// GetBorrower returns a copy of the borrower with the given membership ID.
func (c *Catalog) GetBorrower(membershipID string) (*Borrower, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	br, ok := c.borrowers[membershipID]
	if !ok {
		return nil, NotFound("Borrower", membershipID)
	}
	cp := *br
	return &cp, nil
}

// Borrowers returns copies of all borrowers ordered by membership ID.
func (c *Catalog) Borrowers() []*Borrower {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.borrowersLocked()
}

func (c *Catalog) borrowersLocked() []*Borrower {
	borrowers := make([]*Borrower, 0, len(c.borrowers))
	for _, br := range c.borrowers {
		cp := *br
		borrowers = append(borrowers, &cp)
	}
	sort.Slice(borrowers, func(i, j int) bool { return borrowers[i].MembershipID < borrowers[j].MembershipID })
	return borrowers
}

// ---------------------------------------------------------------------------
// Circulation
// ---------------------------------------------------------------------------

// BorrowBook lends one copy of a book. loanDays == 0 uses the catalog's
// default loan period. A borrower can hold at most one unreturned loan per
// book; a second borrow fails with AlreadyBorrowed.
func (c *Catalog) BorrowBook(membershipID, isbn string, loanDays int) (*Loan, error) {
	if loanDays < 0 {
		return nil, InvalidArgument("loan_days must be at least 1.")
	}
	if loanDays == 0 {
		loanDays = c.loanDays
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	br, ok := c.borrowers[membershipID]
	if !ok {
		return nil, NotFound("Borrower", membershipID)
	}
	b, ok := c.books[isbn]
	if !ok {
		return nil, NotFound("Book", isbn)
	}

	key := LoanKey{MembershipID: membershipID, ISBN: isbn}
	if l, ok := c.current[key]; ok && !l.Returned {
		return nil, AlreadyBorrowed(key)
	}
	if b.Quantity <= 0 {
		return nil, Unavailable(b.Title)
	}

	now := c.now()
	l := &Loan{
		ID:           uuid.New().String(),
		MembershipID: membershipID,
		ISBN:         isbn,
		BorrowedAt:   now,
		DueDate:      now.AddDate(0, 0, loanDays),
	}
	c.loans = append(c.loans, l)
	c.current[key] = l
	b.Quantity--

	c.log.Info("book borrowed", logger.Data{
		"membership_id": membershipID,
		"borrower":      br.Name,
		"isbn":          isbn,
		"title":         b.Title,
		"due_date":      l.DueDate.Format(time.DateOnly),
	})

	cp := *l
	return &cp, nil
}

// ReturnBook closes the current loan for the pair. The book's quantity is
// restored only if the book still exists.
func (c *Catalog) ReturnBook(membershipID, isbn string) (*Loan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := LoanKey{MembershipID: membershipID, ISBN: isbn}
	l, ok := c.current[key]
	if !ok {
		return nil, &Error{CodeNotFound, "This borrowing transaction does not exist."}
	}
	if l.Returned {
		return nil, AlreadyReturned(key)
	}

	now := c.now()
	l.Returned = true
	l.ReturnedAt = &now
	if b, ok := c.books[isbn]; ok {
		b.Quantity++
	}

	c.log.Info("book returned", logger.Data{"membership_id": membershipID, "isbn": isbn})

	cp := *l
	return &cp, nil
}

// GetLoan returns the current loan for the pair, returned or not.
func (c *Catalog) GetLoan(membershipID, isbn string) (*Loan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.current[LoanKey{MembershipID: membershipID, ISBN: isbn}]
	if !ok {
		return nil, &Error{CodeNotFound, "This borrowing transaction does not exist."}
	}
	cp := *l
	return &cp, nil
}

// Loans returns copies of every loan ever made, oldest first.
func (c *Catalog) Loans() []*Loan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loansLocked()
}

func (c *Catalog) loansLocked() []*Loan {
	loans := make([]*Loan, 0, len(c.loans))
	for _, l := range c.loans {
		cp := *l
		loans = append(loans, &cp)
	}
	return loans
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// Snapshot copies the full catalog state.
func (c *Catalog) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Snapshot{
		Books:     c.booksLocked(),
		Borrowers: c.borrowersLocked(),
		Loans:     c.loansLocked(),
	}
}

// Restore replaces the catalog state with the contents of s. The newest loan
// of each pair becomes its current loan.
func (c *Catalog) Restore(s *Snapshot) error {
	books := make(map[string]*Book, len(s.Books))
	for _, b := range s.Books {
		if _, ok := books[b.ISBN]; ok {
			return DuplicateKey("Book", b.ISBN)
		}
		if b.Quantity < 0 {
			return InvalidArgument("quantity must be at least 0.")
		}
		cp := *b
		books[b.ISBN] = &cp
	}

	borrowers := make(map[string]*Borrower, len(s.Borrowers))
	for _, br := range s.Borrowers {
		if _, ok := borrowers[br.MembershipID]; ok {
			return DuplicateKey("Borrower", br.MembershipID)
		}
		cp := *br
		borrowers[br.MembershipID] = &cp
	}

	loans := make([]*Loan, 0, len(s.Loans))
	current := make(map[LoanKey]*Loan, len(s.Loans))
	for _, l := range s.Loans {
		cp := *l
		loans = append(loans, &cp)
		current[cp.Key()] = &cp
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = books
	c.borrowers = borrowers
	c.loans = loans
	c.current = current
	return nil
}
