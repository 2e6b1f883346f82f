package library

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Store loads and saves the full catalog state.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Close() error
}

// loadTimeout bounds how long startup waits on the store.
const loadTimeout = 10 * time.Second

// ManagerOptions configures a LibraryManager. Store may be nil, in which case
// the catalog lives in memory only.
type ManagerOptions struct {
	Store           Store
	DefaultLoanDays int
	Now             func() time.Time
	Logger          *logger.Logger
}

// LibraryManager is a thin façade over a Catalog that writes every successful
// change through to a Store.
type LibraryManager struct {
	// mu orders mutate+save pairs so snapshots reach the store in the order
	// the changes were made.
	mu      sync.Mutex
	catalog *Catalog
	store   Store
	log     logger.Logger
}

// NewLibraryManager builds a catalog and, if a store is configured, restores
// it from the store.
func NewLibraryManager(opts ManagerOptions) (*LibraryManager, error) {
	log := logger.New()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	lm := &LibraryManager{
		catalog: NewCatalog(CatalogOptions{
			DefaultLoanDays: opts.DefaultLoanDays,
			Now:             opts.Now,
			Logger:          &log,
		}),
		store: opts.Store,
		log:   log,
	}

	if lm.store == nil {
		return lm, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	s, err := lm.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	if err := lm.catalog.Restore(s); err != nil {
		return nil, errors.Wrap(err, "restore catalog")
	}
	lm.log.Info("catalog loaded", logger.Data{
		"books":     len(s.Books),
		"borrowers": len(s.Borrowers),
		"loans":     len(s.Loans),
	})
	return lm, nil
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error {
	if lm.store == nil {
		return nil
	}
	return lm.store.Close()
}

// Catalog exposes the managed catalog for read-only use.
func (lm *LibraryManager) Catalog() *Catalog { return lm.catalog }

// mutate runs fn and persists the catalog if fn succeeded. If the save fails
// the catalog is rolled back to its state before fn.
func (lm *LibraryManager) mutate(ctx context.Context, fn func() error) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.store == nil {
		return fn()
	}

	prev := lm.catalog.Snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := lm.store.Save(ctx, lm.catalog.Snapshot()); err != nil {
		lm.log.Err(err).Error("failed to save catalog")
		if rerr := lm.catalog.Restore(prev); rerr != nil {
			lm.log.Err(rerr).Error("failed to roll back catalog")
		}
		return errors.Wrap(err, "save catalog")
	}
	return nil
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(ctx context.Context, opts AddBookOptions) (b *Book, err error) {
	err = lm.mutate(ctx, func() error {
		b, err = lm.catalog.AddBook(opts)
		return err
	})
	return b, err
}

func (lm *LibraryManager) UpdateBook(ctx context.Context, isbn string, opts UpdateBookOptions) (b *Book, err error) {
	err = lm.mutate(ctx, func() error {
		b, err = lm.catalog.UpdateBook(isbn, opts)
		return err
	})
	return b, err
}

func (lm *LibraryManager) RemoveBook(ctx context.Context, isbn string) error {
	return lm.mutate(ctx, func() error { return lm.catalog.RemoveBook(isbn) })
}

func (lm *LibraryManager) GetBook(isbn string) (*Book, error) { return lm.catalog.GetBook(isbn) }
func (lm *LibraryManager) GetAllBooks() []*Book              { return lm.catalog.Books() }

// ------------------ Borrower helpers ------------------

func (lm *LibraryManager) AddBorrower(ctx context.Context, opts AddBorrowerOptions) (br *Borrower, err error) {
	err = lm.mutate(ctx, func() error {
		br, err = lm.catalog.AddBorrower(opts)
		return err
	})
	return br, err
}

func (lm *LibraryManager) UpdateBorrower(ctx context.Context, membershipID string, opts UpdateBorrowerOptions) (br *Borrower, err error) {
	err = lm.mutate(ctx, func() error {
		br, err = lm.catalog.UpdateBorrower(membershipID, opts)
		return err
	})
	return br, err
}

func (lm *LibraryManager) RemoveBorrower(ctx context.Context, membershipID string) error {
	return lm.mutate(ctx, func() error { return lm.catalog.RemoveBorrower(membershipID) })
}

func (lm *LibraryManager) GetBorrower(membershipID string) (*Borrower, error) {
	return lm.catalog.GetBorrower(membershipID)
}
func (lm *LibraryManager) GetAllBorrowers() []*Borrower { return lm.catalog.Borrowers() }

// ------------------ Circulation ------------------

func (lm *LibraryManager) BorrowBook(ctx context.Context, membershipID, isbn string, loanDays int) (l *Loan, err error) {
	err = lm.mutate(ctx, func() error {
		l, err = lm.catalog.BorrowBook(membershipID, isbn, loanDays)
		return err
	})
	return l, err
}

func (lm *LibraryManager) ReturnBook(ctx context.Context, membershipID, isbn string) (l *Loan, err error) {
	err = lm.mutate(ctx, func() error {
		l, err = lm.catalog.ReturnBook(membershipID, isbn)
		return err
	})
	return l, err
}

func (lm *LibraryManager) GetAllLoans() []*Loan { return lm.catalog.Loans() }

func (lm *LibraryManager) ListOverdue() iter.Seq[OverdueLoan] { return lm.catalog.ListOverdue() }

// ------------------ Search ------------------

func (lm *LibraryManager) SearchBooks(query string, field SearchField) ([]*Book, error) {
	return lm.catalog.SearchBooks(query, field)
}
