package library

import "time"

// Book is a catalog entry. Quantity is the number of copies currently on the
// shelf, so it drops by one on every borrow and rises on every return.
type Book struct {
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity"`
}

// Borrower is a registered library member.
type Borrower struct {
	MembershipID string `json:"membership_id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
}

// LoanKey identifies the current loan slot of a borrower/book pair.
type LoanKey struct {
	MembershipID string `json:"membership_id"`
	ISBN         string `json:"isbn"`
}

// Loan records one borrowing transaction. Loans are never deleted; a returned
// loan is terminal.
type Loan struct {
	ID           string     `json:"id"`
	MembershipID string     `json:"membership_id"`
	ISBN         string     `json:"isbn"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueDate      time.Time  `json:"due_date"`
	Returned     bool       `json:"returned"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

// Key returns the composite key of the loan.
func (l *Loan) Key() LoanKey {
	return LoanKey{MembershipID: l.MembershipID, ISBN: l.ISBN}
}

// IsOverdue reports whether the loan is unreturned and its due date is
// strictly before t.
func (l *Loan) IsOverdue(t time.Time) bool {
	return !l.Returned && l.DueDate.Before(t)
}

// OverdueLoan is a loan resolved against the book and borrower it references.
// The Missing flags are set when the referenced record was removed after the
// loan was made.
type OverdueLoan struct {
	Loan            Loan   `json:"loan"`
	BookTitle       string `json:"book_title"`
	BorrowerName    string `json:"borrower_name"`
	BookMissing     bool   `json:"book_missing"`
	BorrowerMissing bool   `json:"borrower_missing"`
}

// Snapshot represents the complete catalog state for persistence. Loans are
// kept in the order they were created.
type Snapshot struct {
	Books     []*Book     `json:"books"`
	Borrowers []*Borrower `json:"borrowers"`
	Loans     []*Loan     `json:"loans"`
}
