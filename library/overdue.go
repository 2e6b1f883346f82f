package library

import (
	"iter"
	"sort"
	"time"
)

// ListOverdue yields every unreturned loan whose due date has passed, as of
// the moment iteration starts. The sequence can be ranged over repeatedly;
// each pass re-reads the catalog.
func (c *Catalog) ListOverdue() iter.Seq[OverdueLoan] {
	return func(yield func(OverdueLoan) bool) {
		for o := range c.ListOverdueAt(c.now()) {
			if !yield(o) {
				return
			}
		}
	}
}

// ListOverdueAt is ListOverdue evaluated against t instead of the clock.
// Entries are ordered by due date, then membership ID, then ISBN.
func (c *Catalog) ListOverdueAt(t time.Time) iter.Seq[OverdueLoan] {
	return func(yield func(OverdueLoan) bool) {
		for _, o := range c.collectOverdue(t) {
			if !yield(o) {
				return
			}
		}
	}
}

func (c *Catalog) collectOverdue(t time.Time) []OverdueLoan {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []OverdueLoan
	for _, l := range c.current {
		if !l.IsOverdue(t) {
			continue
		}
		o := OverdueLoan{Loan: *l}
		if b, ok := c.books[l.ISBN]; ok {
			o.BookTitle = b.Title
		} else {
			o.BookMissing = true
		}
		if br, ok := c.borrowers[l.MembershipID]; ok {
			o.BorrowerName = br.Name
		} else {
			o.BorrowerMissing = true
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Loan, out[j].Loan
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.MembershipID != b.MembershipID {
			return a.MembershipID < b.MembershipID
		}
		return a.ISBN < b.ISBN
	})
	return out
}
