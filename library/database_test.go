package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_EmptyLoad(t *testing.T) {
	t.Parallel()
	db := tempDB(t)

	s, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Books)
	assert.Empty(t, s.Borrowers)
	assert.Empty(t, s.Loans)
}

func TestDatabase_SaveLoad(t *testing.T) {
	t.Parallel()
	db := tempDB(t)
	ctx := context.Background()

	borrowed := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	returned := borrowed.Add(48 * time.Hour)
	in := &Snapshot{
		Books: []*Book{
			{ISBN: "A", Title: "1984", Author: "George Orwell", Genre: "Dystopian", Quantity: 0},
			{ISBN: "B", Title: "Animal Farm", Author: "George Orwell", Genre: "Satire", Quantity: 2},
		},
		Borrowers: []*Borrower{
			{MembershipID: "M1", Name: "Alice", Contact: "alice@example.com"},
		},
		Loans: []*Loan{
			{ID: "l-2", MembershipID: "M1", ISBN: "A", BorrowedAt: borrowed, DueDate: borrowed.AddDate(0, 0, 14), Returned: true, ReturnedAt: &returned},
			{ID: "l-1", MembershipID: "M1", ISBN: "A", BorrowedAt: returned, DueDate: returned.AddDate(0, 0, 14)},
			{ID: "l-3", MembershipID: "M9", ISBN: "Z", BorrowedAt: borrowed, DueDate: borrowed.AddDate(0, 0, 1)},
		},
	}
	require.NoError(t, db.Save(ctx, in))

	out, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.Books, out.Books)
	assert.Equal(t, in.Borrowers, out.Borrowers)

	require.Len(t, out.Loans, 3)
	for i, l := range out.Loans {
		want := in.Loans[i]
		assert.Equal(t, want.ID, l.ID)
		assert.Equal(t, want.Key(), l.Key())
		assert.True(t, want.BorrowedAt.Equal(l.BorrowedAt))
		assert.True(t, want.DueDate.Equal(l.DueDate))
		assert.Equal(t, want.Returned, l.Returned)
		if want.ReturnedAt == nil {
			assert.Nil(t, l.ReturnedAt)
		} else {
			require.NotNil(t, l.ReturnedAt)
			assert.True(t, want.ReturnedAt.Equal(*l.ReturnedAt))
		}
	}
}

func TestDatabase_SaveReplaces(t *testing.T) {
	t.Parallel()
	db := tempDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, &Snapshot{Books: []*Book{{ISBN: "A", Title: "a", Quantity: 1}}}))
	require.NoError(t, db.Save(ctx, &Snapshot{Books: []*Book{{ISBN: "B", Title: "b", Quantity: 1}}}))

	s, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, s.Books, 1)
	assert.Equal(t, "B", s.Books[0].ISBN)
}

func TestDatabase_FailedSaveRollsBack(t *testing.T) {
	t.Parallel()
	db := tempDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, &Snapshot{Books: []*Book{{ISBN: "A", Title: "a", Quantity: 1}}}))
	err := db.Save(ctx, &Snapshot{Books: []*Book{
		{ISBN: "B", Title: "b", Quantity: 1},
		{ISBN: "B", Title: "dup", Quantity: 1},
	}})
	require.Error(t, err)

	s, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, s.Books, 1)
	assert.Equal(t, "A", s.Books[0].ISBN)
}

func TestDatabase_Reopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "lib.db")
	ctx := context.Background()

	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, &Snapshot{Borrowers: []*Borrower{{MembershipID: "M1", Name: "Alice"}}}))
	require.NoError(t, db.Close())

	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	s, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, s.Borrowers, 1)
	assert.Equal(t, "Alice", s.Borrowers[0].Name)
}
