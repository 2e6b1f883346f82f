package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Database is a SQLite-backed Store.
type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

// Close closes the DB.
func (d *Database) Close() error {
	return errors.WithStack(d.db.Close())
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return errors.Wrap(err, "enable WAL")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return errors.WithStack(err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	// Loans may outlive the book or borrower they reference, so there are no
	// foreign keys.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            isbn TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            genre TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS borrowers (
            membership_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            contact TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            seq INTEGER PRIMARY KEY,
            id TEXT NOT NULL UNIQUE,
            membership_id TEXT NOT NULL,
            isbn TEXT NOT NULL,
            borrowed_at DATETIME NOT NULL,
            due_date DATETIME NOT NULL,
            returned BOOLEAN NOT NULL DEFAULT 0,
            returned_at DATETIME
        );`,
		`CREATE INDEX IF NOT EXISTS idx_loans_key ON loans(membership_id, isbn);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}

	_, err = tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion)
	if err != nil {
		return errors.Wrap(err, "record schema version")
	}

	return errors.WithStack(tx.Commit())
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Load reads the whole catalog. Loans come back in the order they were saved.
func (d *Database) Load(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{
		Books:     []*Book{},
		Borrowers: []*Borrower{},
		Loans:     []*Loan{},
	}

	rows, err := d.db.QueryContext(ctx, `SELECT isbn,title,author,genre,quantity FROM books ORDER BY isbn`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Genre, &b.Quantity); err != nil {
			rows.Close()
			return nil, errors.WithStack(err)
		}
		s.Books = append(s.Books, &b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	rows, err = d.db.QueryContext(ctx, `SELECT membership_id,name,contact FROM borrowers ORDER BY membership_id`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for rows.Next() {
		var br Borrower
		if err := rows.Scan(&br.MembershipID, &br.Name, &br.Contact); err != nil {
			rows.Close()
			return nil, errors.WithStack(err)
		}
		s.Borrowers = append(s.Borrowers, &br)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	rows, err = d.db.QueryContext(ctx, `SELECT id,membership_id,isbn,borrowed_at,due_date,returned,returned_at FROM loans ORDER BY seq`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l          Loan
			returnedAt sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.MembershipID, &l.ISBN, &l.BorrowedAt, &l.DueDate, &l.Returned, &returnedAt); err != nil {
			return nil, errors.WithStack(err)
		}
		if returnedAt.Valid {
			t := returnedAt.Time
			l.ReturnedAt = &t
		}
		s.Loans = append(s.Loans, &l)
	}
	return s, errors.WithStack(rows.Err())
}

// Save replaces the stored catalog with s in one transaction.
func (d *Database) Save(ctx context.Context, s *Snapshot) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	for _, table := range []string{"books", "borrowers", "loans"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return errors.Wrapf(err, "clear %s", table)
		}
	}

	bookStmt, err := tx.PrepareContext(ctx, `INSERT INTO books(isbn,title,author,genre,quantity) VALUES(?,?,?,?,?)`)
	if err != nil {
		return errors.WithStack(err)
	}
	defer bookStmt.Close()
	for _, b := range s.Books {
		if _, err := bookStmt.ExecContext(ctx, b.ISBN, b.Title, b.Author, b.Genre, b.Quantity); err != nil {
			return errors.Wrapf(err, "save book %s", b.ISBN)
		}
	}

	borrowerStmt, err := tx.PrepareContext(ctx, `INSERT INTO borrowers(membership_id,name,contact) VALUES(?,?,?)`)
	if err != nil {
		return errors.WithStack(err)
	}
	defer borrowerStmt.Close()
	for _, br := range s.Borrowers {
		if _, err := borrowerStmt.ExecContext(ctx, br.MembershipID, br.Name, br.Contact); err != nil {
			return errors.Wrapf(err, "save borrower %s", br.MembershipID)
		}
	}

	loanStmt, err := tx.PrepareContext(ctx, `INSERT INTO loans(seq,id,membership_id,isbn,borrowed_at,due_date,returned,returned_at) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.WithStack(err)
	}
	defer loanStmt.Close()
	for i, l := range s.Loans {
		var returnedAt interface{}
		if l.ReturnedAt != nil {
			returnedAt = l.ReturnedAt.UTC()
		}
		_, err := loanStmt.ExecContext(ctx, i+1, l.ID, l.MembershipID, l.ISBN,
			l.BorrowedAt.UTC(), l.DueDate.UTC(), l.Returned, returnedAt)
		if err != nil {
			return errors.Wrapf(err, "save loan %s", l.ID)
		}
	}

	return errors.WithStack(tx.Commit())
}
