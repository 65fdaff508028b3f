package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// SQLite is a Store backed by a single SQLite file (pure Go driver).
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TEXT
);

CREATE TABLE IF NOT EXISTS books (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	author     TEXT NOT NULL,
	genre      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'To Read',
	pages      INTEGER NOT NULL DEFAULT 0,
	price      REAL NOT NULL DEFAULT 0,
	user_id    TEXT NOT NULL,
	created_at TEXT,
	updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_books_user_id ON books(user_id);
`

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: keeps ":memory:" coherent and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// ============================================================================
// USERS
// ============================================================================

const userColumns = "id, name, email, password_hash, role, created_at"

func (s *SQLite) CreateUser(ctx context.Context, u catalog.User) (catalog.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID.IsZero() {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = catalog.RoleUser
	}
	u.CreatedAt = stamp(u.CreatedAt, s.now())

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		u.ID.String(), u.Name, u.Email, u.PasswordHash, string(u.Role), formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.User{}, fmt.Errorf("create user %s: %w", u.Email, ErrDuplicateEmail)
		}
		return catalog.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *SQLite) User(ctx context.Context, id catalog.ID) (catalog.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id.String())
	u, err := scanUser(row)
	if err != nil {
		return catalog.User{}, fmt.Errorf("user %s: %w", id, err)
	}
	return u, nil
}

func (s *SQLite) UserByEmail(ctx context.Context, email string) (catalog.User, error) {
	email = normalizeEmail(email)
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	u, err := scanUser(row)
	if err != nil {
		return catalog.User{}, fmt.Errorf("user %s: %w", email, err)
	}
	return u, nil
}

func (s *SQLite) Users(ctx context.Context) ([]catalog.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []catalog.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLite) UpdateUser(ctx context.Context, u catalog.User) (catalog.User, error) {
	u.Email = normalizeEmail(u.Email)
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password_hash = ?, role = ? WHERE id = ?",
		u.Name, u.Email, u.PasswordHash, string(u.Role), u.ID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.User{}, fmt.Errorf("update user %s: %w", u.ID, ErrDuplicateEmail)
		}
		return catalog.User{}, fmt.Errorf("update user %s: %w", u.ID, err)
	}
	if err := expectRow(res); err != nil {
		return catalog.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return s.User(ctx, u.ID)
}

func (s *SQLite) DeleteUser(ctx context.Context, id catalog.ID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("user %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM books WHERE user_id = ?", id.String()); err != nil {
		return fmt.Errorf("delete books of %s: %w", id, err)
	}
	return tx.Commit()
}

// ============================================================================
// BOOKS
// ============================================================================

const bookColumns = "id, title, author, genre, status, pages, price, user_id, created_at, updated_at"

func (s *SQLite) CreateBook(ctx context.Context, b catalog.Book) (catalog.Book, error) {
	if b.ID.IsZero() {
		b.ID = newID()
	}
	b.CreatedAt = stamp(b.CreatedAt, s.now())

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO books ("+bookColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID.String(), b.Title, b.Author, string(b.Genre), string(b.Status),
		b.Pages, b.Price, b.OwnerID.String(), formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return catalog.Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (s *SQLite) Book(ctx context.Context, id catalog.ID) (catalog.Book, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id.String())
	b, err := scanBook(row)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("book %s: %w", id, err)
	}
	return b, nil
}

func (s *SQLite) Books(ctx context.Context, owner catalog.ID) ([]catalog.Book, error) {
	query := "SELECT " + bookColumns + " FROM books"
	var args []any
	if !owner.IsZero() {
		query += " WHERE user_id = ?"
		args = append(args, owner.String())
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *SQLite) UpdateBook(ctx context.Context, b catalog.Book) (catalog.Book, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, genre = ?, status = ?, pages = ?, price = ?,
		 user_id = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Author, string(b.Genre), string(b.Status), b.Pages, b.Price,
		b.OwnerID.String(), formatTime(&now), b.ID.String())
	if err != nil {
		return catalog.Book{}, fmt.Errorf("update book %s: %w", b.ID, err)
	}
	if err := expectRow(res); err != nil {
		return catalog.Book{}, fmt.Errorf("book %s: %w", b.ID, err)
	}
	return s.Book(ctx, b.ID)
}

func (s *SQLite) DeleteBook(ctx context.Context, id catalog.ID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("book %s: %w", id, err)
	}
	return nil
}

// ============================================================================
// SCANNING
// ============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (catalog.User, error) {
	var (
		u         catalog.User
		id, role  string
		createdAt sql.NullString
	)
	if err := sc.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.User{}, ErrNotFound
		}
		return catalog.User{}, err
	}
	u.ID = catalog.ID(id)
	u.Role = catalog.Role(role)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func scanBook(sc scanner) (catalog.Book, error) {
	var (
		b                    catalog.Book
		id, genre, status    string
		owner                string
		createdAt, updatedAt sql.NullString
	)
	err := sc.Scan(&id, &b.Title, &b.Author, &genre, &status, &b.Pages, &b.Price, &owner, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Book{}, ErrNotFound
		}
		return catalog.Book{}, err
	}
	b.ID = catalog.ID(id)
	b.Genre = catalog.Genre(genre)
	b.Status = catalog.Status(status)
	b.OwnerID = catalog.ID(owner)
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}
