// Package store persists users and books.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

var (
	// ErrNotFound is returned when a user or book id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store is the record store behind the HTTP API.
//
// Create methods assign a UUID when the record has no id and stamp
// CreatedAt when it is nil. Emails compare case-insensitively.
// Books(ctx, "") lists every book; a non-empty owner narrows to that user.
// Listings come back in insertion order.
type Store interface {
	CreateUser(ctx context.Context, u catalog.User) (catalog.User, error)
	User(ctx context.Context, id catalog.ID) (catalog.User, error)
	UserByEmail(ctx context.Context, email string) (catalog.User, error)
	Users(ctx context.Context) ([]catalog.User, error)
	UpdateUser(ctx context.Context, u catalog.User) (catalog.User, error)
	// DeleteUser removes the user and every book they own.
	DeleteUser(ctx context.Context, id catalog.ID) error

	CreateBook(ctx context.Context, b catalog.Book) (catalog.Book, error)
	Book(ctx context.Context, id catalog.ID) (catalog.Book, error)
	Books(ctx context.Context, owner catalog.ID) ([]catalog.Book, error)
	UpdateBook(ctx context.Context, b catalog.Book) (catalog.Book, error)
	DeleteBook(ctx context.Context, id catalog.ID) error

	Close() error
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func newID() catalog.ID { return catalog.ID(uuid.NewString()) }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func stamp(t *time.Time, now time.Time) *time.Time {
	if t != nil {
		return t
	}
	n := now.UTC()
	return &n
}
