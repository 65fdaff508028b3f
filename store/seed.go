package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// Demo credentials written by Seed.
const (
	DemoAdminEmail    = "admin@library.com"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "john@example.com"
	DemoUserPassword  = "user123"
)

type demoBook struct {
	title, author string
	genre         catalog.Genre
	status        catalog.Status
	owner         int
	pages         int
	price         float64
}

var demoBooks = []demoBook{
	{"1984", "George Orwell", catalog.GenreFiction, catalog.StatusCompleted, 2, 328, 15.99},
	{"To Kill a Mockingbird", "Harper Lee", catalog.GenreFiction, catalog.StatusReading, 2, 324, 14.99},
	{"The Hobbit", "J.R.R. Tolkien", catalog.GenreFantasy, catalog.StatusCompleted, 1, 310, 18.99},
	{"Sapiens", "Yuval Noah Harari", catalog.GenreNonFiction, catalog.StatusToRead, 2, 443, 22.99},
	{"The Great Gatsby", "F. Scott Fitzgerald", catalog.GenreFiction, catalog.StatusCompleted, 1, 180, 12.99},
	{"Dune", "Frank Herbert", catalog.GenreScienceFiction, catalog.StatusReading, 1, 688, 25.99},
	{"The Catcher in the Rye", "J.D. Salinger", catalog.GenreFiction, catalog.StatusToRead, 2, 234, 13.99},
	{"Harry Potter", "J.K. Rowling", catalog.GenreFantasy, catalog.StatusCompleted, 2, 309, 16.99},
}

// DemoUsers is the two-account sample directory with integer ids: 1 is the
// admin, 2 a regular reader. PasswordHash is left empty.
func DemoUsers() []catalog.User {
	return []catalog.User{
		{ID: catalog.IDFromInt(1), Name: "Admin User", Email: DemoAdminEmail, Role: catalog.RoleAdmin},
		{ID: catalog.IDFromInt(2), Name: "John Doe", Email: DemoUserEmail, Role: catalog.RoleUser},
	}
}

// DemoBooks is the sample shelf with integer ids, owned by DemoUsers.
func DemoBooks() []catalog.Book {
	books := make([]catalog.Book, len(demoBooks))
	for i, d := range demoBooks {
		books[i] = d.book(catalog.IDFromInt(int64(i+1)), catalog.IDFromInt(int64(d.owner)))
	}
	return books
}

func (d demoBook) book(id, owner catalog.ID) catalog.Book {
	return catalog.Book{
		ID:      id,
		Title:   d.title,
		Author:  d.author,
		Genre:   d.genre,
		Status:  d.status,
		Pages:   d.pages,
		Price:   d.price,
		OwnerID: owner,
	}
}

// Seed writes the demo accounts and books into s with fresh ids.
// It is a no-op when the demo admin already exists.
func Seed(ctx context.Context, s Store) error {
	_, err := s.UserByEmail(ctx, DemoAdminEmail)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("seed: %w", err)
	}

	passwords := map[string]string{
		DemoAdminEmail: DemoAdminPassword,
		DemoUserEmail:  DemoUserPassword,
	}

	owners := make(map[int]catalog.ID, 2)
	for i, u := range DemoUsers() {
		hash, err := HashPassword(passwords[u.Email])
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		u.ID = ""
		u.PasswordHash = hash
		created, err := s.CreateUser(ctx, u)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		owners[i+1] = created.ID
	}

	for _, d := range demoBooks {
		if _, err := s.CreateBook(ctx, d.book("", owners[d.owner])); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
