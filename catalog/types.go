package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// CATALOG TYPES: Books, Users, and the identifiers that link them
// ============================================================================
// The record store hands back owner ids in whatever form it keeps them:
// integers for the local sample data, opaque strings for the server store.
// ID absorbs both so the engine never has to care.
// ============================================================================

// ID identifies a book or a user. It decodes from a JSON string or number.
type ID string

// IDFromInt builds an ID from an integer key.
func IDFromInt(n int64) ID { return ID(strconv.FormatInt(n, 10)) }

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Equal compares the raw forms first, then the integer coercion of both.
// "1", "01" and 1 name the same owner; "abc" only equals "abc".
func (id ID) Equal(other ID) bool {
	if id == other {
		return true
	}
	a, okA := id.integer()
	b, okB := other.integer()
	return okA && okB && a == b
}

func (id ID) integer() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON accepts "abc", "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Genre is a book category.
type Genre string

// Server-side genres.
const (
	GenreFiction        Genre = "Fiction"
	GenreNonFiction     Genre = "Non-Fiction"
	GenreFantasy        Genre = "Fantasy"
	GenreScienceFiction Genre = "Science Fiction"
	GenreMystery        Genre = "Mystery"
	GenreBiography      Genre = "Biography"
)

// Extended client genres.
const (
	GenreScience    Genre = "Science"
	GenreRomance    Genre = "Romance"
	GenreHistory    Genre = "History"
	GenreTechnology Genre = "Technology"
	GenreHorror     Genre = "Horror"
	GenreSelfHelp   Genre = "Self-Help"
)

// Genres lists every accepted genre, server set first.
func Genres() []Genre {
	return []Genre{
		GenreFiction, GenreNonFiction, GenreFantasy, GenreScienceFiction, GenreMystery, GenreBiography,
		GenreScience, GenreRomance, GenreHistory, GenreTechnology, GenreHorror, GenreSelfHelp,
	}
}

// Valid reports whether g is a known genre.
func (g Genre) Valid() bool {
	for _, known := range Genres() {
		if g == known {
			return true
		}
	}
	return false
}

// Status is a book's reading progress.
type Status string

const (
	StatusToRead    Status = "To Read"
	StatusReading   Status = "Reading"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// Book is a single catalog entry owned by one user.
type Book struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Genre     Genre      `json:"genre"`
	Status    Status     `json:"status"`
	Pages     int        `json:"pages"`
	Price     float64    `json:"price"`
	OwnerID   ID         `json:"userId"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OwnedBy reports whether the book belongs to the given user.
func (b Book) OwnedBy(owner ID) bool { return b.OwnerID.Equal(owner) }

// User is an account holder. PasswordHash never leaves the process.
type User struct {
	ID           ID         `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user has admin clearance.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// FindUser resolves an id against users using ID.Equal.
func FindUser(users []User, id ID) (User, bool) {
	for _, u := range users {
		if u.ID.Equal(id) {
			return u, true
		}
	}
	return User{}, false
}
