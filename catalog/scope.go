package catalog

// ============================================================================
// SCOPE: Authorization filtering of a data snapshot
// ============================================================================
// Single pass per collection. Admins see everything; a regular user sees only
// their own books and only themselves; an anonymous caller sees nothing.
// Server and client both scope through here so the engine receives the same
// snapshot in either deployment.
// ============================================================================

// Snapshot is the copy-in data set a query is evaluated against.
type Snapshot struct {
	Books []Book
	Users []User
}

// Scope returns the part of books/users visible to viewer.
// A nil viewer yields an empty snapshot. Inputs are never mutated.
func Scope(viewer *User, books []Book, users []User) Snapshot {
	if viewer == nil {
		return Snapshot{Books: []Book{}, Users: []User{}}
	}
	if viewer.IsAdmin() {
		return Snapshot{Books: books, Users: users}
	}

	own := BooksOwnedBy(books, viewer.ID)

	self := make([]User, 0, 1)
	for _, u := range users {
		if u.ID.Equal(viewer.ID) {
			self = append(self, u)
		}
	}

	return Snapshot{Books: own, Users: self}
}

// BooksOwnedBy returns the books belonging to owner, in stored order.
func BooksOwnedBy(books []Book, owner ID) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.OwnedBy(owner) {
			out = append(out, b)
		}
	}
	return out
}
