package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// Memory is a Store held in process memory. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	users []catalog.User
	books []catalog.Book
	now   func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) CreateUser(_ context.Context, u catalog.User) (catalog.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if m.emailTaken(u.Email, "") {
		return catalog.User{}, fmt.Errorf("create user %s: %w", u.Email, ErrDuplicateEmail)
	}
	if u.ID.IsZero() {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = catalog.RoleUser
	}
	u.CreatedAt = stamp(u.CreatedAt, m.now())
	m.users = append(m.users, u)
	return u, nil
}

func (m *Memory) User(_ context.Context, id catalog.ID) (catalog.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.userIndex(id); i >= 0 {
		return m.users[i], nil
	}
	return catalog.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (m *Memory) UserByEmail(_ context.Context, email string) (catalog.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = normalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return catalog.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (m *Memory) Users(context.Context) ([]catalog.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]catalog.User{}, m.users...), nil
}

func (m *Memory) UpdateUser(_ context.Context, u catalog.User) (catalog.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.userIndex(u.ID)
	if i < 0 {
		return catalog.User{}, fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	u.Email = normalizeEmail(u.Email)
	if m.emailTaken(u.Email, m.users[i].ID) {
		return catalog.User{}, fmt.Errorf("update user %s: %w", u.ID, ErrDuplicateEmail)
	}
	u.ID = m.users[i].ID
	u.CreatedAt = m.users[i].CreatedAt
	m.users[i] = u
	return u, nil
}

func (m *Memory) DeleteUser(_ context.Context, id catalog.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.userIndex(id)
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	m.users = append(m.users[:i], m.users[i+1:]...)

	kept := m.books[:0]
	for _, b := range m.books {
		if !b.OwnedBy(id) {
			kept = append(kept, b)
		}
	}
	m.books = kept
	return nil
}

func (m *Memory) CreateBook(_ context.Context, b catalog.Book) (catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID.IsZero() {
		b.ID = newID()
	} else if m.bookIndex(b.ID) >= 0 {
		return catalog.Book{}, fmt.Errorf("create book %s: id in use", b.ID)
	}
	b.CreatedAt = stamp(b.CreatedAt, m.now())
	m.books = append(m.books, b)
	return b, nil
}

func (m *Memory) Book(_ context.Context, id catalog.ID) (catalog.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.bookIndex(id); i >= 0 {
		return m.books[i], nil
	}
	return catalog.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
}

func (m *Memory) Books(_ context.Context, owner catalog.ID) ([]catalog.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if owner.IsZero() {
		return append([]catalog.Book{}, m.books...), nil
	}
	return catalog.BooksOwnedBy(m.books, owner), nil
}

func (m *Memory) UpdateBook(_ context.Context, b catalog.Book) (catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.bookIndex(b.ID)
	if i < 0 {
		return catalog.Book{}, fmt.Errorf("book %s: %w", b.ID, ErrNotFound)
	}
	b.ID = m.books[i].ID
	b.CreatedAt = m.books[i].CreatedAt
	now := m.now().UTC()
	b.UpdatedAt = &now
	m.books[i] = b
	return b, nil
}

func (m *Memory) DeleteBook(_ context.Context, id catalog.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.bookIndex(id)
	if i < 0 {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	m.books = append(m.books[:i], m.books[i+1:]...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func (m *Memory) userIndex(id catalog.ID) int {
	for i, u := range m.users {
		if u.ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (m *Memory) bookIndex(id catalog.ID) int {
	for i, b := range m.books {
		if b.ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (m *Memory) emailTaken(email string, except catalog.ID) bool {
	for _, u := range m.users {
		if u.Email == email && !(except != "" && u.ID.Equal(except)) {
			return true
		}
	}
	return false
}
