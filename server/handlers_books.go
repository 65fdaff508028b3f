package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/store"
)

// bookPatch is a partial update; nil fields are left alone.
type bookPatch struct {
	Title  *string         `json:"title"`
	Author *string         `json:"author"`
	Genre  *catalog.Genre  `json:"genre"`
	Status *catalog.Status `json:"status"`
	Pages  *int            `json:"pages"`
	Price  *float64        `json:"price"`
}

func (p bookPatch) apply(b *catalog.Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
}

// visibleBooks is every book for admins, otherwise the caller's own.
func (s *Server) visibleBooks(c *gin.Context) ([]catalog.Book, error) {
	v := viewer(c)
	if v.IsAdmin() {
		return s.store.Books(c.Request.Context(), "")
	}
	return s.store.Books(c.Request.Context(), v.ID)
}

func (s *Server) listBooks(c *gin.Context) {
	books, err := s.visibleBooks(c)
	if err != nil {
		s.internalError(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) createBook(c *gin.Context) {
	var b catalog.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	b.ID = ""
	b.OwnerID = viewer(c).ID
	b.CreatedAt, b.UpdatedAt = nil, nil
	b.Normalize()
	if !s.validBook(c, b) {
		return
	}

	created, err := s.store.CreateBook(c.Request.Context(), b)
	if err != nil {
		s.internalError(c, "create book", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getBook(c *gin.Context) {
	b, ok := s.authorizedBook(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) updateBook(c *gin.Context) {
	b, ok := s.authorizedBook(c)
	if !ok {
		return
	}

	var patch bookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	patch.apply(&b)
	b.Normalize()
	if !s.validBook(c, b) {
		return
	}

	updated, err := s.store.UpdateBook(c.Request.Context(), b)
	if err != nil {
		s.internalError(c, "update book", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBook(c *gin.Context) {
	b, ok := s.authorizedBook(c)
	if !ok {
		return
	}
	if err := s.store.DeleteBook(c.Request.Context(), b.ID); err != nil {
		s.internalError(c, "delete book", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// authorizedBook loads :id and checks the caller may touch it.
// It writes the error response itself when it returns false.
func (s *Server) authorizedBook(c *gin.Context) (catalog.Book, bool) {
	b, err := s.store.Book(c.Request.Context(), catalog.ID(c.Param("id")))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return catalog.Book{}, false
	}
	if err != nil {
		s.internalError(c, "load book", err)
		return catalog.Book{}, false
	}

	v := viewer(c)
	if !v.IsAdmin() && !b.OwnedBy(v.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return catalog.Book{}, false
	}
	return b, true
}

func (s *Server) validBook(c *gin.Context, b catalog.Book) bool {
	err := b.Validate()
	if err == nil {
		return true
	}
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": verr.Fields})
		return false
	}
	s.internalError(c, "validate book", err)
	return false
}
