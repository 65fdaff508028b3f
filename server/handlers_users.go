package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/store"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.Users(c.Request.Context())
	if err != nil {
		s.internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) deleteUser(c *gin.Context) {
	id := catalog.ID(c.Param("id"))
	if id.Equal(viewer(c).ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	err := s.store.DeleteUser(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		s.internalError(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User and their books deleted successfully"})
}
