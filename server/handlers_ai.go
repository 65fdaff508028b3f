package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/engine"
)

type queryRequest struct {
	Query string `json:"query"`
}

// query answers a question over the caller's scoped snapshot. The wire
// shape matches what the client computes locally. An empty body is an
// empty query.
func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	books, err := s.store.Books(ctx, "")
	if err != nil {
		s.internalError(c, "list books", err)
		return
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		s.internalError(c, "list users", err)
		return
	}

	v := viewer(c)
	snap := catalog.Scope(&v, books, users)
	c.JSON(http.StatusOK, engine.Interpret(req.Query, snap.Books, snap.Users, v.ID, s.engOpts...))
}

func (s *Server) insights(c *gin.Context) {
	v := viewer(c)
	own, err := s.store.Books(c.Request.Context(), v.ID)
	if err != nil {
		s.internalError(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": engine.GenerateInsights(own, v.ID)})
}

// recommendations draws from every shelf, so it reads the full catalog.
func (s *Server) recommendations(c *gin.Context) {
	books, err := s.store.Books(c.Request.Context(), "")
	if err != nil {
		s.internalError(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": engine.GenerateRecommendations(books, viewer(c).ID)})
}
