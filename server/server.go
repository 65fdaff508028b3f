// Package server exposes the library over HTTP: auth, books, users, and the
// analytics endpoints backed by the engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FatjonaGashi/library-management-system/engine"
	"github.com/FatjonaGashi/library-management-system/store"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Store             store.Store
	JWTSecret         string
	TokenTTL          time.Duration
	CORSOrigin        string
	AuthRatePerMinute int
	AuthBurst         int
	ShutdownTimeout   time.Duration
	Logger            *zap.Logger
	EngineOptions     []engine.Option
}

// Server is the HTTP API.
type Server struct {
	store   store.Store
	tokens  *Tokens
	logger  *zap.Logger
	opts    Options
	router  *gin.Engine
	engOpts []engine.Option
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.JWTSecret == "" {
		return nil, errors.New("server: jwt secret is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		store:   opts.Store,
		tokens:  NewTokens(opts.JWTSecret, opts.TokenTTL),
		logger:  opts.Logger,
		opts:    opts,
		engOpts: append([]engine.Option{engine.WithLogger(opts.Logger)}, opts.EngineOptions...),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), cors(s.opts.CORSOrigin))

	api := r.Group("/api")
	api.GET("/health", s.health)

	auth := api.Group("/auth", rateLimit(s.opts.AuthRatePerMinute, s.opts.AuthBurst))
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.PUT("/update", s.requireAuth(), s.updateProfile)

	books := api.Group("/books", s.requireAuth())
	books.GET("", s.listBooks)
	books.POST("", s.createBook)
	books.GET("/:id", s.getBook)
	books.PUT("/:id", s.updateBook)
	books.DELETE("/:id", s.deleteBook)

	users := api.Group("/users", s.requireAuth(), requireAdmin())
	users.GET("", s.listUsers)
	users.DELETE("/:id", s.deleteUser)

	ai := api.Group("/ai", s.requireAuth())
	ai.POST("/query", s.query)
	ai.GET("/insights", s.insights)
	ai.GET("/recommendations", s.recommendations)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("library API listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down library API")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Library API is running"})
}
