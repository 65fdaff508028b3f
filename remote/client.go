package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/engine"
)

// DefaultTimeout bounds each request when New is given zero.
const DefaultTimeout = 10 * time.Second

// Client talks to the library API rooted at BaseURL (for example
// "http://localhost:5000/api").
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a client with its own http.Client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     zap.NewNop(),
	}
}

// ============================================================================
// AUTH
// ============================================================================

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := credentials{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// ============================================================================
// DATA
// ============================================================================

// Books lists the books visible to the token holder.
func (c *Client) Books(ctx context.Context, token string) ([]catalog.Book, error) {
	var out []catalog.Book
	if err := c.do(ctx, http.MethodGet, "/books", token, nil, &out); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

// CreateBook stores a new book owned by the token holder.
func (c *Client) CreateBook(ctx context.Context, token string, b catalog.Book) (catalog.Book, error) {
	var out catalog.Book
	if err := c.do(ctx, http.MethodPost, "/books", token, b, &out); err != nil {
		return catalog.Book{}, fmt.Errorf("create book: %w", err)
	}
	return out, nil
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context, token string) ([]catalog.User, error) {
	var out []catalog.User
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &out); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// ============================================================================
// ANALYTICS
// ============================================================================

// Query asks the server to interpret query over the caller's books.
func (c *Client) Query(ctx context.Context, token, query string) (engine.Result, error) {
	var out engine.Result
	if err := c.do(ctx, http.MethodPost, "/ai/query", token, queryRequest{Query: query}, &out); err != nil {
		return engine.Result{}, fmt.Errorf("query: %w", err)
	}
	return out, nil
}

// Insights fetches the caller's reading summary.
func (c *Client) Insights(ctx context.Context, token string) ([]string, error) {
	var out insightsResponse
	if err := c.do(ctx, http.MethodGet, "/ai/insights", token, nil, &out); err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	return out.Insights, nil
}

// Recommendations fetches books suggested for the caller.
func (c *Client) Recommendations(ctx context.Context, token string) ([]engine.Recommendation, error) {
	var out struct {
		Recommendations []engine.Recommendation `json:"recommendations"`
	}
	if err := c.do(ctx, http.MethodGet, "/ai/recommendations", token, nil, &out); err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	return out.Recommendations, nil
}

// ============================================================================
// HTTP
// ============================================================================

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger().Debug("library api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(code int, raw []byte) *StatusError {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Error != "" {
			return &StatusError{Code: code, Message: eb.Error}
		}
		if eb.Message != "" {
			return &StatusError{Code: code, Message: eb.Message}
		}
	}
	return &StatusError{Code: code, Message: truncate(strings.TrimSpace(string(raw)), 200)}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
