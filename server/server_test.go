package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/engine"
	"github.com/FatjonaGashi/library-management-system/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type harness struct {
	t     *testing.T
	srv   *Server
	store store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, store.Seed(context.Background(), st))

	srv, err := New(Options{Store: st, JWTSecret: "test-secret", AuthRatePerMinute: 0})
	require.NoError(t, err)
	return &harness{t: t, srv: srv, store: st}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(email, password string) (string, catalog.User) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	var out authResponse
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(h.t, out.Token)
	return out.Token, out.User
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Library API is running"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Jane", "email": "jane@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = h.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Jane", "email": "jane@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", errorMessage(t, rec))

	rec = h.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "NoPass", "email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", errorMessage(t, rec))

	_, user := h.login("jane@example.com", "pw")
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, catalog.RoleUser, user.Role)

	rec = h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, rec))

	rec = h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "pw"})
	assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
}

func TestAuthMiddleware(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/books", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", errorMessage(t, rec))

	rec = h.do(http.MethodGet, "/api/books", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rec))

	other := NewTokens("other-secret", time.Hour)
	forged, err := other.Issue(catalog.User{ID: "1", Role: catalog.RoleAdmin})
	require.NoError(t, err)
	rec = h.do(http.MethodGet, "/api/books", forged, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpiredToken(t *testing.T) {
	tokens := NewTokens("s", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := tokens.Issue(catalog.User{ID: "1", Role: catalog.RoleUser})
	require.NoError(t, err)

	_, err = NewTokens("s", time.Minute).Parse(raw)
	assert.Error(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, catalog.ID("1"), claims.Viewer().ID)
}

func TestBooksAreScopedByRole(t *testing.T) {
	h := newHarness(t)
	adminTok, _ := h.login(store.DemoAdminEmail, store.DemoAdminPassword)
	johnTok, john := h.login(store.DemoUserEmail, store.DemoUserPassword)

	var all, mine []catalog.Book
	rec := h.do(http.MethodGet, "/api/books", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 8)

	rec = h.do(http.MethodGet, "/api/books", johnTok, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 5)
	for _, b := range mine {
		assert.True(t, b.OwnedBy(john.ID))
	}

	var adminBook catalog.Book
	for _, b := range all {
		if !b.OwnedBy(john.ID) {
			adminBook = b
			break
		}
	}

	rec = h.do(http.MethodGet, "/api/books/"+adminBook.ID.String(), johnTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", errorMessage(t, rec))

	rec = h.do(http.MethodDelete, "/api/books/"+adminBook.ID.String(), johnTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodGet, "/api/books/"+adminBook.ID.String(), adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/books/missing", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book not found", errorMessage(t, rec))
}

func TestBookCRUD(t *testing.T) {
	h := newHarness(t)
	tok, me := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodPost, "/api/books", tok, gin.H{
		"title": "Neuromancer", "author": "William Gibson", "genre": "Science Fiction",
		"pages": 271, "price": 9.99, "userId": "someone-else",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created catalog.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.OwnedBy(me.ID), "owner comes from the token")
	assert.Equal(t, catalog.StatusToRead, created.Status)

	rec = h.do(http.MethodPut, "/api/books/"+created.ID.String(), tok, gin.H{"status": "Reading"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated catalog.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, catalog.StatusReading, updated.Status)
	assert.Equal(t, "Neuromancer", updated.Title)

	rec = h.do(http.MethodPut, "/api/books/"+created.ID.String(), tok, gin.H{"genre": "Poetry"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodDelete, "/api/books/"+created.ID.String(), tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodGet, "/api/books/"+created.ID.String(), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookValidation(t *testing.T) {
	h := newHarness(t)
	tok, _ := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodPost, "/api/books", tok, gin.H{"author": "Anon", "genre": "Fiction"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Title is required", body.Fields["title"])
}

func TestUsersAdminOnly(t *testing.T) {
	h := newHarness(t)
	adminTok, admin := h.login(store.DemoAdminEmail, store.DemoAdminPassword)
	johnTok, john := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodGet, "/api/users", johnTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", errorMessage(t, rec))

	rec = h.do(http.MethodGet, "/api/users", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []catalog.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rec = h.do(http.MethodDelete, "/api/users/"+admin.ID.String(), adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodDelete, "/api/users/"+john.ID.String(), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	books, err := h.store.Books(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, books, 3, "john's books go with him")

	rec = h.do(http.MethodDelete, "/api/users/"+john.ID.String(), adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	tok, _ := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodPut, "/api/auth/update", tok, gin.H{"name": "Johnny", "password": "newpass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, user := h.login(store.DemoUserEmail, "newpass")
	assert.Equal(t, "Johnny", user.Name)

	rec = h.do(http.MethodPut, "/api/auth/update", tok, gin.H{"email": store.DemoAdminEmail})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", errorMessage(t, rec))
}

func TestAIQueryUsesScopedSnapshot(t *testing.T) {
	h := newHarness(t)
	adminTok, _ := h.login(store.DemoAdminEmail, store.DemoAdminPassword)
	johnTok, _ := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodPost, "/api/ai/query", adminTok, gin.H{"query": "Who owns the most books?"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, engine.NewText("John Doe owns the most books with 5 books."), res)

	rec = h.do(http.MethodPost, "/api/ai/query", johnTok, gin.H{"query": "Show the five most expensive books"})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.IsTable())
	require.Len(t, res.Rows, 5)
	price, _ := res.Rows[0].Get(engine.ColPrice)
	owner, _ := res.Rows[0].Get(engine.ColOwner)
	assert.Equal(t, "$22.99", price)
	assert.Equal(t, "John Doe", owner)

	rec = h.do(http.MethodPost, "/api/ai/query", johnTok, gin.H{"query": "Tell me something meaningless"})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, engine.HelpText, res.Text)
}

func TestAIQueryMissingQueryGetsHelp(t *testing.T) {
	h := newHarness(t)
	tok, _ := h.login(store.DemoUserEmail, store.DemoUserPassword)

	for name, body := range map[string]any{"empty body": nil, "empty object": gin.H{}} {
		t.Run(name, func(t *testing.T) {
			rec := h.do(http.MethodPost, "/api/ai/query", tok, body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var res engine.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, engine.NewText(engine.HelpText), res)
		})
	}

	rec := h.do(http.MethodPost, "/api/ai/query", tok, "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsAndRecommendations(t *testing.T) {
	h := newHarness(t)
	tok, _ := h.login(store.DemoUserEmail, store.DemoUserPassword)

	rec := h.do(http.MethodGet, "/api/ai/insights", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ins struct {
		Insights []string `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ins))
	assert.Equal(t, []string{
		"Fiction is your most read genre (3 books)",
		"You've completed 2 books and are currently reading 1",
		"Average book length: 328 pages",
	}, ins.Insights)

	rec = h.do(http.MethodGet, "/api/ai/recommendations", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs struct {
		Recommendations []engine.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "The Great Gatsby", recs.Recommendations[0].Title)
}

func TestAuthRateLimit(t *testing.T) {
	srv, err := New(Options{Store: store.NewMemory(), JWTSecret: "s", AuthRatePerMinute: 1, AuthBurst: 2})
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"a","password":"b"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	h := newHarness(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewRequiresStoreAndSecret(t *testing.T) {
	_, err := New(Options{JWTSecret: "s"})
	assert.Error(t, err)
	_, err = New(Options{Store: store.NewMemory()})
	assert.Error(t, err)
}
