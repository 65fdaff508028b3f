package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/assistant"
	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/helpers"
	"github.com/FatjonaGashi/library-management-system/remote"
	"github.com/FatjonaGashi/library-management-system/store"
)

var (
	askRemote   bool
	askToken    string
	askEmail    string
	askPassword string
	askAs       string
	askData     string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the book collection",
	Long: `Answers a free-text question. By default the embedded engine runs over the
demo collection (or --data). With --remote the server answers first; if it
cannot, the local engine answers and the reply says so.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	for _, c := range []*cobra.Command{askCmd, insightsCmd, recommendCmd, importCmd} {
		c.Flags().BoolVar(&askRemote, "remote", false, "Use the server first (client.prefer_remote)")
		c.Flags().StringVar(&askToken, "token", "", "Bearer token for the server")
		c.Flags().StringVar(&askEmail, "email", "", "Log in to the server with this email")
		c.Flags().StringVar(&askPassword, "password", "", "Password for --email")
	}
	for _, c := range []*cobra.Command{askCmd, insightsCmd, recommendCmd} {
		c.Flags().StringVar(&askAs, "as", store.DemoAdminEmail, "Local viewer: email of a demo user")
		c.Flags().StringVar(&askData, "data", "", "Books CSV to use instead of the demo collection")
	}
}

// useRemote is --remote when given, otherwise client.prefer_remote.
func useRemote(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("remote") {
		return askRemote
	}
	return cfg.Client.PreferRemote
}

// session is what a client-side command works with: who is asking, what
// they hold locally, and how to reach the server.
type session struct {
	client *remote.Client
	token  string
	viewer *catalog.User
	books  []catalog.Book
	users  []catalog.User

	// ownShelfOnly is set when books holds just the viewer's shelf, as
	// it does for a non-admin login.
	ownShelfOnly bool
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}

	a := assistant.New(
		assistant.WithRemote(sess.client),
		assistant.PreferRemote(useRemote(cmd)),
		assistant.WithLogger(logger),
	)

	out := a.Ask(ctx, assistant.Request{
		Query:      strings.Join(args, " "),
		Viewer:     sess.viewer,
		Credential: sess.token,
		Books:      sess.books,
		Users:      sess.users,
	})

	fields := []zap.Field{zap.String("path", string(out.Path))}
	if out.RemoteErr != nil {
		fields = append(fields, zap.Error(out.RemoteErr))
	}
	logger.Debug("query answered", fields...)

	return emit(cmd, func(w io.Writer) error { return writeResult(w, format, out.Result) })
}

// openSession resolves the viewer and local snapshot. Logging in with
// --email replaces the demo data with the caller's server-side books.
func openSession(ctx context.Context) (*session, error) {
	sess := &session{
		client: remote.New(cfg.Client.BaseURL, cfg.GetClientTimeout()),
		token:  askToken,
		users:  store.DemoUsers(),
	}
	sess.client.Logger = logger

	if askEmail != "" {
		auth, err := sess.client.Login(ctx, askEmail, askPassword)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		sess.token = auth.Token
		sess.viewer = &auth.User

		books, err := sess.client.Books(ctx, sess.token)
		if err != nil {
			return nil, fmt.Errorf("load books: %w", err)
		}
		sess.books = books
		sess.users = []catalog.User{auth.User}
		sess.ownShelfOnly = !auth.User.IsAdmin()
		if auth.User.IsAdmin() {
			if users, err := sess.client.Users(ctx, sess.token); err == nil {
				sess.users = users
			}
		}
		return sess, nil
	}

	viewer, ok := demoViewer(sess.users, askAs)
	if !ok {
		return nil, fmt.Errorf("no demo user with email %q", askAs)
	}
	sess.viewer = &viewer

	books, err := loadBooks(askData, viewer.ID)
	if err != nil {
		return nil, err
	}
	sess.books = books
	return sess, nil
}

func demoViewer(users []catalog.User, email string) (catalog.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			return u, true
		}
	}
	return catalog.User{}, false
}

// loadBooks reads path as a books CSV, or returns the demo collection when
// path is empty. Rows without an owner are assigned to owner.
func loadBooks(path string, owner catalog.ID) ([]catalog.Book, error) {
	if path == "" {
		return store.DemoBooks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	books, err := helpers.ParseBooksCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range books {
		if books[i].OwnerID.IsZero() {
			books[i].OwnerID = owner
		}
	}
	logger.Debug("loaded books", zap.String("path", path), zap.Int("count", len(books)))
	return books, nil
}
