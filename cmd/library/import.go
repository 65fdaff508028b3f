package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/config"
	"github.com/FatjonaGashi/library-management-system/helpers"
	"github.com/FatjonaGashi/library-management-system/remote"
	"github.com/FatjonaGashi/library-management-system/store"
)

var importOwner string

var errEphemeralStore = errors.New("store.driver is memory, so written records would be lost when the command exits; " +
	"set store.driver: sqlite (or LIBRARY_DB_PATH), or use --remote against a running server")

var importCmd = &cobra.Command{
	Use:   "import <books.csv>",
	Short: "Load books from a CSV file into the store or the running server",
	Long: `Reads a books CSV (title, author, genre, status, pages, price) and writes
every valid row. Invalid rows are reported and skipped.

Without --remote the rows go into the configured store under --owner, which
requires a persistent driver. With --remote each row is POSTed to the server
as the logged-in user (--email/--password or --token).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		books, err := helpers.ParseBooksCSV(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		if askRemote {
			return importRemote(ctx, cmd, books)
		}
		return importLocal(ctx, cmd, books)
	},
}

func init() {
	importCmd.Flags().StringVar(&importOwner, "owner", "", "Email of the user who owns the imported books (store mode)")
}

func importLocal(ctx context.Context, cmd *cobra.Command, books []catalog.Book) error {
	if err := requirePersistentStore(cfg.Store); err != nil {
		return err
	}
	if importOwner == "" {
		return errors.New("--owner is required when importing into the store")
	}

	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.Store.Seed {
		if err := store.Seed(ctx, s); err != nil {
			return err
		}
	}

	owner, err := s.UserByEmail(ctx, importOwner)
	if err != nil {
		return fmt.Errorf("owner %q: %w", importOwner, err)
	}

	imported, err := importBooks(ctx, books, owner.ID, func(ctx context.Context, b catalog.Book) error {
		_, err := s.CreateBook(ctx, b)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d books for %s\n", imported, len(books), owner.Email)
	return nil
}

func importRemote(ctx context.Context, cmd *cobra.Command, books []catalog.Book) error {
	client := remote.New(cfg.Client.BaseURL, cfg.GetClientTimeout())
	client.Logger = logger

	token, who := askToken, "token holder"
	if askEmail != "" {
		auth, err := client.Login(ctx, askEmail, askPassword)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		token, who = auth.Token, auth.User.Email
	}
	if token == "" {
		return errors.New("--remote import needs --email/--password or --token")
	}

	// The server assigns the owner from the token.
	imported, err := importBooks(ctx, books, "", func(ctx context.Context, b catalog.Book) error {
		_, err := client.CreateBook(ctx, token, b)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d books for %s\n", imported, len(books), who)
	return nil
}

// importBooks normalizes and validates each row, then hands the valid ones
// to create. Invalid rows are logged and skipped; a create error stops the
// import.
func importBooks(ctx context.Context, books []catalog.Book, owner catalog.ID, create func(context.Context, catalog.Book) error) (int, error) {
	imported := 0
	for i, b := range books {
		b.ID = ""
		b.OwnerID = owner
		b.Normalize()
		if err := b.Validate(); err != nil {
			logger.Warn("skipping row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if err := create(ctx, b); err != nil {
			return imported, fmt.Errorf("row %d: %w", i+1, err)
		}
		imported++
	}
	return imported, nil
}

// requirePersistentStore rejects drivers whose records do not outlive the process.
func requirePersistentStore(sc config.StoreConfig) error {
	if sc.Driver == config.DriverMemory || sc.Driver == "" {
		return errEphemeralStore
	}
	return nil
}
