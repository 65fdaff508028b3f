package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/config"
	"github.com/FatjonaGashi/library-management-system/server"
	"github.com/FatjonaGashi/library-management-system/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the library HTTP API",
	Long: `Starts the API on server.addr (PORT overrides). The store is chosen by
store.driver; with store.seed the demo accounts are created on first start.
SIGINT or SIGTERM drains in-flight requests before exiting.`,
	RunE: runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo accounts and books into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePersistentStore(cfg.Store); err != nil {
			return err
		}
		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := store.Seed(cmd.Context(), s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded. Admin: %s / %s  User: %s / %s\n",
			store.DemoAdminEmail, store.DemoAdminPassword, store.DemoUserEmail, store.DemoUserPassword)
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if cfg.Server.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using the default JWT secret; set JWT_SECRET in production")
	}

	srv, err := server.New(server.Options{
		Store:             s,
		JWTSecret:         cfg.Server.JWTSecret,
		TokenTTL:          cfg.GetTokenTTL(),
		CORSOrigin:        cfg.Server.CORSOrigin,
		AuthRatePerMinute: cfg.Server.AuthRatePerMinute,
		AuthBurst:         cfg.Server.AuthBurst,
		ShutdownTimeout:   cfg.GetShutdownTimeout(),
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting library API",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store", cfg.Store.Driver))
	return srv.Run(ctx, cfg.Server.Addr)
}

func openStore(sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case config.DriverSQLite:
		return store.OpenSQLite(sc.Path)
	case config.DriverMemory, "":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}
