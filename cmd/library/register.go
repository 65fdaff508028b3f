package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/FatjonaGashi/library-management-system/remote"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the running server and print its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if registerName == "" || registerEmail == "" || registerPassword == "" {
			return errors.New("--name, --email and --password are required")
		}

		client := remote.New(cfg.Client.BaseURL, cfg.GetClientTimeout())
		client.Logger = logger

		auth, err := client.Register(cmd.Context(), registerName, registerEmail, registerPassword)
		if err != nil {
			return err
		}

		return emit(cmd, func(w io.Writer) error { return writeAuth(w, format, auth) })
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
}

func writeAuth(w io.Writer, format string, auth *remote.AuthResponse) error {
	switch format {
	case formatJSON, formatPretty:
		return writeJSON(w, auth, format)
	default:
		_, err := fmt.Fprintf(w, "Registered %s (%s)\nToken: %s\n", auth.User.Email, auth.User.ID, auth.Token)
		return err
	}
}
