package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the dashboard and cache the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			expiresAt, err := c.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (token valid until %s)\n",
				email, expiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Operator email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the cached token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			c.api.Logout(cmd.Context())
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication and storage status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			ctx := cmd.Context()
			if c.session.IsAuthenticated(ctx) {
				fmt.Println("Authenticated: yes")
			} else {
				fmt.Println("Authenticated: no")
			}
			if c.store.Available(ctx) {
				fmt.Println("Shared store:  reachable")
			} else {
				fmt.Println("Shared store:  unavailable (local state only)")
			}
			return nil
		},
	}
}
