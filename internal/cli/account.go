package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/db"
	"github.com/terraincognita07/kepler/internal/remote"
	"github.com/terraincognita07/kepler/internal/security"
	"github.com/terraincognita07/kepler/internal/services"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

func newSignupCommand(state *session) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the journal service",
		Example: `
kepler signup --email owner@example.com --name "Sam"
printf 'Secret123\n' | kepler signup --email owner@example.com --name "Sam"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}

			client, err := state.remoteClient()
			if err != nil {
				return err
			}
			account, err := client.Signup(cmd.Context(), remote.SignupRequest{
				Email:       email,
				Password:    password,
				DisplayName: name,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, color.GreenString("Account created"))
			_, _ = fmt.Fprintf(out, "ID: %d\nEmail: %s\n", account.ID, account.Email)
			if account.DisplayName != "" {
				_, _ = fmt.Fprintf(out, "Name: %s\n", account.DisplayName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCommand(state *session) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token for KEPLER_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}

			client, err := state.remoteClient()
			if err != nil {
				return err
			}
			session, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Token expires %s\n", session.ExpiresAt.In(state.cfg.Location()).Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newChangePasswordCommand(state *session) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Replace the account password, for example after a reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdin, stderr := cmd.InOrStdin(), cmd.ErrOrStderr()
			current, err := promptPassword(stdin, stderr, "Current password: ")
			if err != nil {
				return err
			}
			next, err := promptPassword(stdin, stderr, "New password: ")
			if err != nil {
				return err
			}

			client, err := state.remoteClient()
			if err != nil {
				return err
			}
			if err := client.ChangePassword(cmd.Context(), email, current, next); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Password changed"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCommand(state *session) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Issue a temporary password directly in the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			temporaryPassword, err := resetPassword(state.cfg.Database.Path, email)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, color.GreenString("Password reset successful"))
			_, _ = fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
			_, _ = fmt.Fprintln(out, "The account must change its password before the next login.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func resetPassword(dbPath string, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New("email is required")
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return "", fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}

	accounts := services.NewAccountService(db.NewAccountRepository(database))
	if _, err := accounts.ResetPassword(email, temporaryPassword); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return "", fmt.Errorf("account %s not found", strings.TrimSpace(email))
		}
		return "", err
	}
	return temporaryPassword, nil
}

// generateTemporaryPassword draws from an alphabet without look-alike
// characters.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.RandomString(length, temporaryPasswordAlphabet)
}
