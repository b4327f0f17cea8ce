package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/cli"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend",
	Long: `Authenticate against the backend and store the bearer token locally.

The username falls back to the context's configured username. The password
is read from the COMPANION_PASSWORD environment variable, the --password
flag, or an interactive prompt, in that order of preference for scripts.

Examples:
  companion login -u alice
  COMPANION_PASSWORD=secret companion login -u alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := resolveContext()
		if err != nil {
			return err
		}

		username := loginUsername
		if username == "" {
			username = cliCtx.Username
		}
		if username == "" {
			return fmt.Errorf("no username: pass -u or set one with 'companion config set <ctx> username <name>'")
		}

		password := loginPassword
		if password == "" {
			password = os.Getenv("COMPANION_PASSWORD")
		}
		if password == "" {
			fmt.Printf("Password for %s: ", username)
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		sess, _, closeStore, err := newSession()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		creds, err := sess.Login(ctx, username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		cli.PrintSuccess("Logged in as %s (%s)", username, creds.Role)
		printVerbose("Token: %s", cli.MaskToken(creds.AccessToken))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, closeStore, err := newSession()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sess.Logout(ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prefer the env variable or prompt)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
