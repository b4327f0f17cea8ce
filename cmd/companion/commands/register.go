package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/cli"
)

var (
	registerUsername string
	registerPassword string
	registerRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account on the backend.

Examples:
  companion register -u alice --role patient
  companion register -u bob --role caregiver`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if registerUsername == "" {
			return fmt.Errorf("a username is required: -u <name>")
		}
		password := registerPassword
		if password == "" {
			password = os.Getenv("COMPANION_PASSWORD")
		}
		if password == "" {
			return fmt.Errorf("a password is required: -p or COMPANION_PASSWORD")
		}

		cliCtx, err := resolveContext()
		if err != nil {
			return err
		}
		client := newAPIClient(cliCtx)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := client.Auth.Register(ctx, &api.RegisterRequest{
			Username: registerUsername,
			Password: password,
			Role:     registerRole,
		}); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		cli.PrintSuccess("Account %q created", registerUsername)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "account username")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "account password (prefer the env variable)")
	registerCmd.Flags().StringVar(&registerRole, "role", "patient", "account role (patient or caregiver)")

	rootCmd.AddCommand(registerCmd)
}
