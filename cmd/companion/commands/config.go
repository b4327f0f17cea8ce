package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage backend contexts.

A context names one backend deployment: base URL, default account, and
request tuning.

Examples:
  companion config list-contexts
  companion config add-context home --base-url http://localhost:8000/api/v1
  companion config use-context home
  companion config current-context
  companion config set home username alice`,
}

var addContextBaseURL string
var addContextUsername string

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create a new context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		name := args[0]
		if _, err := cfg.GetContext(name); err == nil {
			return fmt.Errorf("context %q already exists", name)
		}
		if err := cfg.AddContext(name, &cli.Context{
			BaseURL:  addContextBaseURL,
			Username: addContextUsername,
		}); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q created", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Switch the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: companion config add-context <name>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tBASE URL\tUSERNAME")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			ctx, _ := cfg.GetContext(name)
			baseURL := ctx.BaseURL
			if baseURL == "" {
				baseURL = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, baseURL, ctx.Username)
		}
		return w.Flush()
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <context> <key> <value>",
	Short: "Set a context value",
	Long: `Set a context value.

Known keys: base_url, username, timeout, max_retries, mute.
Unknown keys are stored as extras.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		ctx, err := cfg.GetContext(args[0])
		if err != nil {
			return err
		}
		key, value := args[1], args[2]
		switch key {
		case "base_url":
			ctx.BaseURL = value
		case "username":
			ctx.Username = value
		case "timeout":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("timeout must be an integer: %w", err)
			}
			ctx.Timeout = n
		case "max_retries":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("max_retries must be an integer: %w", err)
			}
			ctx.MaxRetries = n
		case "mute":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("mute must be a boolean: %w", err)
			}
			ctx.Mute = b
		default:
			ctx.SetExtra(key, value)
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		cli.PrintSuccess("%s.%s set", args[0], key)
		return nil
	},
}

func init() {
	configAddContextCmd.Flags().StringVar(&addContextBaseURL, "base-url", "", "backend API base URL")
	configAddContextCmd.Flags().StringVar(&addContextUsername, "username", "", "default account username")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
