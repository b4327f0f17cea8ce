package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/cli"
	"github.com/mementolabs/companion/pkg/session"
	"github.com/mementolabs/companion/pkg/store"
)

const appName = "companion"

var (
	// Global flags
	ctxName    string
	verbose    bool
	outputJSON bool
	outputFile string

	// Global configuration (loaded at init time)
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Memory companion client",
	Long: `companion - command line client for the memory companion backend.

The companion identifies people and objects from photos, answers questions
from the patient's personal memory, runs the daily quiz, and manages
caregiver tasks and reminders.

Configuration is stored under ~/.companion/companion/, supporting multiple
backend contexts similar to kubectl.

Examples:
  # Configure a backend and log in
  companion config add-context home --base-url http://localhost:8000/api/v1
  companion config use-context home
  companion login -u alice

  # Identify a face and ask about it
  companion scan person -i photo.jpg
  companion ask "Who is Aunt May?"

  # Enroll someone new
  companion enroll person -i photo.jpg --name "Aunt May" --relation Aunt

  # Interactive session
  companion talk -i camerauplink.jpg`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&ctxName, "context", "c", "", "configuration context (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output JSON instead of YAML")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
}

// configLoadErr stores the error from cli.LoadConfig for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := cli.LoadConfig(appName)
	if err != nil {
		// Commands that need config get a clear error via getConfig().
		// This avoids failing config-free commands like 'companion version'.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// getConfig returns the global configuration.
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := cli.LoadConfig(appName)
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// resolveContext returns the selected context. With no contexts configured
// it returns an empty context so commands run against the default local
// backend out of the box.
func resolveContext() (*cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	if ctxName == "" && cfg.CurrentContext == "" {
		return &cli.Context{}, nil
	}
	return cfg.ResolveContext(ctxName)
}

// newAPIClient builds a backend client from the selected context.
func newAPIClient(ctx *cli.Context) *api.Client {
	var opts []api.Option
	if ctx.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(ctx.BaseURL))
	}
	if ctx.Timeout > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(ctx.Timeout)*time.Second))
	}
	if ctx.MaxRetries > 0 {
		opts = append(opts, api.WithRetry(ctx.MaxRetries))
	}
	return api.NewClient(opts...)
}

// openStore opens the local data store. The caller must call the returned
// closer when done; badger holds a directory lock.
func openStore() (store.Store, func(), error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := paths.EnsureDataDir(); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.OpenBadger(paths.DataPath("store"))
	if err != nil {
		return nil, nil, fmt.Errorf("open data store: %w", err)
	}
	return st, func() { _ = st.Close() }, nil
}

// newSession builds a session over the selected context, wired to the local
// credential store. Extra options (device, narrator) come from the caller.
// The returned store handle is also used for transcript persistence.
func newSession(opts ...session.Option) (*session.Session, store.Store, func(), error) {
	cliCtx, err := resolveContext()
	if err != nil {
		return nil, nil, nil, err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	client := newAPIClient(cliCtx)
	opts = append(opts, session.WithCredentialStore(session.NewCredentialStore(st)))
	return session.New(client, opts...), st, closeStore, nil
}

// newAuthedClient builds a backend client with the stored bearer token
// installed. Commands that talk to the API directly (quiz, tasks, notify)
// use this instead of a full session.
func newAuthedClient(ctx context.Context) (*api.Client, func(), error) {
	cliCtx, err := resolveContext()
	if err != nil {
		return nil, nil, err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	client := newAPIClient(cliCtx)
	token, _, err := session.NewCredentialStore(st).Load(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	if token != "" {
		client.SetToken(token)
	}
	return client, closeStore, nil
}

// outputResult writes a command result honoring --json and -o.
func outputResult(result any) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, format, outputFile)
}

// printVerbose prints when -v is set.
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
