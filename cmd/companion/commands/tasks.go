package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/cli"
)

var (
	taskStatus string
	taskTitle  string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Caregiver task list",
	Long: `Manage caregiver tasks mined from conversation history.

Examples:
  companion tasks list
  companion tasks generate
  companion tasks update <id> --status done
  companion tasks delete <id>`,
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List current tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		tasks, err := client.Tasks.List(ctx)
		if err != nil {
			return err
		}
		if outputJSON || outputFile != "" {
			return outputResult(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tTITLE")
		for _, task := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\n", task.ID, task.Status, task.Title)
		}
		return w.Flush()
	},
}

var tasksGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Mine fresh tasks from recent conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		tasks, err := client.Tasks.Generate(ctx)
		if err != nil {
			return err
		}
		cli.PrintSuccess("Generated %d task(s)", len(tasks))
		return outputResult(tasks)
	},
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskStatus == "" && taskTitle == "" {
			return fmt.Errorf("nothing to update: pass --status or --title")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		task, err := client.Tasks.Update(ctx, args[0], &api.TaskUpdate{
			Status: taskStatus,
			Title:  taskTitle,
		})
		if err != nil {
			return err
		}
		return outputResult(task)
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := client.Tasks.Delete(ctx, args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Task %s deleted", args[0])
		return nil
	},
}

func init() {
	tasksUpdateCmd.Flags().StringVar(&taskStatus, "status", "", "new status")
	tasksUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "new title")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksGenerateCmd)
	tasksCmd.AddCommand(tasksUpdateCmd)
	tasksCmd.AddCommand(tasksDeleteCmd)
	rootCmd.AddCommand(tasksCmd)
}
