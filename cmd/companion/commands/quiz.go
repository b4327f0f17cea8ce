package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/cli"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Daily memory quiz",
}

var quizDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Fetch today's questions",
	Long: `Fetch today's quiz questions.

Examples:
  companion quiz daily
  companion quiz daily --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		questions, err := client.Quiz.Daily(ctx)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("No quiz today. Enroll some memories first.")
			return nil
		}
		return outputResult(questions)
	},
}

var quizPlayCmd = &cobra.Command{
	Use:   "play",
	Short: "Play today's quiz interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		questions, err := client.Quiz.Daily(ctx)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("No quiz today. Enroll some memories first.")
			return nil
		}

		reader := bufio.NewReader(os.Stdin)
		correct := 0
		for i, q := range questions {
			fmt.Printf("\n%d/%d  %s\n", i+1, len(questions), q.Question)
			for j, opt := range q.Options {
				fmt.Printf("  %d) %s\n", j+1, opt)
			}
			fmt.Print("> ")

			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			answer := strings.TrimSpace(line)
			if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
				answer = q.Options[n-1]
			}

			if answer == q.CorrectAnswer {
				cli.PrintSuccess("Correct!")
				correct++
			} else {
				fmt.Printf("The answer was: %s\n", q.CorrectAnswer)
			}

			sub := &api.QuizSubmission{
				Question:        q.Question,
				ExpectedAnswer:  q.CorrectAnswer,
				PatientResponse: answer,
				ContextType:     q.ContextType,
			}
			if err := client.Quiz.Submit(ctx, sub); err != nil {
				cli.PrintWarning("could not record answer: %v", err)
			}
		}

		fmt.Printf("\nScore: %d/%d\n", correct, len(questions))
		return nil
	},
}

var quizStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz engagement statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, closeStore, err := newAuthedClient(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		stats, err := client.Quiz.Stats(ctx)
		if err != nil {
			return err
		}
		return outputResult(stats)
	},
}

func init() {
	quizCmd.AddCommand(quizDailyCmd)
	quizCmd.AddCommand(quizPlayCmd)
	quizCmd.AddCommand(quizStatsCmd)
	rootCmd.AddCommand(quizCmd)
}
