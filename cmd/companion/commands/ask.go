package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/cli"
)

var askSaveAudio string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the memory companion a question",
	Long: `Ask a free-text question against the personal memory.

The conversation transcript persists across invocations, so a question
about "her" after scanning a face resolves against the identified person.

Examples:
  companion ask "Who is Aunt May?"
  companion ask "Where is my wallet?"
  companion ask "How does Aunt May talk?" --save-audio voice.webm`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		sess, st, closeStore, err := newSession()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		if err := sess.Start(ctx); err != nil {
			return err
		}
		if err := sess.LoadTranscript(ctx, st); err != nil {
			printVerbose("transcript restore failed: %v", err)
		}

		msg := sess.Ask(ctx, question)

		if err := sess.SaveTranscript(ctx, st); err != nil {
			printVerbose("transcript save failed: %v", err)
		}

		if outputJSON || outputFile != "" {
			return outputResult(msg)
		}
		fmt.Println(msg.Text)

		if msg.Audio != nil {
			if askSaveAudio != "" {
				if err := cli.OutputBytes(msg.Audio.Bytes(), askSaveAudio); err != nil {
					return err
				}
				cli.PrintSuccess("Voice sample written to %s (%s)", askSaveAudio, cli.FormatSize(msg.Audio.Len()))
			} else {
				cli.PrintInfo("Answer carries a voice sample (%s); re-run with --save-audio to keep it",
					cli.FormatSize(msg.Audio.Len()))
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSaveAudio, "save-audio", "", "write an attached voice sample to this file")
	rootCmd.AddCommand(askCmd)
}
