package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/capture"
	"github.com/mementolabs/companion/pkg/cli"
	"github.com/mementolabs/companion/pkg/session"
)

var scanImage string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Identify a person or object from an image",
}

var scanPersonCmd = &cobra.Command{
	Use:   "person",
	Short: "Identify a face",
	Long: `Identify a face from an image.

Examples:
  companion scan person -i photo.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(session.KindPerson)
	},
}

var scanObjectCmd = &cobra.Command{
	Use:   "object",
	Short: "Identify an object",
	Long: `Identify an object from an image.

Objects enrolled in the personal memory come back with their usual
location; anything else falls back to generic detection labels.

Examples:
  companion scan object -i photo.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(session.KindObject)
	},
}

func runScan(kind session.SubjectKind) error {
	if scanImage == "" {
		return fmt.Errorf("an input image is required: -i photo.jpg")
	}

	sess, st, closeStore, err := newSession(
		session.WithDevice(capture.NewFileDevice(scanImage)),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	if err := sess.LoadTranscript(ctx, st); err != nil {
		printVerbose("transcript restore failed: %v", err)
	}

	start := time.Now()
	if kind == session.KindObject {
		err = sess.ScanObject(ctx)
	} else {
		err = sess.ScanFace(ctx)
	}
	if err != nil {
		return err
	}
	printVerbose("Round trip: %s", cli.FormatLatency(time.Since(start)))

	if err := sess.SaveTranscript(ctx, st); err != nil {
		printVerbose("transcript save failed: %v", err)
	}

	msgs := sess.Messages()
	last := msgs[len(msgs)-1]
	if outputJSON || outputFile != "" {
		return outputResult(last)
	}
	fmt.Println(last.Text)
	if subject := sess.Subject(); subject != nil {
		printVerbose("Subject: %s (%s)", subject.Name, subject.Relation)
	}
	return nil
}

func init() {
	scanCmd.PersistentFlags().StringVarP(&scanImage, "image", "i", "", "input image file")
	scanCmd.AddCommand(scanPersonCmd)
	scanCmd.AddCommand(scanObjectCmd)
	rootCmd.AddCommand(scanCmd)
}
