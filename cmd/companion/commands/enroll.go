package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/audioasset"
	"github.com/mementolabs/companion/pkg/capture"
	"github.com/mementolabs/companion/pkg/cli"
	"github.com/mementolabs/companion/pkg/session"
)

var (
	enrollImage    string
	enrollFile     string
	enrollName     string
	enrollRelation string
	enrollAge      string
	enrollNotes    string
	enrollVoice    string
)

// enrollDraft is the request-file form of an enrollment draft.
type enrollDraft struct {
	Name     string `json:"name" yaml:"name"`
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
	Age      string `json:"age,omitempty" yaml:"age,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll a new person or object",
}

var enrollPersonCmd = &cobra.Command{
	Use:   "person",
	Short: "Enroll a person",
	Long: `Enroll a person into the personal memory.

The draft comes from flags or a request file; the photo is required. An
optional voice recording travels with the same submission.

Example request file (person.yaml):
  name: Aunt May
  relation: Aunt
  age: "67"
  notes: Lives next door, visits on Sundays.

Examples:
  companion enroll person -i photo.jpg --name "Aunt May" --relation Aunt
  companion enroll person -i photo.jpg -f person.yaml --voice sample.webm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnroll(session.KindPerson)
	},
}

var enrollObjectCmd = &cobra.Command{
	Use:   "object",
	Short: "Enroll an object",
	Long: `Enroll an object into the personal memory.

Examples:
  companion enroll object -i wallet.jpg --name Wallet --notes "kitchen drawer"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnroll(session.KindObject)
	},
}

func runEnroll(kind session.SubjectKind) error {
	if enrollImage == "" {
		return fmt.Errorf("an enrollment photo is required: -i photo.jpg")
	}

	draft := &session.Draft{Kind: kind}
	if enrollFile != "" {
		var req enrollDraft
		if err := cli.LoadRequest(enrollFile, &req); err != nil {
			return err
		}
		draft.Name = req.Name
		draft.Relation = req.Relation
		draft.Age = req.Age
		draft.Notes = req.Notes
	}
	// Flags override the request file.
	if enrollName != "" {
		draft.Name = enrollName
	}
	if enrollRelation != "" {
		draft.Relation = enrollRelation
	}
	if enrollAge != "" {
		draft.Age = enrollAge
	}
	if enrollNotes != "" {
		draft.Notes = enrollNotes
	}
	if enrollVoice != "" {
		if kind != session.KindPerson {
			return fmt.Errorf("voice samples only apply to person enrollment")
		}
		data, err := os.ReadFile(enrollVoice)
		if err != nil {
			return fmt.Errorf("read voice sample: %w", err)
		}
		draft.Audio = audioasset.New(data, "audio/webm")
	}

	sess, _, closeStore, err := newSession(
		session.WithDevice(capture.NewFileDevice(enrollImage)),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	if err := sess.OpenEnrollment(ctx, kind); err != nil {
		return err
	}

	result, err := sess.SubmitForm(ctx, draft)
	if err != nil {
		return err
	}

	if outputJSON || outputFile != "" {
		return outputResult(result)
	}
	cli.PrintSuccess("Enrolled %s", draft.Name)
	if result.AvatarURL != "" {
		cli.PrintInfo("Avatar: %s", result.AvatarURL)
	}
	return nil
}

func init() {
	enrollCmd.PersistentFlags().StringVarP(&enrollImage, "image", "i", "", "enrollment photo")
	enrollCmd.PersistentFlags().StringVarP(&enrollFile, "file", "f", "", "draft request file (YAML or JSON)")
	enrollCmd.PersistentFlags().StringVar(&enrollName, "name", "", "subject name")
	enrollCmd.PersistentFlags().StringVar(&enrollRelation, "relation", "", "relation to the patient (person only)")
	enrollCmd.PersistentFlags().StringVar(&enrollAge, "age", "", "age (person only)")
	enrollCmd.PersistentFlags().StringVar(&enrollNotes, "notes", "", "free-form notes")
	enrollCmd.PersistentFlags().StringVar(&enrollVoice, "voice", "", "voice recording file (person only)")

	enrollCmd.AddCommand(enrollPersonCmd)
	enrollCmd.AddCommand(enrollObjectCmd)
	rootCmd.AddCommand(enrollCmd)
}
