package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementolabs/companion/pkg/capture"
	"github.com/mementolabs/companion/pkg/cli"
	"github.com/mementolabs/companion/pkg/session"
	"github.com/mementolabs/companion/pkg/speech"
)

var talkImage string

var talkCmd = &cobra.Command{
	Use:   "talk",
	Short: "Interactive conversation session",
	Long: `Start an interactive conversation session.

Plain input is sent as a question. Slash commands drive the camera and
session:

  /scan person     identify a face from the camera image
  /scan object     identify an object from the camera image
  /capture         press the shutter in the current mode
  /who             show the currently identified person
  /history         show the questions asked this session
  /logout          reset the session
  /quit            leave

With -i the camera is simulated by an image file that is re-read on every
capture, so you can swap the file between scans.

Examples:
  companion talk
  companion talk -i camerauplink.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTalk()
	},
}

func runTalk() error {
	styles := cli.NewStyles(cli.DefaultTheme)

	cliCtx, err := resolveContext()
	if err != nil {
		return err
	}

	opts := []session.Option{}
	if talkImage != "" {
		opts = append(opts, session.WithDevice(capture.NewFileDevice(talkImage)))
	}
	if !cliCtx.Mute {
		opts = append(opts, session.WithNarrator(speech.NarratorFunc(func(text string, done func()) {
			fmt.Println(styles.Note.Render("🔊 " + text))
			if done != nil {
				done()
			}
		})))
	}

	sess, st, closeStore, err := newSession(opts...)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		return err
	}
	if err := sess.LoadTranscript(ctx, st); err != nil {
		printVerbose("transcript restore failed: %v", err)
	}
	defer func() {
		if err := sess.SaveTranscript(ctx, st); err != nil {
			printVerbose("transcript save failed: %v", err)
		}
	}()

	fmt.Println(styles.Title.Render("companion"))
	if role := sess.Role(); role != "" {
		fmt.Println(styles.Note.Render("signed in as " + role))
	}
	for _, msg := range sess.Messages() {
		printMessage(styles, msg)
	}
	printSuggestions(styles, sess.Suggestions())

	history := cli.NewHistory(50)
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(styles.Prompt.Render("you> "))
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := runTalkCommand(ctx, sess, styles, history, input)
			if err != nil {
				cli.PrintError("%v", err)
			}
			if quit {
				return nil
			}
			continue
		}

		history.Add(input)
		askWithStatus(ctx, sess, styles, input)
		printSuggestions(styles, sess.Suggestions())
	}
}

// askWithStatus runs one query while mirroring the processing phase to the
// terminal as it advances.
func askWithStatus(ctx context.Context, sess *session.Session, styles cli.Styles, text string) {
	done := make(chan session.Message, 1)
	go func() { done <- sess.Ask(ctx, text) }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastPhase := session.PhaseIdle
	for {
		select {
		case msg := <-done:
			if lastPhase != session.PhaseIdle {
				fmt.Println()
			}
			printMessage(styles, msg)
			return
		case <-ticker.C:
			if p := sess.Phase(); p != lastPhase && p != session.PhaseIdle {
				fmt.Print(styles.StatusLine(p.String()))
				lastPhase = p
			}
		}
	}
}

func runTalkCommand(ctx context.Context, sess *session.Session, styles cli.Styles, history *cli.History, input string) (quit bool, err error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/scan":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /scan person|object")
		}
		switch fields[1] {
		case "person":
			err = sess.ScanFace(ctx)
		case "object":
			err = sess.ScanObject(ctx)
		default:
			return false, fmt.Errorf("usage: /scan person|object")
		}
		if err != nil {
			return false, err
		}
		printLast(styles, sess)
		printSuggestions(styles, sess.Suggestions())
		return false, nil

	case "/capture":
		if err := sess.Capture(ctx); err != nil {
			return false, err
		}
		printLast(styles, sess)
		return false, nil

	case "/who":
		if subject := sess.Subject(); subject != nil {
			fmt.Printf("%s (%s)\n", subject.Name, subject.Relation)
		} else {
			fmt.Println("Nobody identified yet.")
		}
		return false, nil

	case "/history":
		if history.Len() == 0 {
			fmt.Println("No questions asked yet.")
			return false, nil
		}
		for _, q := range history.Lines() {
			fmt.Println(styles.Note.Render("  " + q))
		}
		return false, nil

	case "/logout":
		if err := sess.Logout(ctx); err != nil {
			return false, err
		}
		history.Reset()
		printLast(styles, sess)
		return false, nil

	case "/help":
		fmt.Println("/scan person|object  /capture  /who  /history  /logout  /quit")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q (try /help)", fields[0])
	}
}

func printMessage(styles cli.Styles, msg session.Message) {
	if msg.ID == "" {
		return
	}
	prefix := "bot"
	if msg.Role == session.RoleUser {
		prefix = "you"
	}
	fmt.Printf("%s %s\n", styles.Speaker.Render(prefix+":"), msg.Text)
	if msg.Audio != nil {
		fmt.Println(styles.Note.Render(fmt.Sprintf("  (voice sample, %s)", cli.FormatSize(msg.Audio.Len()))))
	}
}

func printLast(styles cli.Styles, sess *session.Session) {
	msgs := sess.Messages()
	if len(msgs) > 0 {
		printMessage(styles, msgs[len(msgs)-1])
	}
}

func printSuggestions(styles cli.Styles, suggestions []string) {
	if line := styles.SuggestionLine(suggestions); line != "" {
		fmt.Println(line)
	}
}

func init() {
	talkCmd.Flags().StringVarP(&talkImage, "image", "i", "", "image file standing in for the camera")
	rootCmd.AddCommand(talkCmd)
}
