package session

import (
	"fmt"
	"strings"

	"github.com/mementolabs/companion/pkg/api"
)

// Interpretation is the interpreter's verdict on a recognition response: a
// transcript message, text to narrate, and optional suggestion and subject
// updates (nil means unchanged).
type Interpretation struct {
	Message     Message
	Narration   string
	Suggestions []string
	Subject     *api.Person
}

// Interpret classifies a recognition response under the mode that was active
// at capture time.
//
// It never fails: a nil result (transport or parse failure upstream) and any
// unrecognized status tag both land in the final don't-recognize arm, so new
// backend statuses degrade gracefully instead of crashing the session.
func Interpret(mode Mode, res *api.RecognizeResult) Interpretation {
	if res != nil {
		switch {
		case mode == ModePerson && res.Status == api.StatusIdentified && res.Person != nil:
			name := res.Person.Name
			return Interpretation{
				Message:     newMessage(RoleBot, fmt.Sprintf("I see %s.", name)),
				Narration:   fmt.Sprintf("Hello %s.", name),
				Suggestions: SuggestionsFor(name),
				Subject:     res.Person,
			}

		case mode == ModeObject && res.Status == api.StatusIdentified && res.Object != nil:
			loc := res.Object.Location
			if loc == "" {
				loc = "unknown location"
			}
			return Interpretation{
				Message:   newMessage(RoleBot, fmt.Sprintf("I found your %s. It is usually in %s.", res.Object.Name, loc)),
				Narration: fmt.Sprintf("That is your %s. Location: %s.", res.Object.Name, loc),
			}

		case mode == ModeObject && res.Status == api.StatusGenericDetection && len(res.Objects) > 0:
			labels := make([]string, 0, len(res.Objects))
			for _, d := range res.Objects {
				labels = append(labels, d.Object)
			}
			joined := strings.Join(labels, ", ")
			return Interpretation{
				Message:   newMessage(RoleBot, fmt.Sprintf("I see: %s. (Not in my personal memory)", joined)),
				Narration: fmt.Sprintf("I see %s.", joined),
			}
		}
	}

	return Interpretation{
		Message:   newMessage(RoleBot, fmt.Sprintf("I don't recognize that %s.", mode)),
		Narration: "I don't know who that is.",
	}
}
