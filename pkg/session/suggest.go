package session

import "fmt"

// Suggestion prompts offered when enrollment shortcuts are picked from the
// suggestion strip rather than typed.
const (
	SuggestEnrollPerson = "Enroll new person"
	SuggestEnrollObject = "Enroll new object"
)

// DefaultSuggestions is the prompt strip shown before anyone has been
// identified, and again after logout or reset.
func DefaultSuggestions() []string {
	return []string{
		"Who is this?",
		"Where is my wallet?",
		SuggestEnrollPerson,
		SuggestEnrollObject,
	}
}

// SuggestionsFor replaces the prompt strip wholesale when a person is newly
// identified.
func SuggestionsFor(name string) []string {
	return []string{
		fmt.Sprintf("Who is %s?", name),
		fmt.Sprintf("How does %s talk?", name),
		fmt.Sprintf("Any notes on %s?", name),
	}
}
