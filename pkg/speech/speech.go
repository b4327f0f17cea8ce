// Package speech is the narration boundary of the companion engine.
//
// Synthesis itself is an external capability: the engine hands text to a
// Narrator and is told, via callback, when playback has finished. The
// Tracker wrapper keeps the "is the avatar talking" state that the front
// end animates against.
package speech

import "sync"

// Narrator speaks text aloud. Speak is fire-and-forget: it must not block
// on playback, and it must invoke done (when non-nil) exactly once after
// playback completes or fails.
type Narrator interface {
	Speak(text string, done func())
}

// NarratorFunc adapts a function to the Narrator interface.
type NarratorFunc func(text string, done func())

// Speak implements Narrator.
func (f NarratorFunc) Speak(text string, done func()) {
	f(text, done)
}

// Nop is a narrator that completes immediately without speaking. Useful in
// tests and headless runs.
var Nop Narrator = NarratorFunc(func(_ string, done func()) {
	if done != nil {
		done()
	}
})

// Tracker wraps a Narrator and tracks whether narration is in progress.
type Tracker struct {
	mu      sync.Mutex
	n       Narrator
	active  int
	current string
}

// NewTracker wraps the given narrator. A nil narrator defaults to Nop.
func NewTracker(n Narrator) *Tracker {
	if n == nil {
		n = Nop
	}
	return &Tracker{n: n}
}

// Speak implements Narrator. The wrapped narrator's completion callback is
// chained after the tracker's bookkeeping.
func (t *Tracker) Speak(text string, done func()) {
	t.mu.Lock()
	t.active++
	t.current = text
	t.mu.Unlock()

	t.n.Speak(text, func() {
		t.mu.Lock()
		t.active--
		if t.active == 0 {
			t.current = ""
		}
		t.mu.Unlock()
		if done != nil {
			done()
		}
	})
}

// Speaking reports whether any narration is still playing.
func (t *Tracker) Speaking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active > 0
}

// Current returns the text being narrated, or "" when idle.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
