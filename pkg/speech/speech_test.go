package speech

import "testing"

func TestTracker_SpeakingState(t *testing.T) {
	// A narrator whose completion we control by hand.
	var pending []func()
	n := NarratorFunc(func(_ string, done func()) {
		pending = append(pending, done)
	})

	tr := NewTracker(n)
	if tr.Speaking() {
		t.Fatal("Speaking() true before any Speak")
	}

	tr.Speak("hello", nil)
	if !tr.Speaking() {
		t.Fatal("Speaking() false while narration pending")
	}
	if tr.Current() != "hello" {
		t.Errorf("Current() = %q; want %q", tr.Current(), "hello")
	}

	pending[0]()
	if tr.Speaking() {
		t.Error("Speaking() true after completion")
	}
	if tr.Current() != "" {
		t.Errorf("Current() = %q after completion", tr.Current())
	}
}

func TestTracker_ChainsDone(t *testing.T) {
	called := 0
	tr := NewTracker(Nop)
	tr.Speak("x", func() { called++ })
	if called != 1 {
		t.Errorf("done called %d times; want 1", called)
	}
}

func TestTracker_OverlappingNarrations(t *testing.T) {
	var pending []func()
	tr := NewTracker(NarratorFunc(func(_ string, done func()) {
		pending = append(pending, done)
	}))

	tr.Speak("one", nil)
	tr.Speak("two", nil)

	pending[0]()
	if !tr.Speaking() {
		t.Error("Speaking() false with one narration still pending")
	}
	pending[1]()
	if tr.Speaking() {
		t.Error("Speaking() true after both completed")
	}
}

func TestTracker_NilNarrator(t *testing.T) {
	tr := NewTracker(nil)
	done := false
	tr.Speak("x", func() { done = true })
	if !done {
		t.Error("nil narrator did not complete")
	}
}
