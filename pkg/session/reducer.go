package session

import "github.com/mementolabs/companion/pkg/api"

// State is the session's machine state. It is a value: the reducer returns a
// new State rather than mutating in place, which keeps transitions testable
// in isolation. The Session owns the single live copy.
type State struct {
	// Mode is the current interaction mode.
	Mode Mode

	// Subject is the currently identified person, if any.
	Subject *api.Person

	// CaptureSeq is the monotonic capture-trigger counter. Each increment
	// signals "capture now" to the pipeline.
	CaptureSeq uint64

	// EnrollKind is the subject type recorded when enrollment opened.
	EnrollKind SubjectKind

	// Draft is the live enrollment draft. Non-nil exactly while the
	// machine is in ModeEnrollCapture (or holding a failed submission for
	// retry).
	Draft *Draft
}

// Event drives a state transition.
type Event interface {
	isEvent()
}

// ScanFace switches to person identification.
type ScanFace struct{}

// ScanObject switches to object identification.
type ScanObject struct{}

// TriggerCapture signals the capture pipeline to grab a frame now.
type TriggerCapture struct{}

// OpenEnrollment opens the enrollment form for the given subject kind.
type OpenEnrollment struct{ Kind SubjectKind }

// FormSubmitted carries a completed enrollment form; the machine moves to
// ModeEnrollCapture and forces an immediate capture for the enrollment photo.
type FormSubmitted struct{ Draft *Draft }

// EnrollmentPersisted reports a successful enrollment submission.
type EnrollmentPersisted struct{}

// EnrollmentFailed reports an abandoned enrollment after a failed
// submission.
type EnrollmentFailed struct{}

// CancelEnrollment abandons the enrollment without submitting.
type CancelEnrollment struct{}

// Logout resets the machine for a new session.
type Logout struct{}

func (ScanFace) isEvent()            {}
func (ScanObject) isEvent()          {}
func (TriggerCapture) isEvent()      {}
func (OpenEnrollment) isEvent()      {}
func (FormSubmitted) isEvent()       {}
func (EnrollmentPersisted) isEvent() {}
func (EnrollmentFailed) isEvent()    {}
func (CancelEnrollment) isEvent()    {}
func (Logout) isEvent()              {}

// Apply is the pure transition function. Unknown or invalid events leave the
// state unchanged; the machine has no terminal state.
//
// Two invariants are enforced here rather than trusted to callers: the
// machine only enters ModeEnrollCapture with a non-nil draft, and any entry
// into ModePerson or ModeObject clears the draft so a leftover draft can
// never leak into an unrelated capture.
func Apply(s State, ev Event) State {
	switch ev := ev.(type) {
	case ScanFace:
		s.Mode = ModePerson
		s.Draft = nil
	case ScanObject:
		s.Mode = ModeObject
		s.Draft = nil
	case TriggerCapture:
		s.CaptureSeq++
	case OpenEnrollment:
		s.Mode = ModeEnrollUI
		s.EnrollKind = ev.Kind
		s.Draft = nil
	case FormSubmitted:
		if ev.Draft == nil {
			return s
		}
		s.Mode = ModeEnrollCapture
		s.Draft = ev.Draft
		s.CaptureSeq++
	case EnrollmentPersisted, EnrollmentFailed, CancelEnrollment:
		s.Mode = ModePerson
		s.Draft = nil
	case Logout:
		s = State{Mode: ModePerson, CaptureSeq: s.CaptureSeq}
	}
	return s
}
