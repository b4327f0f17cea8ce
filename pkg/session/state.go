package session

import (
	"encoding/json"

	"github.com/mementolabs/companion/pkg/capture"
)

// Mode is the current top-level interaction intent.
type Mode int

const (
	// ModePerson identifies people from camera frames. Default mode.
	ModePerson Mode = iota
	// ModeObject identifies objects from camera frames.
	ModeObject
	// ModeEnrollUI collects the enrollment form; the camera is idle.
	ModeEnrollUI
	// ModeEnrollCapture awaits the enrollment photo for a submitted form.
	ModeEnrollCapture
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeEnrollUI:
		return "enroll_ui"
	case ModeEnrollCapture:
		return "enroll_capture"
	default:
		return "person"
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mode) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "object":
		*m = ModeObject
	case "enroll_ui":
		*m = ModeEnrollUI
	case "enroll_capture":
		*m = ModeEnrollCapture
	default:
		*m = ModePerson
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// CameraBearing reports whether the mode keeps the capture device armed.
func (m Mode) CameraBearing() bool {
	switch m {
	case ModePerson, ModeObject, ModeEnrollCapture:
		return true
	default:
		return false
	}
}

// Region returns the capture region for a camera-bearing mode, or "" for
// modes that do not own the camera.
func (m Mode) Region() capture.Region {
	if !m.CameraBearing() {
		return ""
	}
	return capture.Region(m.String())
}

// SubjectKind distinguishes person and object enrollments.
type SubjectKind string

const (
	KindPerson SubjectKind = "person"
	KindObject SubjectKind = "object"
)
