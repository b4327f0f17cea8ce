package session

import (
	"testing"

	"github.com/mementolabs/companion/pkg/api"
)

func TestApply_Transitions(t *testing.T) {
	draft := &Draft{Kind: KindPerson, Name: "Aunt May", Relation: "Aunt"}

	tests := []struct {
		name string
		from State
		ev   Event
		want Mode
	}{
		{"scan face from object", State{Mode: ModeObject}, ScanFace{}, ModePerson},
		{"scan object from person", State{Mode: ModePerson}, ScanObject{}, ModeObject},
		{"open enrollment", State{Mode: ModePerson}, OpenEnrollment{Kind: KindObject}, ModeEnrollUI},
		{"form submitted", State{Mode: ModeEnrollUI}, FormSubmitted{Draft: draft}, ModeEnrollCapture},
		{"persisted returns to person", State{Mode: ModeEnrollCapture, Draft: draft}, EnrollmentPersisted{}, ModePerson},
		{"failed returns to person", State{Mode: ModeEnrollCapture, Draft: draft}, EnrollmentFailed{}, ModePerson},
		{"cancel returns to person", State{Mode: ModeEnrollUI}, CancelEnrollment{}, ModePerson},
		{"logout resets", State{Mode: ModeObject, Subject: &api.Person{Name: "X"}}, Logout{}, ModePerson},
	}

	for _, tc := range tests {
		got := Apply(tc.from, tc.ev)
		if got.Mode != tc.want {
			t.Errorf("%s: mode = %v; want %v", tc.name, got.Mode, tc.want)
		}
	}
}

func TestApply_EnrollCaptureRequiresDraft(t *testing.T) {
	s := State{Mode: ModeEnrollUI}
	got := Apply(s, FormSubmitted{Draft: nil})
	if got.Mode != ModeEnrollUI {
		t.Errorf("nil draft moved the machine to %v", got.Mode)
	}

	got = Apply(s, FormSubmitted{Draft: &Draft{Kind: KindPerson, Name: "A", Relation: "B"}})
	if got.Mode != ModeEnrollCapture || got.Draft == nil {
		t.Errorf("mode = %v, draft = %v; want EnrollCapture with draft", got.Mode, got.Draft)
	}
}

func TestApply_DraftClearedOnScanAndCompletion(t *testing.T) {
	draft := &Draft{Kind: KindObject, Name: "Wallet"}
	armed := Apply(State{Mode: ModeEnrollUI}, FormSubmitted{Draft: draft})

	for _, ev := range []Event{ScanFace{}, ScanObject{}, EnrollmentPersisted{}, EnrollmentFailed{}, CancelEnrollment{}, Logout{}} {
		got := Apply(armed, ev)
		if got.Draft != nil {
			t.Errorf("%T left a draft behind", ev)
		}
	}
}

func TestApply_CaptureSeqMonotonic(t *testing.T) {
	s := State{Mode: ModePerson}
	s = Apply(s, TriggerCapture{})
	s = Apply(s, TriggerCapture{})
	if s.CaptureSeq != 2 {
		t.Errorf("seq = %d; want 2", s.CaptureSeq)
	}

	// Form submission forces a capture of its own.
	s = Apply(s, OpenEnrollment{Kind: KindPerson})
	s = Apply(s, FormSubmitted{Draft: &Draft{Kind: KindPerson, Name: "A", Relation: "B"}})
	if s.CaptureSeq != 3 {
		t.Errorf("seq after form = %d; want 3", s.CaptureSeq)
	}

	// Logout does not rewind the counter; the pipeline relies on it never
	// going backwards.
	s = Apply(s, Logout{})
	if s.CaptureSeq != 3 {
		t.Errorf("seq after logout = %d; want 3", s.CaptureSeq)
	}
}

func TestApply_LogoutClearsSubject(t *testing.T) {
	s := State{Mode: ModeObject, Subject: &api.Person{Name: "Aunt May"}, EnrollKind: KindObject}
	got := Apply(s, Logout{})
	if got.Subject != nil || got.Mode != ModePerson || got.EnrollKind != "" {
		t.Errorf("logout left state %+v", got)
	}
}

func TestMode_CameraBearing(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModePerson, true},
		{ModeObject, true},
		{ModeEnrollCapture, true},
		{ModeEnrollUI, false},
	}
	for _, tc := range tests {
		if got := tc.mode.CameraBearing(); got != tc.want {
			t.Errorf("%v.CameraBearing() = %v; want %v", tc.mode, got, tc.want)
		}
		region := tc.mode.Region()
		if tc.want && region == "" {
			t.Errorf("%v has no region", tc.mode)
		}
		if !tc.want && region != "" {
			t.Errorf("%v has region %q", tc.mode, region)
		}
	}
}
