package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/capture"
	"github.com/mementolabs/companion/pkg/speech"
)

// fakeDevice is an in-memory capture device that records its lifecycle.
type fakeDevice struct {
	mu      sync.Mutex
	running bool
	starts  int
	stops   int
	frame   capture.Frame
	err     error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{frame: capture.Frame{Data: []byte("jpegdata"), MIME: "image/jpeg"}}
}

func (d *fakeDevice) Start(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = true
	d.starts++
	return nil
}

func (d *fakeDevice) Frame(context.Context) (capture.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return capture.Frame{}, d.err
	}
	return d.frame, nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	d.stops++
	return nil
}

func (d *fakeDevice) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

func (d *fakeDevice) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *fakeDevice) stopCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stops
}

// recordingNarrator collects every narrated line and completes immediately.
type recordingNarrator struct {
	mu    sync.Mutex
	lines []string
}

func (n *recordingNarrator) Speak(text string, done func()) {
	n.mu.Lock()
	n.lines = append(n.lines, text)
	n.mu.Unlock()
	if done != nil {
		done()
	}
}

func (n *recordingNarrator) spoken() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.lines))
	copy(out, n.lines)
	return out
}

var _ speech.Narrator = (*recordingNarrator)(nil)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// newTestSession wires a session against an httptest backend, a fake camera,
// and a recording narrator. Timing knobs are shrunk so tests settle fast.
func newTestSession(t *testing.T, handler http.Handler) (*Session, *fakeDevice, *recordingNarrator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	device := newFakeDevice()
	narrator := &recordingNarrator{}
	client := api.NewClient(api.WithBaseURL(srv.URL), api.WithRetry(0))
	s := New(client,
		WithDevice(device),
		WithNarrator(narrator),
		WithStatusInterval(10*time.Millisecond),
		WithVoiceDelay(time.Millisecond),
	)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, device, narrator
}

func lastText(t *testing.T, s *Session) string {
	t.Helper()
	msgs := s.Messages()
	if len(msgs) == 0 {
		t.Fatal("empty transcript")
	}
	return msgs[len(msgs)-1].Text
}

func TestSession_StartsWithGreetingAndDefaults(t *testing.T) {
	s, device, _ := newTestSession(t, http.NotFoundHandler())

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Text != DefaultGreeting {
		t.Errorf("opening transcript = %+v", msgs)
	}
	if s.Mode() != ModePerson {
		t.Errorf("mode = %v; want person", s.Mode())
	}
	if got := s.Suggestions(); len(got) != 4 || got[0] != "Who is this?" {
		t.Errorf("suggestions = %v", got)
	}
	if region, armed := devicePipelineState(s); !armed || region != "person" {
		t.Errorf("pipeline armed=%v region=%q after start", armed, region)
	}
	if !device.isRunning() {
		t.Error("device not running after start")
	}
}

func devicePipelineState(s *Session) (capture.Region, bool) {
	return s.pipeline.Armed()
}

func TestSession_CameraFollowsMode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recognize/person", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.RecognizeResult{Status: api.StatusNotFound})
	})
	mux.HandleFunc("/find/object", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.RecognizeResult{Status: api.StatusNotFound})
	})
	s, device, _ := newTestSession(t, mux)
	ctx := context.Background()

	steps := []struct {
		name   string
		do     func() error
		region capture.Region
		armed  bool
	}{
		{"scan object", func() error { return s.ScanObject(ctx) }, "object", true},
		{"scan face", func() error { return s.ScanFace(ctx) }, "person", true},
		{"open enrollment", func() error { return s.OpenEnrollment(ctx, KindPerson) }, "", false},
		{"cancel enrollment", func() error { return s.CancelEnrollment(ctx) }, "person", true},
		{"logout", func() error { return s.Logout(ctx) }, "person", true},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		region, armed := s.pipeline.Armed()
		if armed != step.armed || region != step.region {
			t.Errorf("%s: armed=%v region=%q; want armed=%v region=%q",
				step.name, armed, region, step.armed, step.region)
		}
	}
	if device.stopCount() == 0 {
		t.Error("device never released across mode changes")
	}
}

func TestSession_ScanFaceIdentifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recognize/person", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing capture file part: %v", err)
		}
		writeJSON(t, w, api.RecognizeResult{
			Status: api.StatusIdentified,
			Person: &api.Person{Name: "Aunt May", Relation: "Aunt"},
		})
	})
	s, _, narrator := newTestSession(t, mux)

	if err := s.ScanFace(context.Background()); err != nil {
		t.Fatalf("ScanFace: %v", err)
	}

	if got := lastText(t, s); got != "I see Aunt May." {
		t.Errorf("transcript tail = %q", got)
	}
	if subj := s.Subject(); subj == nil || subj.Name != "Aunt May" {
		t.Errorf("subject = %+v", subj)
	}
	if got := s.Suggestions(); len(got) != 3 || got[1] != "How does Aunt May talk?" {
		t.Errorf("suggestions = %v", got)
	}
	if spoken := narrator.spoken(); len(spoken) != 1 || spoken[0] != "Hello Aunt May." {
		t.Errorf("narrated = %v", spoken)
	}
}

func TestSession_ScanObjectGenericDetection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/find/object", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.RecognizeResult{
			Status:  api.StatusGenericDetection,
			Objects: []api.Detection{{Object: "cup"}, {Object: "book"}},
		})
	})
	s, _, _ := newTestSession(t, mux)

	if err := s.ScanObject(context.Background()); err != nil {
		t.Fatalf("ScanObject: %v", err)
	}
	if got := lastText(t, s); got != "I see: cup, book. (Not in my personal memory)" {
		t.Errorf("transcript tail = %q", got)
	}
	if s.Subject() != nil {
		t.Error("generic detection set a subject")
	}
}

func TestSession_RecognitionErrorLandsInTranscript(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recognize/person", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	s, _, _ := newTestSession(t, mux)

	if err := s.ScanFace(context.Background()); err != nil {
		t.Fatalf("ScanFace: %v", err)
	}
	if got := lastText(t, s); got != "I don't recognize that person." {
		t.Errorf("transcript tail = %q", got)
	}
}

func TestSession_DeviceFailureSkipsTranscript(t *testing.T) {
	s, device, _ := newTestSession(t, http.NotFoundHandler())
	device.setErr(capture.ErrDeviceNotReady)

	before := s.log.Len()
	err := s.ScanFace(context.Background())
	if !errors.Is(err, capture.ErrDeviceNotReady) {
		t.Fatalf("err = %v; want ErrDeviceNotReady", err)
	}
	if s.log.Len() != before {
		t.Error("device failure wrote to the transcript")
	}
}

func TestSession_EnrollPersonSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remember/person", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("name"); got != "Aunt May" {
			t.Errorf("name = %q", got)
		}
		if got := r.FormValue("relation"); got != "Aunt" {
			t.Errorf("relation = %q", got)
		}
		if _, hdr, err := r.FormFile("file"); err != nil || hdr.Filename != "enroll.jpg" {
			t.Errorf("photo part = %v, %v", hdr, err)
		}
		writeJSON(t, w, api.EnrollResult{Status: api.StatusStored, AvatarURL: "/avatars/may.png"})
	})
	s, _, narrator := newTestSession(t, mux)
	ctx := context.Background()

	if err := s.OpenEnrollment(ctx, KindPerson); err != nil {
		t.Fatalf("OpenEnrollment: %v", err)
	}
	res, err := s.SubmitForm(ctx, &Draft{Name: "Aunt May", Relation: "Aunt"})
	if err != nil {
		t.Fatalf("SubmitForm: %v", err)
	}
	if res.AvatarURL != "/avatars/may.png" {
		t.Errorf("avatar = %q", res.AvatarURL)
	}
	if got := lastText(t, s); got != "I've remembered Aunt May. (Avatar Created)" {
		t.Errorf("transcript tail = %q", got)
	}
	if s.Mode() != ModePerson {
		t.Errorf("mode after enrollment = %v", s.Mode())
	}
	if region, armed := s.pipeline.Armed(); !armed || region != "person" {
		t.Errorf("camera not rearmed: armed=%v region=%q", armed, region)
	}
	if spoken := narrator.spoken(); len(spoken) == 0 || spoken[len(spoken)-1] != "I have remembered Aunt May." {
		t.Errorf("narrated = %v", spoken)
	}
}

func TestSession_EnrollValidation(t *testing.T) {
	s, _, _ := newTestSession(t, http.NotFoundHandler())
	ctx := context.Background()

	if err := s.OpenEnrollment(ctx, KindPerson); err != nil {
		t.Fatalf("OpenEnrollment: %v", err)
	}
	if _, err := s.SubmitForm(ctx, &Draft{Name: "Aunt May"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing relation: err = %v; want ErrValidation", err)
	}
	if _, err := s.SubmitForm(ctx, &Draft{Relation: "Aunt"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing name: err = %v; want ErrValidation", err)
	}
	// A rejected form never leaves the form stage.
	if s.Mode() != ModeEnrollUI {
		t.Errorf("mode = %v; want enroll_ui", s.Mode())
	}
}

func TestSession_EnrollFailureKeepsDraftForRetry(t *testing.T) {
	var fail = true
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.HandleFunc("/remember/object", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		f := fail
		mu.Unlock()
		if f {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(t, w, map[string]string{"detail": "Image too blurry to index."})
			return
		}
		writeJSON(t, w, api.EnrollResult{Status: api.StatusStored})
	})
	s, _, _ := newTestSession(t, mux)
	ctx := context.Background()

	if err := s.OpenEnrollment(ctx, KindObject); err != nil {
		t.Fatalf("OpenEnrollment: %v", err)
	}
	if _, err := s.SubmitForm(ctx, &Draft{Name: "Wallet"}); err == nil {
		t.Fatal("SubmitForm succeeded against failing backend")
	}

	// The backend's own words reach the transcript, the draft stays live,
	// and the machine holds in capture mode for a retry.
	if got := lastText(t, s); got != "Image too blurry to index." {
		t.Errorf("transcript tail = %q", got)
	}
	if s.Mode() != ModeEnrollCapture {
		t.Errorf("mode after failure = %v; want enroll_capture", s.Mode())
	}

	mu.Lock()
	fail = false
	mu.Unlock()

	// Retry is an explicit shutter press, not an automatic resubmit.
	if err := s.Capture(ctx); err != nil {
		t.Fatalf("retry capture: %v", err)
	}
	if got := lastText(t, s); got != "I've remembered your Wallet." {
		t.Errorf("transcript tail after retry = %q", got)
	}
	if s.Mode() != ModePerson {
		t.Errorf("mode after retry = %v; want person", s.Mode())
	}
}

func TestSession_EnrollFailureWithoutDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remember/person", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	s, _, _ := newTestSession(t, mux)
	ctx := context.Background()

	if err := s.OpenEnrollment(ctx, KindPerson); err != nil {
		t.Fatalf("OpenEnrollment: %v", err)
	}
	if _, err := s.SubmitForm(ctx, &Draft{Name: "A", Relation: "Friend"}); err == nil {
		t.Fatal("SubmitForm succeeded against failing backend")
	}
	if got := lastText(t, s); got != "Failed to enroll. Please try again." {
		t.Errorf("transcript tail = %q", got)
	}
}

func TestSession_HandleSuggestionRoutes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/query", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode query: %v", err)
		}
		writeJSON(t, w, api.ChatResult{Status: api.StatusFound, Text: "Answer to: " + req.Text})
	})
	s, _, _ := newTestSession(t, mux)
	ctx := context.Background()

	if err := s.HandleSuggestion(ctx, SuggestEnrollPerson); err != nil {
		t.Fatalf("HandleSuggestion: %v", err)
	}
	if s.Mode() != ModeEnrollUI {
		t.Errorf("mode = %v; want enroll_ui", s.Mode())
	}
	if err := s.CancelEnrollment(ctx); err != nil {
		t.Fatalf("CancelEnrollment: %v", err)
	}

	if err := s.HandleSuggestion(ctx, "Who is this?"); err != nil {
		t.Fatalf("HandleSuggestion: %v", err)
	}
	if got := lastText(t, s); got != "Answer to: Who is this?" {
		t.Errorf("transcript tail = %q", got)
	}
}

func TestSession_LogoutResetsEverything(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recognize/person", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.RecognizeResult{
			Status: api.StatusIdentified,
			Person: &api.Person{Name: "Grandpa Joe"},
		})
	})
	s, _, _ := newTestSession(t, mux)
	ctx := context.Background()

	if err := s.ScanFace(ctx); err != nil {
		t.Fatalf("ScanFace: %v", err)
	}
	if s.Subject() == nil {
		t.Fatal("no subject after identification")
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Subject() != nil {
		t.Error("subject survived logout")
	}
	if s.Mode() != ModePerson {
		t.Errorf("mode = %v; want person", s.Mode())
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Text != DefaultGreeting {
		t.Errorf("transcript after logout = %+v", msgs)
	}
	if got := s.Suggestions(); len(got) != 4 || !strings.Contains(got[1], "wallet") {
		t.Errorf("suggestions = %v", got)
	}
}
