package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/capture"
	"github.com/mementolabs/companion/pkg/speech"
)

// ErrNoDraft is returned when an enrollment capture arrives with no live
// draft. The state machine prevents this; seeing it means a caller bypassed
// the machine.
var ErrNoDraft = errors.New("session: no enrollment draft")

// Session is the client-side orchestrator: it owns the machine state, the
// transcript, the suggestion strip, and the processing phase, and it is the
// only writer of all four.
type Session struct {
	mu          sync.Mutex
	state       State
	suggestions []string
	phase       Phase
	phaseSeq    uint64
	querySeq    uint64
	role        string

	log      *Log
	client   *api.Client
	narrator *speech.Tracker
	pipeline *capture.Pipeline
	creds    *CredentialStore

	interval     time.Duration
	voiceDelay   time.Duration
	finalizeHold time.Duration

	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithNarrator sets the narrator used for spoken responses.
func WithNarrator(n speech.Narrator) Option {
	return func(s *Session) { s.narrator = speech.NewTracker(n) }
}

// WithDevice attaches a capture device.
func WithDevice(d capture.Device) Option {
	return func(s *Session) { s.pipeline = capture.NewPipeline(d, s.logger) }
}

// WithCredentialStore attaches persistent credential storage so login
// survives restarts.
func WithCredentialStore(cs *CredentialStore) Option {
	return func(s *Session) { s.creds = cs }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithStatusInterval sets the hold time of each simulated status stage.
func WithStatusInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithVoiceDelay sets the artificial delay of the voice-sample shortcut.
func WithVoiceDelay(d time.Duration) Option {
	return func(s *Session) { s.voiceDelay = d }
}

// New creates a session in ModePerson with a fresh transcript and the
// default suggestion strip.
func New(client *api.Client, opts ...Option) *Session {
	s := &Session{
		state:        State{Mode: ModePerson},
		suggestions:  DefaultSuggestions(),
		log:          NewLog(),
		client:       client,
		narrator:     speech.NewTracker(nil),
		interval:     1500 * time.Millisecond,
		voiceDelay:   800 * time.Millisecond,
		finalizeHold: 400 * time.Millisecond,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the capture pipeline for the initial mode and, when a
// credential store is attached, restores a persisted login including the
// account role. A failed load is logged and the session starts logged out.
func (s *Session) Start(ctx context.Context) error {
	if s.creds != nil {
		token, role, err := s.creds.Load(ctx)
		if err != nil {
			s.logger.Warn("restore credentials", "err", err)
		} else if token != "" {
			s.client.SetToken(token)
			s.mu.Lock()
			s.role = role
			s.mu.Unlock()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncPipeline(ctx)
}

// Role returns the account role of the restored or current login, or ""
// when logged out.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Mode
}

// Subject returns the currently identified person, or nil.
func (s *Session) Subject() *api.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subject
}

// Suggestions returns the current prompt strip.
func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Phase returns the current processing phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Messages returns the transcript.
func (s *Session) Messages() []Message {
	return s.log.Messages()
}

// Speaking reports whether narration is playing.
func (s *Session) Speaking() bool {
	return s.narrator.Speaking()
}

// syncPipeline arms or releases the capture device to match the current
// mode. Callers hold s.mu.
func (s *Session) syncPipeline(ctx context.Context) error {
	if s.pipeline == nil {
		return nil
	}
	if s.state.Mode.CameraBearing() {
		return s.pipeline.Arm(ctx, s.state.Mode.Region())
	}
	return s.pipeline.Disarm()
}

// ScanFace switches to person mode and fires a capture.
func (s *Session) ScanFace(ctx context.Context) error {
	return s.scan(ctx, ScanFace{})
}

// ScanObject switches to object mode and fires a capture.
func (s *Session) ScanObject(ctx context.Context) error {
	return s.scan(ctx, ScanObject{})
}

func (s *Session) scan(ctx context.Context, ev Event) error {
	s.mu.Lock()
	s.state = Apply(s.state, ev)
	s.state = Apply(s.state, TriggerCapture{})
	seq := s.state.CaptureSeq
	region := s.state.Mode.Region()
	if err := s.syncPipeline(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	pipeline := s.pipeline
	s.mu.Unlock()

	if pipeline == nil {
		return nil
	}
	frame, fired, err := pipeline.Trigger(ctx, seq, region)
	if err != nil {
		// Device trouble is a capability problem, not conversation
		// content; surface it to the caller instead of the transcript.
		return err
	}
	if !fired {
		return nil
	}
	return s.dispatchFrame(ctx, frame)
}

// Capture grabs one frame on explicit user request (the shutter button) and
// dispatches it under the current mode. Device failures are returned without
// touching the transcript.
func (s *Session) Capture(ctx context.Context) error {
	if s.pipeline == nil {
		return capture.ErrNotArmed
	}
	frame, err := s.pipeline.RequestCapture(ctx)
	if err != nil {
		return err
	}
	return s.dispatchFrame(ctx, frame)
}

// dispatchFrame routes a captured frame by the mode active right now.
func (s *Session) dispatchFrame(ctx context.Context, frame capture.Frame) error {
	s.mu.Lock()
	mode := s.state.Mode
	s.mu.Unlock()

	switch mode {
	case ModeEnrollCapture:
		_, err := s.submitEnrollment(ctx, frame)
		return err
	case ModeObject:
		res, err := s.client.Recognition.FindObject(ctx, frame.Data)
		if err != nil {
			s.logger.Warn("object recognition failed", "err", err)
			res = nil
		}
		s.applyInterpretation(Interpret(ModeObject, res))
		return nil
	default:
		res, err := s.client.Recognition.RecognizePerson(ctx, frame.Data)
		if err != nil {
			s.logger.Warn("person recognition failed", "err", err)
			res = nil
		}
		s.applyInterpretation(Interpret(ModePerson, res))
		return nil
	}
}

// applyInterpretation commits an interpreter verdict: append the message,
// replace suggestions and subject when the verdict carries them, narrate
// once.
func (s *Session) applyInterpretation(in Interpretation) {
	s.mu.Lock()
	if in.Subject != nil {
		s.state.Subject = in.Subject
	}
	if in.Suggestions != nil {
		s.suggestions = in.Suggestions
	}
	s.mu.Unlock()

	s.log.Append(in.Message)
	s.narrator.Speak(in.Narration, nil)
}

// OpenEnrollment opens the enrollment form for the given subject kind.
func (s *Session) OpenEnrollment(ctx context.Context, kind SubjectKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, OpenEnrollment{Kind: kind})
	return s.syncPipeline(ctx)
}

// CancelEnrollment abandons the live draft and returns to person mode.
func (s *Session) CancelEnrollment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, CancelEnrollment{})
	return s.syncPipeline(ctx)
}

// SubmitForm validates and accepts an enrollment draft, forces the
// enrollment photo capture, and submits the whole record. The returned
// result carries the generated avatar reference for person enrollments.
//
// On submission failure the draft stays live and the machine stays in
// ModeEnrollCapture so the user can retry with Capture or give up with
// CancelEnrollment; retrying is always the caller's decision.
func (s *Session) SubmitForm(ctx context.Context, draft *Draft) (*api.EnrollResult, error) {
	if draft.Kind == "" {
		s.mu.Lock()
		draft.Kind = s.state.EnrollKind
		s.mu.Unlock()
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = Apply(s.state, FormSubmitted{Draft: draft})
	seq := s.state.CaptureSeq
	region := s.state.Mode.Region()
	if err := s.syncPipeline(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	pipeline := s.pipeline
	s.mu.Unlock()

	if pipeline == nil {
		return nil, capture.ErrNotArmed
	}
	frame, fired, err := pipeline.Trigger(ctx, seq, region)
	if err != nil {
		return nil, err
	}
	if !fired {
		return nil, capture.ErrNotArmed
	}
	return s.submitEnrollment(ctx, frame)
}

// submitEnrollment packages the live draft with the enrollment photo into a
// single submission.
func (s *Session) submitEnrollment(ctx context.Context, frame capture.Frame) (*api.EnrollResult, error) {
	s.mu.Lock()
	draft := s.state.Draft
	s.mu.Unlock()
	if draft == nil {
		return nil, ErrNoDraft
	}

	var result *api.EnrollResult
	var err error
	if draft.Kind == KindObject {
		result, err = s.client.Enrollment.RememberObject(ctx, &api.RememberObjectRequest{
			Photo: frame.Data,
			Name:  draft.Name,
			Notes: draft.Notes,
		})
	} else {
		relation := draft.Relation
		if relation == "" {
			relation = DefaultRelation
		}
		req := &api.RememberPersonRequest{
			Photo:    frame.Data,
			Name:     draft.Name,
			Relation: relation,
			Notes:    draft.Notes,
			Age:      draft.Age,
		}
		if draft.Audio != nil {
			req.Audio = draft.Audio.Bytes()
		}
		result, err = s.client.Enrollment.RememberPerson(ctx, req)
	}

	if err != nil {
		// Surface the backend's human-readable detail when it sent one;
		// the draft stays live so the caller can retry.
		text := api.Detail(err)
		if text == "" {
			text = "Failed to enroll. Please try again."
		}
		s.log.Append(newMessage(RoleBot, text))
		s.narrator.Speak(text, nil)
		return nil, fmt.Errorf("session: enrollment: %w", err)
	}

	var confirm, narration string
	if draft.Kind == KindObject {
		confirm = fmt.Sprintf("I've remembered your %s.", draft.Name)
		narration = fmt.Sprintf("I have remembered your %s.", draft.Name)
	} else if result.AvatarURL != "" {
		confirm = fmt.Sprintf("I've remembered %s. (Avatar Created)", draft.Name)
		narration = fmt.Sprintf("I have remembered %s.", draft.Name)
	} else {
		confirm = fmt.Sprintf("I've remembered %s.", draft.Name)
		narration = fmt.Sprintf("I have remembered %s.", draft.Name)
	}

	s.mu.Lock()
	s.state = Apply(s.state, EnrollmentPersisted{})
	if serr := s.syncPipeline(ctx); serr != nil {
		s.logger.Warn("rearm after enrollment", "err", serr)
	}
	s.mu.Unlock()

	s.log.Append(newMessage(RoleBot, confirm))
	s.narrator.Speak(narration, nil)
	return result, nil
}

// HandleSuggestion routes a tapped suggestion: the enrollment shortcuts
// open the form, anything else is sent as a query.
func (s *Session) HandleSuggestion(ctx context.Context, text string) error {
	switch text {
	case SuggestEnrollPerson:
		return s.OpenEnrollment(ctx, KindPerson)
	case SuggestEnrollObject:
		return s.OpenEnrollment(ctx, KindObject)
	default:
		s.Ask(ctx, text)
		return nil
	}
}

// Login authenticates against the backend and, when a credential store is
// attached, persists the bearer token and role for the next start.
func (s *Session) Login(ctx context.Context, username, password string) (*api.Credentials, error) {
	creds, err := s.client.Auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.role = creds.Role
	s.mu.Unlock()
	if s.creds != nil {
		if err := s.creds.Save(ctx, creds.AccessToken, creds.Role); err != nil {
			s.logger.Warn("persist credentials", "err", err)
		}
	}
	return creds, nil
}

// Logout resets the session: default mode, no subject, fresh transcript and
// suggestions, camera released, credentials cleared.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = Apply(s.state, Logout{})
	s.phase = PhaseIdle
	s.phaseSeq = 0
	// Supersede any in-flight query so its completion cannot write into
	// the fresh transcript.
	s.querySeq++
	s.role = ""
	s.suggestions = DefaultSuggestions()
	err := s.syncPipeline(ctx)
	s.mu.Unlock()

	s.log.Reset()
	s.client.SetToken("")
	if s.creds != nil {
		if cerr := s.creds.Clear(ctx); cerr != nil {
			s.logger.Warn("clear credentials", "err", cerr)
		}
	}
	return err
}
