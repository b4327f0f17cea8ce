package webpush

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

func TestDecodeServerKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"no padding needed", base64.URLEncoding.EncodeToString([]byte{1, 2, 3}), []byte{1, 2, 3}},
		{"one pad char", base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe}), []byte{0xff, 0xfe}},
		{"two pad chars", base64.RawURLEncoding.EncodeToString([]byte{0x42}), []byte{0x42}},
		{"urlsafe alphabet", "_-8", []byte{0xff, 0xef}},
	}

	for _, tc := range tests {
		got, err := DecodeServerKey(tc.in)
		if err != nil {
			t.Errorf("%s: DecodeServerKey(%q) error: %v", tc.name, tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestDecodeServerKey_TypicalVapidKey(t *testing.T) {
	// A VAPID public key is a 65-byte uncompressed P-256 point, which the
	// server ships as 87 chars of unpadded URL-safe base64.
	raw := make([]byte, 65)
	raw[0] = 0x04
	for i := 1; i < len(raw); i++ {
		raw[i] = byte(i * 7)
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	if len(encoded) != 87 {
		t.Fatalf("test setup: encoded length = %d", len(encoded))
	}

	got, err := DecodeServerKey(encoded)
	if err != nil {
		t.Fatalf("DecodeServerKey: %v", err)
	}
	if len(got) != 65 || got[0] != 0x04 {
		t.Fatalf("decoded key mangled: len=%d first=%#x", len(got), got[0])
	}
	for i := range raw {
		if got[i] != raw[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, got[i], raw[i])
		}
	}
}

func TestDecodeServerKey_Errors(t *testing.T) {
	for _, in := range []string{"", "!bad!"} {
		if _, err := DecodeServerKey(in); err == nil {
			t.Errorf("DecodeServerKey(%q) = nil error", in)
		}
	}
}

// fakeSubscription records unsubscribe calls in the shared event log.
type fakeSubscription struct {
	id     int
	events *[]string
	rec    Record
}

func (f *fakeSubscription) Record() Record { return f.rec }

func (f *fakeSubscription) Unsubscribe(ctx context.Context) error {
	*f.events = append(*f.events, fmt.Sprintf("unsubscribe:%d", f.id))
	return nil
}

// fakeRegistration holds at most one live subscription.
type fakeRegistration struct {
	events    *[]string
	current   *fakeSubscription
	nextID    int
	lookupErr error
}

func (f *fakeRegistration) Subscription(ctx context.Context) (Subscription, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.current == nil {
		return nil, nil
	}
	return f.current, nil
}

func (f *fakeRegistration) Subscribe(ctx context.Context, serverKey []byte) (Subscription, error) {
	f.nextID++
	f.current = &fakeSubscription{
		id:     f.nextID,
		events: f.events,
		rec: Record{
			Endpoint: fmt.Sprintf("https://push.example/%d", f.nextID),
			Keys:     Keys{P256DH: "p", Auth: "a"},
		},
	}
	*f.events = append(*f.events, fmt.Sprintf("subscribe:%d", f.nextID))
	return f.current, nil
}

type fakePlatform struct {
	supported  bool
	permission Permission
	granted    Permission
	reg        *fakeRegistration
	regErr     error
}

func (f *fakePlatform) Supported() bool        { return f.supported }
func (f *fakePlatform) Permission() Permission { return f.permission }

func (f *fakePlatform) RequestPermission(ctx context.Context) (Permission, error) {
	return f.granted, nil
}

func (f *fakePlatform) Register(ctx context.Context) (Registration, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.reg, nil
}

type fakeServer struct {
	key     string
	keyErr  error
	records []Record
}

func (f *fakeServer) VapidKey(ctx context.Context) (string, error) {
	return f.key, f.keyErr
}

func (f *fakeServer) SaveSubscription(ctx context.Context, rec Record) error {
	f.records = append(f.records, rec)
	return nil
}

func validKey() string {
	raw := make([]byte, 65)
	raw[0] = 0x04
	return base64.RawURLEncoding.EncodeToString(raw)
}

func TestSubscriber_Resubscribe_Idempotent(t *testing.T) {
	var events []string
	reg := &fakeRegistration{events: &events}
	platform := &fakePlatform{supported: true, granted: PermissionGranted, reg: reg}
	server := &fakeServer{key: validKey()}
	sub := &Subscriber{Platform: platform, Server: server}

	ctx := context.Background()
	if _, err := sub.Subscribe(ctx); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	if _, err := sub.Subscribe(ctx); err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}

	want := []string{"subscribe:1", "unsubscribe:1", "subscribe:2"}
	if len(events) != len(want) {
		t.Fatalf("events = %v; want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v; want %v", events, want)
		}
	}

	// Exactly one live subscription, and both records were forwarded.
	if reg.current == nil || reg.current.id != 2 {
		t.Errorf("live subscription = %+v; want id 2", reg.current)
	}
	if len(server.records) != 2 {
		t.Errorf("forwarded %d records; want 2", len(server.records))
	}
}

func TestSubscriber_LookupFailureIsFatal(t *testing.T) {
	// A live subscription the registry cannot report. Subscribing anyway
	// would register a second endpoint beside it, so the flow must stop.
	var events []string
	reg := &fakeRegistration{
		events:    &events,
		current:   &fakeSubscription{id: 99, events: &events},
		lookupErr: errors.New("registry unavailable"),
	}
	platform := &fakePlatform{supported: true, granted: PermissionGranted, reg: reg}
	sub := &Subscriber{Platform: platform, Server: &fakeServer{key: validKey()}}

	_, err := sub.Subscribe(context.Background())
	if !errors.Is(err, ErrSubscribeFailed) {
		t.Fatalf("err = %v; want ErrSubscribeFailed", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %v; want none", events)
	}
	if reg.current == nil || reg.current.id != 99 {
		t.Errorf("live subscription = %+v; want the original untouched", reg.current)
	}
}

func TestSubscriber_Failures(t *testing.T) {
	ctx := context.Background()
	var events []string

	tests := []struct {
		name     string
		platform *fakePlatform
		server   *fakeServer
		want     error
	}{
		{
			name:     "unsupported platform",
			platform: &fakePlatform{supported: false},
			server:   &fakeServer{key: validKey()},
			want:     ErrUnsupportedPlatform,
		},
		{
			name:     "previously denied",
			platform: &fakePlatform{supported: true, permission: PermissionDenied},
			server:   &fakeServer{key: validKey()},
			want:     ErrPermissionDenied,
		},
		{
			name:     "prompt dismissed",
			platform: &fakePlatform{supported: true, granted: PermissionDefault, reg: &fakeRegistration{events: &events}},
			server:   &fakeServer{key: validKey()},
			want:     ErrPermissionDenied,
		},
		{
			name:     "registration failed",
			platform: &fakePlatform{supported: true, granted: PermissionGranted, regErr: errors.New("no sw")},
			server:   &fakeServer{key: validKey()},
			want:     ErrRegistrationFailed,
		},
		{
			name:     "empty key",
			platform: &fakePlatform{supported: true, granted: PermissionGranted, reg: &fakeRegistration{events: &events}},
			server:   &fakeServer{key: ""},
			want:     ErrKeyFetchFailed,
		},
		{
			name:     "key fetch error",
			platform: &fakePlatform{supported: true, granted: PermissionGranted, reg: &fakeRegistration{events: &events}},
			server:   &fakeServer{keyErr: errors.New("boom")},
			want:     ErrKeyFetchFailed,
		},
		{
			name:     "garbage key",
			platform: &fakePlatform{supported: true, granted: PermissionGranted, reg: &fakeRegistration{events: &events}},
			server:   &fakeServer{key: "!!!"},
			want:     ErrSubscribeFailed,
		},
	}

	for _, tc := range tests {
		s := &Subscriber{Platform: tc.platform, Server: tc.server}
		_, err := s.Subscribe(ctx)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v; want %v", tc.name, err, tc.want)
		}
	}
}
