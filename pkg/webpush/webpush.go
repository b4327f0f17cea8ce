// Package webpush implements the client side of the push-notification
// subscription protocol: capability and permission checks, background handler
// registration, unconditional teardown of any stale subscription, VAPID key
// retrieval and transform, and finally the subscribe-and-forward step.
//
// The platform (service worker registry, permission prompt, push manager) is
// abstracted behind the Platform interface so the flow can run against the
// real browser bridge or an in-memory fake.
package webpush

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors, one per protocol step that can fail.
var (
	ErrUnsupportedPlatform = errors.New("webpush: platform does not support push")
	ErrPermissionDenied    = errors.New("webpush: notification permission denied")
	ErrRegistrationFailed  = errors.New("webpush: handler registration failed")
	ErrKeyFetchFailed      = errors.New("webpush: server key fetch failed")
	ErrSubscribeFailed     = errors.New("webpush: subscribe failed")
)

// Permission is the user's notification permission state.
type Permission int

const (
	// PermissionDefault means the user has not been asked yet.
	PermissionDefault Permission = iota
	// PermissionGranted means notifications are allowed.
	PermissionGranted
	// PermissionDenied means the user has blocked notifications.
	PermissionDenied
)

// String returns the string representation of the permission state.
func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Keys are the client encryption keys of a push subscription.
type Keys struct {
	P256DH string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Record is the subscription record forwarded to the backend. The client
// never persists it; the browser-level registry owns it.
type Record struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// Subscription is an active push subscription held by the platform.
type Subscription interface {
	// Record returns the subscription record to forward to the backend.
	Record() Record

	// Unsubscribe tears the subscription down on the push service.
	Unsubscribe(ctx context.Context) error
}

// Registration is a registered background delivery handler.
type Registration interface {
	// Subscription returns the existing subscription, or nil if none.
	Subscription(ctx context.Context) (Subscription, error)

	// Subscribe creates a new subscription authorized by the given raw
	// server key.
	Subscribe(ctx context.Context, serverKey []byte) (Subscription, error)
}

// Platform abstracts the host environment's push capability.
type Platform interface {
	// Supported reports whether the platform can deliver push at all.
	Supported() bool

	// Permission returns the current permission state without prompting.
	Permission() Permission

	// RequestPermission prompts the user and returns the resulting state.
	RequestPermission(ctx context.Context) (Permission, error)

	// Register installs the background delivery handler.
	Register(ctx context.Context) (Registration, error)
}

// Server is the backend's reminder surface: it issues the VAPID public key
// and accepts subscription records.
type Server interface {
	// VapidKey fetches the server's current public key in URL-safe base64.
	VapidKey(ctx context.Context) (string, error)

	// SaveSubscription forwards a subscription record to the backend.
	SaveSubscription(ctx context.Context, rec Record) error
}

// Subscriber runs the subscription protocol.
type Subscriber struct {
	Platform Platform
	Server   Server

	// Logger is used for progress logging. Defaults to slog.Default().
	Logger *slog.Logger
}

func (s *Subscriber) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Subscribe runs the full protocol and returns the record that was forwarded
// to the backend.
//
// Re-subscription is idempotent: any existing subscription is unsubscribed
// unconditionally before the new one is created, so a total failure leaves
// the client unsubscribed rather than half-subscribed with a stale key.
func (s *Subscriber) Subscribe(ctx context.Context) (Record, error) {
	log := s.logger()

	if !s.Platform.Supported() {
		return Record{}, ErrUnsupportedPlatform
	}

	// A prior explicit denial terminates the flow without prompting again;
	// the distinct message lets the caller tell the user to flip the
	// permission in settings rather than expect a new prompt.
	if s.Platform.Permission() == PermissionDenied {
		return Record{}, fmt.Errorf("%w: previously denied, enable notifications in settings", ErrPermissionDenied)
	}

	perm, err := s.Platform.RequestPermission(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if perm != PermissionGranted {
		return Record{}, fmt.Errorf("%w: not granted", ErrPermissionDenied)
	}

	reg, err := s.Platform.Register(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	// Tear down any stale subscription so the old key can never shadow the
	// new one on the push service. A failed lookup is fatal: subscribing
	// blind could leave a stale endpoint registered beside the new one.
	existing, err := reg.Subscription(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("%w: look up existing subscription: %v", ErrSubscribeFailed, err)
	}
	if existing != nil {
		log.Debug("unsubscribing stale push subscription")
		if err := existing.Unsubscribe(ctx); err != nil {
			return Record{}, fmt.Errorf("%w: unsubscribe stale: %v", ErrSubscribeFailed, err)
		}
	}

	key, err := s.Server.VapidKey(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	if key == "" {
		return Record{}, fmt.Errorf("%w: server returned empty key", ErrKeyFetchFailed)
	}

	rawKey, err := DecodeServerKey(key)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	sub, err := reg.Subscribe(ctx, rawKey)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	rec := sub.Record()
	if err := s.Server.SaveSubscription(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("%w: forward record: %v", ErrSubscribeFailed, err)
	}

	log.Info("push subscription active", "endpoint", rec.Endpoint)
	return rec, nil
}
