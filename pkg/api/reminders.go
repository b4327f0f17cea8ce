package api

import (
	"context"
	"net/http"

	"github.com/mementolabs/companion/pkg/webpush"
)

// ReminderService provides the push-notification key and subscription sink.
// It satisfies webpush.Server, so it can be plugged straight into a
// webpush.Subscriber.
type ReminderService struct {
	client *Client
}

// VapidKey fetches the server's current VAPID public key (URL-safe base64).
func (s *ReminderService) VapidKey(ctx context.Context) (string, error) {
	var resp struct {
		PublicKey string `json:"public_key"`
	}
	if err := s.client.http.requestJSON(ctx, http.MethodGet, "/reminders/vapid-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.PublicKey, nil
}

// SaveSubscription forwards a push subscription record to the backend.
func (s *ReminderService) SaveSubscription(ctx context.Context, rec webpush.Record) error {
	return s.client.http.requestJSON(ctx, http.MethodPost, "/reminders/subscribe", rec, nil)
}

var _ webpush.Server = (*ReminderService)(nil)
