package webpush

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeServerKey converts a VAPID public key from the URL-safe base64 form
// the server hands out into the raw bytes the subscription call requires.
//
// The transform pads the input to a multiple of four characters with '=',
// maps the URL-safe alphabet back to the standard one ('-' to '+', '_' to
// '/'), then base64-decodes. The push service rejects subscriptions built
// from any deviation of this transform, so it lives here as an isolated pure
// function rather than inline string handling.
func DecodeServerKey(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("webpush: empty server key")
	}
	padded := key + strings.Repeat("=", (4-len(key)%4)%4)
	std := strings.NewReplacer("-", "+", "_", "/").Replace(padded)
	raw, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("webpush: decode server key: %w", err)
	}
	return raw, nil
}
