// Package audioasset converts between base64-encoded audio payloads and
// playable binary assets.
//
// The backend transports recorded voice samples and synthesized speech as
// base64 text inside JSON bodies. This package is the single place where that
// text form is turned into a playable asset and back. Decode fails softly:
// callers always have a text fallback, so a malformed payload yields
// ErrMalformedPayload rather than a panic.
package audioasset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// DefaultMIME is the MIME type assumed for voice samples when the payload
// carries no type information. The recorder produces WebM/Opus.
const DefaultMIME = "audio/webm"

// ErrMalformedPayload is returned by Decode when the input is not valid
// base64.
var ErrMalformedPayload = errors.New("audioasset: malformed payload")

// Asset is a playable binary audio asset.
type Asset struct {
	data []byte
	mime string
}

// New wraps raw audio bytes as an asset. The data is not copied; the caller
// must not mutate it afterwards. An empty mime falls back to DefaultMIME.
func New(data []byte, mime string) *Asset {
	if mime == "" {
		mime = DefaultMIME
	}
	return &Asset{data: data, mime: mime}
}

// Decode decodes a base64 payload into a playable asset.
//
// It accepts standard base64 with or without padding. On malformed input it
// returns ErrMalformedPayload (wrapped); it never panics.
func Decode(encoded string) (*Asset, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPayload)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some payloads arrive without trailing padding.
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}
	return New(data, DefaultMIME), nil
}

// Encode returns the asset's bytes as standard padded base64, the form the
// enrollment endpoint expects. Encode is total for any well-formed asset and
// round-trips through Decode byte-identically.
func (a *Asset) Encode() string {
	return base64.StdEncoding.EncodeToString(a.data)
}

// Bytes returns the raw audio bytes.
func (a *Asset) Bytes() []byte {
	return a.data
}

// MIME returns the asset's MIME type.
func (a *Asset) MIME() string {
	return a.mime
}

// Len returns the byte length of the asset.
func (a *Asset) Len() int {
	return len(a.data)
}

// Reader returns a reader over the asset bytes, for multipart uploads.
func (a *Asset) Reader() io.Reader {
	return bytes.NewReader(a.data)
}
