package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mementolabs/companion/pkg/audioasset"
	"github.com/mementolabs/companion/pkg/store"
)

const transcriptKey = "transcript/current"

// snapshotMessage is the storage form of a Message. Audio is flattened to
// raw bytes; the asset wrapper is rebuilt on load.
type snapshotMessage struct {
	ID      string    `msgpack:"id"`
	Role    string    `msgpack:"role"`
	Text    string    `msgpack:"text"`
	Time    time.Time `msgpack:"time"`
	Audio   []byte    `msgpack:"audio,omitempty"`
	Image   string    `msgpack:"image,omitempty"`
	Gallery []string  `msgpack:"gallery,omitempty"`
}

// SaveTranscript snapshots the conversation log into the store so a
// restarted client can pick the conversation back up.
func (s *Session) SaveTranscript(ctx context.Context, st store.Store) error {
	msgs := s.log.Messages()
	snap := make([]snapshotMessage, 0, len(msgs))
	for _, m := range msgs {
		sm := snapshotMessage{
			ID:      m.ID,
			Role:    string(m.Role),
			Text:    m.Text,
			Time:    m.Time,
			Image:   m.Image,
			Gallery: m.Gallery,
		}
		if m.Audio != nil {
			sm.Audio = m.Audio.Bytes()
		}
		snap = append(snap, sm)
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session: encode transcript: %w", err)
	}
	if err := st.Put(ctx, transcriptKey, data); err != nil {
		return fmt.Errorf("session: save transcript: %w", err)
	}
	return nil
}

// LoadTranscript replaces the conversation log with the stored snapshot.
// When no snapshot exists the log is left as is.
func (s *Session) LoadTranscript(ctx context.Context, st store.Store) error {
	data, err := st.Get(ctx, transcriptKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load transcript: %w", err)
	}

	var snap []snapshotMessage
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("session: decode transcript: %w", err)
	}
	if len(snap) == 0 {
		return nil
	}

	msgs := make([]Message, 0, len(snap))
	for _, sm := range snap {
		m := Message{
			ID:      sm.ID,
			Role:    Role(sm.Role),
			Text:    sm.Text,
			Time:    sm.Time,
			Image:   sm.Image,
			Gallery: sm.Gallery,
		}
		if len(sm.Audio) > 0 {
			m.Audio = audioasset.New(sm.Audio, "")
		}
		msgs = append(msgs, m)
	}
	s.log.replace(msgs)
	return nil
}
