package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mementolabs/companion/pkg/api"
	"github.com/mementolabs/companion/pkg/audioasset"
)

// apology is the fixed answer for failed or unrecognized query responses.
const apology = "I had trouble searching my memory."

// Ask runs one conversational query end to end and returns the bot message
// that was appended (a zero Message when the completion was superseded by a
// newer query).
//
// The user's message is appended synchronously before the request is
// dispatched, so transcript order always reflects submission order. Every
// completion, success or failure, appends exactly one bot message and
// narrates exactly once; a completion that arrives after a newer query was
// issued is discarded instead.
func (s *Session) Ask(ctx context.Context, text string) Message {
	s.mu.Lock()
	s.querySeq++
	seq := s.querySeq
	subject := s.state.Subject
	s.mu.Unlock()

	s.log.Append(newMessage(RoleUser, text))

	if subject != nil && wantsVoiceSample(text) {
		return s.voiceShortcut(ctx, seq)
	}
	return s.generalQuery(ctx, seq, text)
}

// wantsVoiceSample reports whether the query asks to hear the subject's
// voice.
func wantsVoiceSample(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "talk") || strings.Contains(t, "voice")
}

// voiceShortcut resolves the subject's stored voice sample locally instead
// of hitting the query endpoint. It completes after a short artificial
// delay so the status label does not flash and vanish.
func (s *Session) voiceShortcut(ctx context.Context, seq uint64) Message {
	s.setPhase(seq, PhaseRetrievingVoice)

	s.mu.Lock()
	subject := s.state.Subject
	s.mu.Unlock()

	msg := newMessage(RoleBot, "")
	switch {
	case subject == nil:
		// Subject cleared between routing and resolution (logout race).
		msg.Text = apology
	case subject.Audio == "":
		msg.Text = fmt.Sprintf("I don't have a voice sample for %s.", subject.Name)
	default:
		asset, err := audioasset.Decode(subject.Audio)
		if err != nil {
			msg.Text = "I found a voice record but couldn't play it."
		} else {
			msg.Text = fmt.Sprintf("Here is the voice of %s.", subject.Name)
			msg.Audio = asset
		}
	}

	timer := time.NewTimer(s.voiceDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}

	return s.finishQuery(seq, msg, msg.Text, nil, nil, false)
}

// generalQuery dispatches the text to the query endpoint while running the
// progressive status simulation beside it.
func (s *Session) generalQuery(ctx context.Context, seq uint64, text string) Message {
	s.setPhase(seq, PhaseAccessingMemory)

	// The simulation is cosmetic: it advances on its own fixed interval,
	// holds at the last stage until the request settles, and is cancelled
	// unconditionally on every exit path below.
	ticker := time.NewTicker(s.interval)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.advancePhase(seq)
			}
		}
	}()
	defer func() {
		ticker.Stop()
		close(stop)
	}()

	res, err := s.client.Chat.Query(ctx, text)
	if err != nil {
		s.logger.Warn("chat query failed", "err", err)
		msg := newMessage(RoleBot, apology)
		return s.finishQuery(seq, msg, apology, nil, nil, true)
	}

	if res.Status != api.StatusFound {
		answer := res.Text
		if answer == "" {
			answer = "I don't know who that is."
		}
		msg := newMessage(RoleBot, answer)
		return s.finishQuery(seq, msg, answer, nil, nil, true)
	}

	msg := newMessage(RoleBot, res.Text)

	// Prefer the person's authoritative voice sample over generic
	// synthesized audio. Decode failures fall back to text silently.
	audioSrc := res.PersonAudio
	if audioSrc == "" {
		audioSrc = res.AudioBase64
	}
	if audioSrc != "" {
		if asset, derr := audioasset.Decode(audioSrc); derr == nil {
			msg.Audio = asset
		} else {
			s.logger.Debug("discarding malformed answer audio", "err", derr)
		}
	}
	msg.Image = res.ImageBase64
	msg.Gallery = res.Gallery

	var suggestions []string
	if res.Person != nil {
		suggestions = SuggestionsFor(res.Person.Name)
	}
	return s.finishQuery(seq, msg, res.Text, suggestions, res.Person, true)
}

// setPhase assigns the phase to the given query.
func (s *Session) setPhase(seq uint64, p Phase) {
	s.mu.Lock()
	s.phase = p
	s.phaseSeq = seq
	s.mu.Unlock()
}

// advancePhase steps the simulation if the given query still owns the
// phase. The sequence only moves forward, capped at PhaseSynthesizing.
func (s *Session) advancePhase(seq uint64) {
	s.mu.Lock()
	if s.phaseSeq == seq {
		s.phase = s.phase.next()
	}
	s.mu.Unlock()
}

// finishQuery settles one query: append the bot message, apply subject and
// suggestion updates, narrate once, and clear the phase. With finalize set
// the phase shows PhaseFinalizing briefly before going idle.
//
// A completion whose query has been superseded is discarded entirely: no
// message, no narration, and the phase is released only if this query still
// held it.
func (s *Session) finishQuery(seq uint64, msg Message, narration string, suggestions []string, subject *api.Person, finalize bool) Message {
	s.mu.Lock()
	if seq < s.querySeq {
		if s.phaseSeq == seq {
			s.phase = PhaseIdle
		}
		s.mu.Unlock()
		s.logger.Debug("discarding superseded query response", "seq", seq)
		return Message{}
	}

	if subject != nil {
		s.state.Subject = subject
	}
	if suggestions != nil {
		s.suggestions = suggestions
	}
	if finalize {
		s.phase = PhaseFinalizing
		s.phaseSeq = seq
	} else {
		s.phase = PhaseIdle
	}
	s.mu.Unlock()

	s.log.Append(msg)
	s.narrator.Speak(narration, nil)

	if finalize {
		time.AfterFunc(s.finalizeHold, func() {
			s.mu.Lock()
			if s.phaseSeq == seq && s.phase == PhaseFinalizing {
				s.phase = PhaseIdle
			}
			s.mu.Unlock()
		})
	}
	return msg
}
