// Package session is the client-side orchestration engine of the memory
// companion.
//
// A Session owns the interaction mode state machine, the append-only
// conversation transcript, the suggestion strip, and the processing phase.
// It coordinates four collaborators: the capture pipeline (still frames),
// the backend API client (recognition, enrollment, chat), the narrator
// (spoken responses), and optional local persistence (credentials and
// transcript snapshots).
//
// Mode transitions go through the pure reducer in Apply, which enforces the
// enrollment-draft invariants; the Session is the only writer of the live
// state. Recognition responses are classified by Interpret, which never
// fails. Conversational queries run a cosmetic progressive status
// simulation beside the real request; see Ask.
package session
