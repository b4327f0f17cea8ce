package session

// Phase is the processing status shown while a request is outstanding.
//
// The first three phases are cosmetic: the engine advances them on a fixed
// timer independent of the real request, capped at PhaseSynthesizing, so the
// user always sees plausible progress even when the backend is slow. The
// voice-sample shortcut has its own label.
type Phase int

const (
	// PhaseIdle means no request is outstanding.
	PhaseIdle Phase = iota
	// PhaseAccessingMemory is the first simulated stage.
	PhaseAccessingMemory
	// PhaseConsultingCortex is the second simulated stage.
	PhaseConsultingCortex
	// PhaseSynthesizing is the last simulated stage; the simulation holds
	// here until the request settles.
	PhaseSynthesizing
	// PhaseFinalizing shows briefly once the response has arrived.
	PhaseFinalizing
	// PhaseRetrievingVoice is the voice-sample shortcut's own label.
	PhaseRetrievingVoice
)

// String returns the user-facing status label; PhaseIdle is the empty
// string.
func (p Phase) String() string {
	switch p {
	case PhaseAccessingMemory:
		return "Accessing Memory Bank..."
	case PhaseConsultingCortex:
		return "Consulting LLM Cortex..."
	case PhaseSynthesizing:
		return "Synthesizing Response..."
	case PhaseFinalizing:
		return "Finalizing..."
	case PhaseRetrievingVoice:
		return "Retrieving Voice Sample..."
	default:
		return ""
	}
}

// next returns the following simulated stage, holding at
// PhaseSynthesizing.
func (p Phase) next() Phase {
	switch p {
	case PhaseAccessingMemory:
		return PhaseConsultingCortex
	case PhaseConsultingCortex:
		return PhaseSynthesizing
	default:
		return p
	}
}
