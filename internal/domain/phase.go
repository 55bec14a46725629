package domain

import "fmt"

// Phase is a state of a run.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseConfigResolved  Phase = "config_resolved"
	PhaseTargetsResolved Phase = "targets_resolved"
	PhasePartitioned     Phase = "partitioned"
	PhaseRunning         Phase = "running"
	PhaseFinalizing      Phase = "finalizing"
	PhaseTerminated      Phase = "terminated"
)

// Running is re-entered once per worker completion. The edges into
// PhaseTerminated from the startup phases are aborts on fatal errors.
var allowedPhaseTransitions = map[Phase]map[Phase]struct{}{
	PhaseIdle: {
		PhaseConfigResolved: {},
		PhaseTerminated:     {},
	},
	PhaseConfigResolved: {
		PhaseTargetsResolved: {},
		PhaseTerminated:      {},
	},
	PhaseTargetsResolved: {
		PhasePartitioned: {},
	},
	PhasePartitioned: {
		PhaseRunning: {},
	},
	PhaseRunning: {
		PhaseRunning:    {},
		PhaseFinalizing: {},
	},
	PhaseFinalizing: {
		PhaseTerminated: {},
	},
	PhaseTerminated: {},
}

func ValidatePhaseTransition(from, to Phase) error {
	next, ok := allowedPhaseTransitions[from]
	if !ok {
		return fmt.Errorf("invalid run phase: %q", from)
	}
	if _, ok := allowedPhaseTransitions[to]; !ok {
		return fmt.Errorf("invalid run phase: %q", to)
	}
	if _, ok := next[to]; !ok {
		return fmt.Errorf("invalid run phase transition: %s -> %s", from, to)
	}
	return nil
}

// PhaseTracker records the phases a run passes through. It is owned by the
// coordinating goroutine and is not safe for concurrent use.
type PhaseTracker struct {
	current Phase
	history []Phase
}

func NewPhaseTracker() *PhaseTracker {
	return &PhaseTracker{current: PhaseIdle, history: []Phase{PhaseIdle}}
}

// Advance moves to the next phase if the transition is allowed.
func (t *PhaseTracker) Advance(to Phase) error {
	if err := ValidatePhaseTransition(t.current, to); err != nil {
		return err
	}
	t.current = to
	t.history = append(t.history, to)
	return nil
}

func (t *PhaseTracker) Current() Phase { return t.current }

// History returns every phase entered so far, Idle first.
func (t *PhaseTracker) History() []Phase {
	out := make([]Phase, len(t.history))
	copy(out, t.history)
	return out
}
