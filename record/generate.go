package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"

	"mighty/mighty"
)

var errStateMismatch = errors.New("replayed state does not match the recorded one")

// statesEqual compares two States by their JSON encoding, since State
// holds slices and pointers that make a direct == comparison invalid.
func statesEqual(a, b mighty.State) bool {
	ja, erra := json.Marshal(a)
	jb, errb := json.Marshal(b)
	if erra != nil || errb != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// Step is one scripted command in a GenerateTape call.
type Step struct {
	Seat    int
	Command mighty.Command
}

// GenerateTape replays a scripted command sequence from scratch through
// the engine under the given rule and randomness source, producing the
// tape a Room would have produced by applying the same commands live.
// It stops at the first rejected command, returning the tape built so
// far alongside a *ReplayError describing the divergence.
func GenerateTape(roomID string, rule mighty.Rule, rng *rand.Rand, steps []Step) (*Tape, error) {
	tape := NewTape(roomID)
	state := mighty.NewState()
	for i, step := range steps {
		next, err := mighty.Next(state, step.Seat, step.Command, rule, rng)
		if err != nil {
			return tape, &ReplayError{
				StepIndex: i,
				Seat:      step.Seat,
				Command:   step.Command.Format(),
				Reason:    "command_rejected",
				Err:       err,
			}
		}
		state = next
		tape.Append(step.Seat, step.Command, state)
	}
	return tape, nil
}

// Verify re-derives state by replaying every entry's command through the
// engine from scratch and confirms each step reproduces the entry's
// recorded state exactly, byte for byte once marshaled. A mismatch means
// the tape was tampered with, or recorded under a different Rule/rng than
// the one passed here.
func Verify(rule mighty.Rule, rng *rand.Rand, tape *Tape) error {
	state := mighty.NewState()
	for i, e := range tape.Entries {
		next, err := mighty.Next(state, e.Seat, e.Command, rule, rng)
		if err != nil {
			return &ReplayError{
				StepIndex: i,
				Seat:      e.Seat,
				Command:   e.Command.Format(),
				Reason:    "command_rejected_on_replay",
				Err:       err,
			}
		}
		if !statesEqual(next, e.State) {
			return &ReplayError{
				StepIndex: i,
				Seat:      e.Seat,
				Command:   e.Command.Format(),
				Reason:    "state_mismatch",
				Err:       errStateMismatch,
			}
		}
		state = next
	}
	return nil
}
