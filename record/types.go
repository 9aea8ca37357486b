// Package record is an append-only, JSON-native log of a single Mighty
// game's state transitions: every successfully applied command paired
// with the full (unredacted) state it produced, suitable for persistence
// and for reconstructing a finished game for audit or dispute review.
package record

import "mighty/mighty"

// Tape is the full recorded history of one game.
type Tape struct {
	TapeVersion int     `json:"tapeVersion"`
	RoomID      string  `json:"roomId"`
	Entries     []Entry `json:"entries"`
}

// Entry is one accepted command and the state it produced.
type Entry struct {
	Seq     uint64         `json:"seq"`
	Seat    int            `json:"seat"`
	Command mighty.Command `json:"command"`
	State   mighty.State   `json:"state"`
}

const currentTapeVersion = 1

// NewTape starts an empty tape for the given room.
func NewTape(roomID string) *Tape {
	return &Tape{TapeVersion: currentTapeVersion, RoomID: roomID}
}

// Append records one more accepted transition.
func (t *Tape) Append(seat int, cmd mighty.Command, state mighty.State) {
	t.Entries = append(t.Entries, Entry{
		Seq:     uint64(len(t.Entries)) + 1,
		Seat:    seat,
		Command: cmd,
		State:   state,
	})
}

// Last returns the most recently recorded state, or the zero State if the
// tape is empty.
func (t *Tape) Last() mighty.State {
	if len(t.Entries) == 0 {
		return mighty.NewState()
	}
	return t.Entries[len(t.Entries)-1].State
}
